package domain

// Reason classifies what a report complains about.
type Reason string

const (
	ReasonMissingAltText  Reason = "MISSING_ALT_TEXT"
	ReasonLowContrast     Reason = "LOW_CONTRAST"
	ReasonMissingLabels   Reason = "MISSING_LABELS"
	ReasonKeyboardTrap    Reason = "KEYBOARD_TRAP"
	ReasonFlashingContent Reason = "FLASHING_CONTENT"
	ReasonAbusiveBehavior Reason = "ABUSIVE_BEHAVIOR"
	ReasonOther           Reason = "OTHER"
)

// Valid reports whether r is one of the known reasons.
func (r Reason) Valid() bool {
	switch r {
	case ReasonMissingAltText, ReasonLowContrast, ReasonMissingLabels,
		ReasonKeyboardTrap, ReasonFlashingContent, ReasonAbusiveBehavior, ReasonOther:
		return true
	}

	return false
}

// State is the lifecycle state of a report. Reports move freely between OPEN
// and CLOSED.
type State string

const (
	StateOpen   State = "OPEN"
	StateClosed State = "CLOSED"
)

// Report is the value shared by all report subtypes. It is composed into
// WebsiteReport, WebpageReport and UserReport, each of which adds exactly one
// subject reference.
type Report struct {
	// UserID is the user who filed the report.
	UserID int64 `json:"userId"`
	// Reason classifies the complaint. Only admins may change it after filing.
	Reason Reason `json:"reason"`
	// State is OPEN or CLOSED.
	State State `json:"state"`
}

// WebsiteReport is a report filed against a website.
type WebsiteReport struct {
	Meta
	Report
	// WebsiteID is the reported website.
	WebsiteID int64 `json:"websiteId"`
}

// WebpageReport is a report filed against a webpage.
type WebpageReport struct {
	Meta
	Report
	// WebpageID is the reported webpage.
	WebpageID int64 `json:"webpageId"`
}

// UserReport is a report filed against another user.
type UserReport struct {
	Meta
	Report
	// TargetUserID is the reported user.
	TargetUserID int64 `json:"targetUserId"`
}

// ReportKind distinguishes which report family a message belongs to.
type ReportKind string

const (
	ReportKindWebsite ReportKind = "WEBSITE"
	ReportKindWebpage ReportKind = "WEBPAGE"
	ReportKindUser    ReportKind = "USER"
)

// ReportMessage is one append-only entry in the conversation attached to a
// report. Only its author may ever change it, and it is removed together with
// its report.
type ReportMessage struct {
	Meta
	// ReportKind names the report family of ReportID.
	ReportKind ReportKind `json:"reportKind"`
	// ReportID references the report this message belongs to.
	ReportID int64 `json:"reportId"`
	// UserID is the author.
	UserID int64 `json:"userId"`
	// Message is the conversation text.
	Message string `json:"message"`
}

// OwnerID returns the author of the message.
func (m ReportMessage) OwnerID() int64 { return m.UserID }
