package domain

// Status is the lifecycle state of a scannable resource (website or webpage).
// The PENDING_* states are owned by the scanning pipeline: a direct update may
// never move an entity out of them.
type Status string

const (
	// StatusPendingInitial marks a freshly created resource awaiting its first scan.
	StatusPendingInitial Status = "PENDING_INITIAL"
	// StatusPendingRescan marks a resource awaiting a re-scan.
	StatusPendingRescan Status = "PENDING_RESCAN"
	// StatusReady marks a resource that passed its last scan.
	StatusReady Status = "READY"
	// StatusBlocked marks a resource withheld from the public surface.
	StatusBlocked Status = "BLOCKED"
	// StatusDeleted exists for completeness of the enum; deletion is carried
	// by the Deleted flag, not by a status transition.
	StatusDeleted Status = "DELETED"
)

// Pending reports whether s is one of the pipeline-owned states.
func (s Status) Pending() bool {
	return s == StatusPendingInitial || s == StatusPendingRescan
}

// Website is a site registered for accessibility moderation. The owner is the
// user who registered it.
type Website struct {
	Meta
	// UserID is the owner of the website record.
	UserID int64 `json:"userId"`
	// Domain is the registrable domain, unique across all websites.
	Domain string `json:"domain"`
	// Status is the scan lifecycle state.
	Status Status `json:"status"`
	// Deleted is the soft-delete flag, independent of Status.
	Deleted bool `json:"deleted"`
}

// OwnerID returns the owning user id.
func (w Website) OwnerID() int64 { return w.UserID }

// Webpage is a single page of a registered website.
type Webpage struct {
	Meta
	// WebsiteID references the owning website.
	WebsiteID int64 `json:"websiteId"`
	// UserID is the owner of the webpage record.
	UserID int64 `json:"userId"`
	// Path is the absolute path of the page, unique per website.
	Path string `json:"path"`
	// Status is the scan lifecycle state.
	Status Status `json:"status"`
	// Deleted is the soft-delete flag, independent of Status.
	Deleted bool `json:"deleted"`
}

// OwnerID returns the owning user id.
func (w Webpage) OwnerID() int64 { return w.UserID }
