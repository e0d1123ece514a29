package domain

// Kind names a resource type of the platform. The authorization gate and the
// capability table are keyed by it.
type Kind string

const (
	KindUser          Kind = "USER"
	KindWebsite       Kind = "WEBSITE"
	KindWebpage       Kind = "WEBPAGE"
	KindTag           Kind = "TAG"
	KindWebsiteTag    Kind = "WEBSITE_TAG"
	KindWebsiteReport Kind = "WEBSITE_REPORT"
	KindWebpageReport Kind = "WEBPAGE_REPORT"
	KindUserReport    Kind = "USER_REPORT"
	KindReportMessage Kind = "REPORT_MESSAGE"
	KindStatistic     Kind = "STATISTIC"
)

// Meta holds the fields shared by every persisted entity. Timestamps are Unix
// milliseconds; zero means unset. ID 0 means the entity has not been saved
// yet. Created is immutable after first persistence and Modified strictly
// increases on every successful update.
type Meta struct {
	ID       int64 `json:"id"`
	Created  int64 `json:"created"`
	Modified int64 `json:"modified"`
}

// EntityID returns the entity id. Together with ModifiedAt it lets the
// result pager work over any entity type.
func (m Meta) EntityID() int64 { return m.ID }

// ModifiedAt returns the last-modified timestamp in Unix milliseconds.
func (m Meta) ModifiedAt() int64 { return m.Modified }

// SetEntityID overwrites the entity id. Transports use it to impose the
// request path id on decoded payloads.
func (m *Meta) SetEntityID(id int64) { m.ID = id }
