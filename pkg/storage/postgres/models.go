package postgres

import (
	"encoding/json"
	"fmt"

	"moderation/pkg/domain"
)

type PgWebsite struct {
	ID     int64 `db:"id"      goqu:"skipinsert"`
	UserID int64 `db:"user_id"`

	Domain  string `db:"domain"`
	Status  string `db:"status"`
	Deleted bool   `db:"deleted"`

	Created  int64 `db:"created"`
	Modified int64 `db:"modified"`
}

func (p *PgWebsite) ToDomain() *domain.Website {
	return &domain.Website{
		Meta:    domain.Meta{ID: p.ID, Created: p.Created, Modified: p.Modified},
		UserID:  p.UserID,
		Domain:  p.Domain,
		Status:  domain.Status(p.Status),
		Deleted: p.Deleted,
	}
}

func (p *PgWebsite) FromDomain(w domain.Website) {
	*p = PgWebsite{
		ID:       w.ID,
		UserID:   w.UserID,
		Domain:   w.Domain,
		Status:   string(w.Status),
		Deleted:  w.Deleted,
		Created:  w.Created,
		Modified: w.Modified,
	}
}

type PgWebpage struct {
	ID        int64 `db:"id"         goqu:"skipinsert"`
	WebsiteID int64 `db:"website_id"`
	UserID    int64 `db:"user_id"`

	Path    string `db:"path"`
	Status  string `db:"status"`
	Deleted bool   `db:"deleted"`

	Created  int64 `db:"created"`
	Modified int64 `db:"modified"`
}

func (p *PgWebpage) ToDomain() *domain.Webpage {
	return &domain.Webpage{
		Meta:      domain.Meta{ID: p.ID, Created: p.Created, Modified: p.Modified},
		WebsiteID: p.WebsiteID,
		UserID:    p.UserID,
		Path:      p.Path,
		Status:    domain.Status(p.Status),
		Deleted:   p.Deleted,
	}
}

func (p *PgWebpage) FromDomain(w domain.Webpage) {
	*p = PgWebpage{
		ID:        w.ID,
		WebsiteID: w.WebsiteID,
		UserID:    w.UserID,
		Path:      w.Path,
		Status:    string(w.Status),
		Deleted:   w.Deleted,
		Created:   w.Created,
		Modified:  w.Modified,
	}
}

type PgTag struct {
	ID     int64 `db:"id"      goqu:"skipinsert"`
	UserID int64 `db:"user_id"`

	Name string `db:"name"`

	Created  int64 `db:"created"`
	Modified int64 `db:"modified"`
}

func (p *PgTag) ToDomain() *domain.Tag {
	return &domain.Tag{
		Meta:   domain.Meta{ID: p.ID, Created: p.Created, Modified: p.Modified},
		UserID: p.UserID,
		Name:   p.Name,
	}
}

func (p *PgTag) FromDomain(t domain.Tag) {
	*p = PgTag{
		ID:       t.ID,
		UserID:   t.UserID,
		Name:     t.Name,
		Created:  t.Created,
		Modified: t.Modified,
	}
}

type PgWebsiteTag struct {
	ID        int64 `db:"id"         goqu:"skipinsert"`
	UserID    int64 `db:"user_id"`
	WebsiteID int64 `db:"website_id"`
	TagID     int64 `db:"tag_id"`

	Created  int64 `db:"created"`
	Modified int64 `db:"modified"`
}

func (p *PgWebsiteTag) ToDomain() *domain.WebsiteTag {
	return &domain.WebsiteTag{
		Meta:      domain.Meta{ID: p.ID, Created: p.Created, Modified: p.Modified},
		UserID:    p.UserID,
		WebsiteID: p.WebsiteID,
		TagID:     p.TagID,
	}
}

func (p *PgWebsiteTag) FromDomain(wt domain.WebsiteTag) {
	*p = PgWebsiteTag{
		ID:        wt.ID,
		UserID:    wt.UserID,
		WebsiteID: wt.WebsiteID,
		TagID:     wt.TagID,
		Created:   wt.Created,
		Modified:  wt.Modified,
	}
}

// PgReport carries the columns shared by the three report tables. The subject
// column differs per table and lives on the embedding struct.
type PgReport struct {
	ID     int64 `db:"id"      goqu:"skipinsert"`
	UserID int64 `db:"user_id"`

	Reason string `db:"reason"`
	State  string `db:"state"`

	Created  int64 `db:"created"`
	Modified int64 `db:"modified"`
}

func (p *PgReport) toDomain() (domain.Meta, domain.Report) {
	return domain.Meta{ID: p.ID, Created: p.Created, Modified: p.Modified},
		domain.Report{
			UserID: p.UserID,
			Reason: domain.Reason(p.Reason),
			State:  domain.State(p.State),
		}
}

func (p *PgReport) fromDomain(meta domain.Meta, r domain.Report) {
	*p = PgReport{
		ID:       meta.ID,
		UserID:   r.UserID,
		Reason:   string(r.Reason),
		State:    string(r.State),
		Created:  meta.Created,
		Modified: meta.Modified,
	}
}

type PgWebsiteReport struct {
	PgReport
	WebsiteID int64 `db:"website_id"`
}

func (p *PgWebsiteReport) ToDomain() *domain.WebsiteReport {
	meta, report := p.toDomain()

	return &domain.WebsiteReport{Meta: meta, Report: report, WebsiteID: p.WebsiteID}
}

func (p *PgWebsiteReport) FromDomain(r domain.WebsiteReport) {
	p.fromDomain(r.Meta, r.Report)
	p.WebsiteID = r.WebsiteID
}

type PgWebpageReport struct {
	PgReport
	WebpageID int64 `db:"webpage_id"`
}

func (p *PgWebpageReport) ToDomain() *domain.WebpageReport {
	meta, report := p.toDomain()

	return &domain.WebpageReport{Meta: meta, Report: report, WebpageID: p.WebpageID}
}

func (p *PgWebpageReport) FromDomain(r domain.WebpageReport) {
	p.fromDomain(r.Meta, r.Report)
	p.WebpageID = r.WebpageID
}

type PgUserReport struct {
	PgReport
	TargetUserID int64 `db:"target_user_id"`
}

func (p *PgUserReport) ToDomain() *domain.UserReport {
	meta, report := p.toDomain()

	return &domain.UserReport{Meta: meta, Report: report, TargetUserID: p.TargetUserID}
}

func (p *PgUserReport) FromDomain(r domain.UserReport) {
	p.fromDomain(r.Meta, r.Report)
	p.TargetUserID = r.TargetUserID
}

type PgReportMessage struct {
	ID         int64  `db:"id"          goqu:"skipinsert"`
	ReportKind string `db:"report_kind"`
	ReportID   int64  `db:"report_id"`
	UserID     int64  `db:"user_id"`

	Message string `db:"message"`

	Created  int64 `db:"created"`
	Modified int64 `db:"modified"`
}

func (p *PgReportMessage) ToDomain() *domain.ReportMessage {
	return &domain.ReportMessage{
		Meta:       domain.Meta{ID: p.ID, Created: p.Created, Modified: p.Modified},
		ReportKind: domain.ReportKind(p.ReportKind),
		ReportID:   p.ReportID,
		UserID:     p.UserID,
		Message:    p.Message,
	}
}

func (p *PgReportMessage) FromDomain(m domain.ReportMessage) {
	*p = PgReportMessage{
		ID:         m.ID,
		ReportKind: string(m.ReportKind),
		ReportID:   m.ReportID,
		UserID:     m.UserID,
		Message:    m.Message,
		Created:    m.Created,
		Modified:   m.Modified,
	}
}

type PgUser struct {
	ID int64 `db:"id" goqu:"skipinsert"`

	Email    string `db:"email"`
	Username string `db:"username"`
	// Roles is a JSON-encoded role list; kept as text so the database/sql
	// driver round-trips it without type gymnastics.
	Roles   string `db:"roles"`
	Deleted bool   `db:"deleted"`

	Created  int64 `db:"created"`
	Modified int64 `db:"modified"`
}

func (p *PgUser) ToDomain() (*domain.User, error) {
	var roles []domain.Role
	if err := json.Unmarshal([]byte(p.Roles), &roles); err != nil {
		return nil, fmt.Errorf("could not unmarshal user roles: %w", err)
	}

	return &domain.User{
		Meta:     domain.Meta{ID: p.ID, Created: p.Created, Modified: p.Modified},
		Email:    p.Email,
		Username: p.Username,
		Roles:    roles,
		Deleted:  p.Deleted,
	}, nil
}

func (p *PgUser) FromDomain(u domain.User) error {
	roles, err := json.Marshal(u.Roles)
	if err != nil {
		return fmt.Errorf("could not marshal user roles: %w", err)
	}

	*p = PgUser{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Roles:    string(roles),
		Deleted:  u.Deleted,
		Created:  u.Created,
		Modified: u.Modified,
	}

	return nil
}
