package service

import (
	"context"
	"errors"
	"fmt"

	"moderation/pkg/domain"
	"moderation/pkg/policy"
	"moderation/pkg/serrors"
	"moderation/pkg/storage"
)

// validReason rejects unknown report reasons before they reach storage.
func validReason(r domain.Reason) error {
	if !r.Valid() {
		return serrors.With(serrors.ErrIllegalArgument, "unknown report reason %q", r)
	}

	return nil
}

// reportComparator orders reports by the shared report fields.
func reportComparator[T policy.Pageable](sortField string,
	report func(T) domain.Report,
	created func(T) int64) policy.Comparator[T] {
	switch sortField {
	case policy.FieldReason:
		return policy.CompareString(func(r T) string { return string(report(r).Reason) })
	case policy.FieldState:
		return policy.CompareString(func(r T) string { return string(report(r).State) })
	case policy.FieldUserID:
		return policy.CompareInt64(func(r T) int64 { return report(r).UserID })
	case "created":
		return policy.CompareInt64(created)
	case "modified":
		return policy.CompareInt64(func(r T) int64 { return r.ModifiedAt() })
	default:
		return policy.CompareInt64(func(r T) int64 { return r.EntityID() })
	}
}

// --- website reports ---

// websiteReports is the concrete implementation of the WebsiteReports
// interface.
type websiteReports struct {
	core
}

// NewWebsiteReports creates a new WebsiteReports service backed by the
// provided storage.
func NewWebsiteReports(st storage.Storage, options Options) WebsiteReports {
	return &websiteReports{core: newCore(st, options)}
}

// Add files a new report against a website. The report opens in state OPEN and
// is owned by the filing user.
func (s *websiteReports) Add(ctx context.Context,
	p *domain.Principal,
	candidate domain.WebsiteReport) (*domain.WebsiteReport, error) {
	if err := s.gate.CanCreate(p, domain.KindWebsiteReport); err != nil {
		return nil, err
	}
	if err := validReason(candidate.Reason); err != nil {
		return nil, err
	}

	var stored *domain.WebsiteReport
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		site, err := tx.WebsiteByID(ctx, candidate.WebsiteID)
		if err != nil {
			return fmt.Errorf("could not get website: %w", err)
		}
		if site == nil || site.Deleted {
			return serrors.With(serrors.ErrNotFound, "website not found")
		}

		stored, err = tx.StoreWebsiteReport(ctx, domain.WebsiteReport{
			Report:    domain.Report{UserID: p.UserID, Reason: candidate.Reason, State: domain.StateOpen},
			WebsiteID: candidate.WebsiteID,
		})
		if err != nil {
			return fmt.Errorf("could not store website report: %w", err)
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return stored, nil
}

// Update applies a full-replacement update to a website report.
func (s *websiteReports) Update(ctx context.Context,
	p *domain.Principal,
	candidate domain.WebsiteReport) (*domain.WebsiteReport, error) {
	persisted, err := s.storage.WebsiteReportByID(ctx, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get website report: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "website report not found")
	}
	if err := validReason(candidate.Reason); err != nil {
		return nil, err
	}
	if err := s.gate.CanUpdateWebsiteReport(p, *persisted, candidate); err != nil {
		return nil, err
	}

	updated, err := s.storage.UpdateWebsiteReport(ctx, candidate, candidate.Modified)
	if err != nil {
		if errors.Is(err, storage.ErrStaleEntity) {
			return nil, serrors.Wrap(serrors.ErrConflict, err, "website report was modified concurrently")
		}

		return nil, fmt.Errorf("could not update website report: %w", err)
	}
	if updated == nil {
		return nil, serrors.With(serrors.ErrNotFound, "website report not found")
	}

	return updated, nil
}

// Get fetches a single website report. Reports are visible to any
// authenticated role.
func (s *websiteReports) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.WebsiteReport, error) {
	if err := s.gate.CanRead(p, domain.KindWebsiteReport, 0); err != nil {
		return nil, err
	}

	persisted, err := s.storage.WebsiteReportByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get website report: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "website report not found")
	}

	return persisted, nil
}

// GetAll returns one page of website reports changed since
// params.ModifiedAfter.
func (s *websiteReports) GetAll(ctx context.Context,
	p *domain.Principal,
	params policy.QueryParameters) (policy.Envelope[domain.WebsiteReport], error) {
	var none policy.Envelope[domain.WebsiteReport]
	if err := s.gate.CanRead(p, domain.KindWebsiteReport, 0); err != nil {
		return none, err
	}

	rows, err := s.storage.WebsiteReportsModifiedAfter(ctx, params.ModifiedAfter)
	if err != nil {
		return none, fmt.Errorf("could not list website reports: %w", err)
	}

	cmp := reportComparator(params.Sort,
		func(r domain.WebsiteReport) domain.Report { return r.Report },
		func(r domain.WebsiteReport) int64 { return r.Created })

	return policy.Paginate(rows, params, cmp), nil
}

// Delete removes a website report together with its conversation.
func (s *websiteReports) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	if err := s.gate.CanDelete(p, domain.KindWebsiteReport, 0); err != nil {
		return err
	}

	deleted, err := s.storage.DeleteWebsiteReport(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete website report: %w", err)
	}
	if !deleted {
		return serrors.With(serrors.ErrNotFound, "website report not found")
	}

	return nil
}

// --- webpage reports ---

// webpageReports is the concrete implementation of the WebpageReports
// interface.
type webpageReports struct {
	core
}

// NewWebpageReports creates a new WebpageReports service backed by the
// provided storage.
func NewWebpageReports(st storage.Storage, options Options) WebpageReports {
	return &webpageReports{core: newCore(st, options)}
}

// Add files a new report against a webpage.
func (s *webpageReports) Add(ctx context.Context,
	p *domain.Principal,
	candidate domain.WebpageReport) (*domain.WebpageReport, error) {
	if err := s.gate.CanCreate(p, domain.KindWebpageReport); err != nil {
		return nil, err
	}
	if err := validReason(candidate.Reason); err != nil {
		return nil, err
	}

	var stored *domain.WebpageReport
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		page, err := tx.WebpageByID(ctx, candidate.WebpageID)
		if err != nil {
			return fmt.Errorf("could not get webpage: %w", err)
		}
		if page == nil || page.Deleted {
			return serrors.With(serrors.ErrNotFound, "webpage not found")
		}

		stored, err = tx.StoreWebpageReport(ctx, domain.WebpageReport{
			Report:    domain.Report{UserID: p.UserID, Reason: candidate.Reason, State: domain.StateOpen},
			WebpageID: candidate.WebpageID,
		})
		if err != nil {
			return fmt.Errorf("could not store webpage report: %w", err)
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return stored, nil
}

// Update applies a full-replacement update to a webpage report.
func (s *webpageReports) Update(ctx context.Context,
	p *domain.Principal,
	candidate domain.WebpageReport) (*domain.WebpageReport, error) {
	persisted, err := s.storage.WebpageReportByID(ctx, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get webpage report: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "webpage report not found")
	}
	if err := validReason(candidate.Reason); err != nil {
		return nil, err
	}
	if err := s.gate.CanUpdateWebpageReport(p, *persisted, candidate); err != nil {
		return nil, err
	}

	updated, err := s.storage.UpdateWebpageReport(ctx, candidate, candidate.Modified)
	if err != nil {
		if errors.Is(err, storage.ErrStaleEntity) {
			return nil, serrors.Wrap(serrors.ErrConflict, err, "webpage report was modified concurrently")
		}

		return nil, fmt.Errorf("could not update webpage report: %w", err)
	}
	if updated == nil {
		return nil, serrors.With(serrors.ErrNotFound, "webpage report not found")
	}

	return updated, nil
}

// Get fetches a single webpage report.
func (s *webpageReports) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.WebpageReport, error) {
	if err := s.gate.CanRead(p, domain.KindWebpageReport, 0); err != nil {
		return nil, err
	}

	persisted, err := s.storage.WebpageReportByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get webpage report: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "webpage report not found")
	}

	return persisted, nil
}

// GetAll returns one page of webpage reports changed since
// params.ModifiedAfter.
func (s *webpageReports) GetAll(ctx context.Context,
	p *domain.Principal,
	params policy.QueryParameters) (policy.Envelope[domain.WebpageReport], error) {
	var none policy.Envelope[domain.WebpageReport]
	if err := s.gate.CanRead(p, domain.KindWebpageReport, 0); err != nil {
		return none, err
	}

	rows, err := s.storage.WebpageReportsModifiedAfter(ctx, params.ModifiedAfter)
	if err != nil {
		return none, fmt.Errorf("could not list webpage reports: %w", err)
	}

	cmp := reportComparator(params.Sort,
		func(r domain.WebpageReport) domain.Report { return r.Report },
		func(r domain.WebpageReport) int64 { return r.Created })

	return policy.Paginate(rows, params, cmp), nil
}

// Delete removes a webpage report together with its conversation.
func (s *webpageReports) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	if err := s.gate.CanDelete(p, domain.KindWebpageReport, 0); err != nil {
		return err
	}

	deleted, err := s.storage.DeleteWebpageReport(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete webpage report: %w", err)
	}
	if !deleted {
		return serrors.With(serrors.ErrNotFound, "webpage report not found")
	}

	return nil
}

// --- user reports ---

// userReports is the concrete implementation of the UserReports interface.
type userReports struct {
	core
}

// NewUserReports creates a new UserReports service backed by the provided
// storage.
func NewUserReports(st storage.Storage, options Options) UserReports {
	return &userReports{core: newCore(st, options)}
}

// Add files a new report against a user.
func (s *userReports) Add(ctx context.Context,
	p *domain.Principal,
	candidate domain.UserReport) (*domain.UserReport, error) {
	if err := s.gate.CanCreate(p, domain.KindUserReport); err != nil {
		return nil, err
	}
	if err := validReason(candidate.Reason); err != nil {
		return nil, err
	}

	var stored *domain.UserReport
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		target, err := tx.UserByID(ctx, candidate.TargetUserID)
		if err != nil {
			return fmt.Errorf("could not get user: %w", err)
		}
		if target == nil || target.Deleted {
			return serrors.With(serrors.ErrNotFound, "user not found")
		}

		stored, err = tx.StoreUserReport(ctx, domain.UserReport{
			Report:       domain.Report{UserID: p.UserID, Reason: candidate.Reason, State: domain.StateOpen},
			TargetUserID: candidate.TargetUserID,
		})
		if err != nil {
			return fmt.Errorf("could not store user report: %w", err)
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return stored, nil
}

// Update applies a full-replacement update to a user report.
func (s *userReports) Update(ctx context.Context,
	p *domain.Principal,
	candidate domain.UserReport) (*domain.UserReport, error) {
	persisted, err := s.storage.UserReportByID(ctx, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get user report: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "user report not found")
	}
	if err := validReason(candidate.Reason); err != nil {
		return nil, err
	}
	if err := s.gate.CanUpdateUserReport(p, *persisted, candidate); err != nil {
		return nil, err
	}

	updated, err := s.storage.UpdateUserReport(ctx, candidate, candidate.Modified)
	if err != nil {
		if errors.Is(err, storage.ErrStaleEntity) {
			return nil, serrors.Wrap(serrors.ErrConflict, err, "user report was modified concurrently")
		}

		return nil, fmt.Errorf("could not update user report: %w", err)
	}
	if updated == nil {
		return nil, serrors.With(serrors.ErrNotFound, "user report not found")
	}

	return updated, nil
}

// Get fetches a single user report.
func (s *userReports) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.UserReport, error) {
	if err := s.gate.CanRead(p, domain.KindUserReport, 0); err != nil {
		return nil, err
	}

	persisted, err := s.storage.UserReportByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get user report: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "user report not found")
	}

	return persisted, nil
}

// GetAll returns one page of user reports changed since params.ModifiedAfter.
func (s *userReports) GetAll(ctx context.Context,
	p *domain.Principal,
	params policy.QueryParameters) (policy.Envelope[domain.UserReport], error) {
	var none policy.Envelope[domain.UserReport]
	if err := s.gate.CanRead(p, domain.KindUserReport, 0); err != nil {
		return none, err
	}

	rows, err := s.storage.UserReportsModifiedAfter(ctx, params.ModifiedAfter)
	if err != nil {
		return none, fmt.Errorf("could not list user reports: %w", err)
	}

	cmp := reportComparator(params.Sort,
		func(r domain.UserReport) domain.Report { return r.Report },
		func(r domain.UserReport) int64 { return r.Created })

	return policy.Paginate(rows, params, cmp), nil
}

// Delete removes a user report together with its conversation.
func (s *userReports) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	if err := s.gate.CanDelete(p, domain.KindUserReport, 0); err != nil {
		return err
	}

	deleted, err := s.storage.DeleteUserReport(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete user report: %w", err)
	}
	if !deleted {
		return serrors.With(serrors.ErrNotFound, "user report not found")
	}

	return nil
}
