package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"moderation/pkg/domain"
	"moderation/pkg/policy"
	"moderation/pkg/serrors"
	"moderation/pkg/storage"
)

// reportMessages is the concrete implementation of the ReportMessages
// interface.
type reportMessages struct {
	core
}

// NewReportMessages creates a new ReportMessages service backed by the
// provided storage.
func NewReportMessages(st storage.Storage, options Options) ReportMessages {
	return &reportMessages{core: newCore(st, options)}
}

// reportExists checks that the referenced report row is present, whatever its
// family.
func reportExists(ctx context.Context, tx storage.AllStorage, kind domain.ReportKind, reportID int64) (bool, error) {
	switch kind {
	case domain.ReportKindWebsite:
		r, err := tx.WebsiteReportByID(ctx, reportID)

		return r != nil, err
	case domain.ReportKindWebpage:
		r, err := tx.WebpageReportByID(ctx, reportID)

		return r != nil, err
	case domain.ReportKindUser:
		r, err := tx.UserReportByID(ctx, reportID)

		return r != nil, err
	default:
		return false, serrors.With(serrors.ErrIllegalArgument, "unknown report kind %q", kind)
	}
}

// Add appends a message to the conversation of a report. The message is owned
// by its author.
func (s *reportMessages) Add(ctx context.Context,
	p *domain.Principal,
	candidate domain.ReportMessage) (*domain.ReportMessage, error) {
	if err := s.gate.CanCreate(p, domain.KindReportMessage); err != nil {
		return nil, err
	}

	message := strings.TrimSpace(candidate.Message)
	if message == "" {
		return nil, serrors.With(serrors.ErrIllegalArgument, "message is empty")
	}

	var stored *domain.ReportMessage
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		exists, err := reportExists(ctx, tx, candidate.ReportKind, candidate.ReportID)
		if err != nil {
			return err
		}
		if !exists {
			return serrors.With(serrors.ErrNotFound, "report not found")
		}

		stored, err = tx.StoreReportMessage(ctx, domain.ReportMessage{
			ReportKind: candidate.ReportKind,
			ReportID:   candidate.ReportID,
			UserID:     p.UserID,
			Message:    message,
		})
		if err != nil {
			return fmt.Errorf("could not store report message: %w", err)
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return stored, nil
}

// Update edits a message. Only the author may do so, whatever their role.
func (s *reportMessages) Update(ctx context.Context,
	p *domain.Principal,
	candidate domain.ReportMessage) (*domain.ReportMessage, error) {
	persisted, err := s.storage.ReportMessageByID(ctx, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get report message: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "report message not found")
	}

	candidate.Message = strings.TrimSpace(candidate.Message)
	if candidate.Message == "" {
		return nil, serrors.With(serrors.ErrIllegalArgument, "message is empty")
	}

	if err := s.gate.CanUpdateReportMessage(p, *persisted, candidate); err != nil {
		return nil, err
	}

	updated, err := s.storage.UpdateReportMessage(ctx, candidate, candidate.Modified)
	if err != nil {
		if errors.Is(err, storage.ErrStaleEntity) {
			return nil, serrors.Wrap(serrors.ErrConflict, err, "report message was modified concurrently")
		}

		return nil, fmt.Errorf("could not update report message: %w", err)
	}
	if updated == nil {
		return nil, serrors.With(serrors.ErrNotFound, "report message not found")
	}

	return updated, nil
}

// Get fetches a single message. Messages are visible to any authenticated
// role.
func (s *reportMessages) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.ReportMessage, error) {
	if err := s.gate.CanRead(p, domain.KindReportMessage, 0); err != nil {
		return nil, err
	}

	persisted, err := s.storage.ReportMessageByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get report message: %w", err)
	}
	if persisted == nil {
		return nil, serrors.With(serrors.ErrNotFound, "report message not found")
	}

	return persisted, nil
}

// GetAll returns one page of messages changed since params.ModifiedAfter.
func (s *reportMessages) GetAll(ctx context.Context,
	p *domain.Principal,
	params policy.QueryParameters) (policy.Envelope[domain.ReportMessage], error) {
	var none policy.Envelope[domain.ReportMessage]
	if err := s.gate.CanRead(p, domain.KindReportMessage, 0); err != nil {
		return none, err
	}

	rows, err := s.storage.ReportMessagesModifiedAfter(ctx, params.ModifiedAfter)
	if err != nil {
		return none, fmt.Errorf("could not list report messages: %w", err)
	}

	return policy.Paginate(rows, params, reportMessageComparator(params.Sort)), nil
}

// ByReport returns the conversation of one report, oldest first.
func (s *reportMessages) ByReport(ctx context.Context,
	p *domain.Principal,
	kind domain.ReportKind,
	reportID int64) ([]domain.ReportMessage, error) {
	if err := s.gate.CanRead(p, domain.KindReportMessage, 0); err != nil {
		return nil, err
	}

	exists, err := reportExists(ctx, s.storage, kind, reportID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, serrors.With(serrors.ErrNotFound, "report not found")
	}

	rows, err := s.storage.ReportMessagesByReport(ctx, kind, reportID)
	if err != nil {
		return nil, fmt.Errorf("could not list report messages: %w", err)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Created != rows[j].Created {
			return rows[i].Created < rows[j].Created
		}

		return rows[i].ID < rows[j].ID
	})

	return rows, nil
}

// Delete removes a message. Authors may delete their own, admins any.
func (s *reportMessages) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	persisted, err := s.storage.ReportMessageByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not get report message: %w", err)
	}
	if persisted == nil {
		return serrors.With(serrors.ErrNotFound, "report message not found")
	}
	if err := s.gate.CanDelete(p, domain.KindReportMessage, persisted.UserID); err != nil {
		return err
	}

	deleted, err := s.storage.DeleteReportMessage(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete report message: %w", err)
	}
	if !deleted {
		return serrors.With(serrors.ErrNotFound, "report message not found")
	}

	return nil
}

func reportMessageComparator(sortField string) policy.Comparator[domain.ReportMessage] {
	switch sortField {
	case policy.FieldReportID:
		return policy.CompareInt64(func(m domain.ReportMessage) int64 { return m.ReportID })
	case policy.FieldUserID:
		return policy.CompareInt64(func(m domain.ReportMessage) int64 { return m.UserID })
	case "created":
		return policy.CompareInt64(func(m domain.ReportMessage) int64 { return m.Created })
	case "modified":
		return policy.CompareInt64(func(m domain.ReportMessage) int64 { return m.Modified })
	default:
		return policy.CompareInt64(func(m domain.ReportMessage) int64 { return m.ID })
	}
}
