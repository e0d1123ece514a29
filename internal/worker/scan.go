package worker

import (
	"context"
	"fmt"

	"moderation/internal/service"
	"moderation/pkg/audit"
	"moderation/pkg/domain"
	"moderation/pkg/logger"
	"moderation/pkg/serrors"
	"moderation/pkg/storage"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// ScanWorker is a River worker that resolves pending accessibility scans. It
// probes the job's target through an audit.Auditor and writes the verdict back
// as READY or BLOCKED.
//
// The verdict is dropped, not an error, when the subject has been deleted or
// a moderator already moved it out of a pending state while the job waited in
// the queue: the scan pipeline only ever resolves PENDING_INITIAL and
// PENDING_RESCAN.
type ScanWorker struct {
	river.WorkerDefaults[service.ScanArgs]

	// storage persists the scan verdict.
	storage storage.Storage
	// auditor probes the target and renders the accessibility verdict.
	auditor audit.Auditor
}

// NewScanWorker constructs a ScanWorker probing with the given auditor and
// persisting verdicts through the given storage.
func NewScanWorker(st storage.Storage, auditor audit.Auditor) *ScanWorker {
	return &ScanWorker{storage: st, auditor: auditor}
}

// Work executes a single scan job: probe the target, then apply the verdict
// to the subject if it is still awaiting one. Probe errors are returned so
// River retries the job; a negative probe outcome is a valid BLOCKED verdict.
func (w *ScanWorker) Work(ctx context.Context, job *river.Job[service.ScanArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.String("resource", string(job.Args.Resource)),
		zap.Int64("resourceID", job.Args.ResourceID),
		zap.String("target", job.Args.Target))

	res, err := w.auditor.Audit(ctx, job.Args.Target)
	if err != nil {
		logger.Error(ctx, "error probing target", zap.Error(err))

		return fmt.Errorf("could not probe target: %w", err)
	}

	status := domain.StatusBlocked
	if res.Accessible {
		status = domain.StatusReady
	}
	ctx = logger.WithFields(ctx,
		zap.String("verdict", string(status)),
		zap.Int("statusCode", res.StatusCode),
		zap.String("reason", res.Reason))

	switch job.Args.Resource {
	case domain.KindWebsite:
		return w.resolveWebsite(ctx, job.Args.ResourceID, status)
	case domain.KindWebpage:
		return w.resolveWebpage(ctx, job.Args.ResourceID, status)
	default:
		// A malformed payload will never succeed, retrying is pointless.
		return river.JobCancel( //nolint: wrapcheck
			serrors.With(serrors.ErrIllegalArgument, "unknown scan resource %q", job.Args.Resource))
	}
}

func (w *ScanWorker) resolveWebsite(ctx context.Context, id int64, status domain.Status) error {
	site, err := w.storage.WebsiteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not fetch website: %w", err)
	}
	if site == nil || site.Deleted {
		logger.Info(ctx, "website gone, dropping scan verdict")

		return nil
	}
	if !site.Status.Pending() {
		logger.Info(ctx, "website already resolved, dropping scan verdict",
			zap.String("currentStatus", string(site.Status)))

		return nil
	}

	if _, err := w.storage.UpdateWebsiteStatus(ctx, id, status); err != nil {
		return fmt.Errorf("could not update website status: %w", err)
	}
	logger.Info(ctx, "scan verdict applied to website")

	return nil
}

func (w *ScanWorker) resolveWebpage(ctx context.Context, id int64, status domain.Status) error {
	page, err := w.storage.WebpageByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not fetch webpage: %w", err)
	}
	if page == nil || page.Deleted {
		logger.Info(ctx, "webpage gone, dropping scan verdict")

		return nil
	}
	if !page.Status.Pending() {
		logger.Info(ctx, "webpage already resolved, dropping scan verdict",
			zap.String("currentStatus", string(page.Status)))

		return nil
	}

	if _, err := w.storage.UpdateWebpageStatus(ctx, id, status); err != nil {
		return fmt.Errorf("could not update webpage status: %w", err)
	}
	logger.Info(ctx, "scan verdict applied to webpage")

	return nil
}
