package service_test

import (
	"context"
	"testing"

	"moderation/internal/service"
	"moderation/pkg/domain"

	"github.com/stretchr/testify/require"
)

func TestStatistics_PublicSnapshot(t *testing.T) {
	mem := newStorage(t)
	s := service.NewStatistics(mem, testOptions())
	reports := service.NewWebsiteReports(mem, testOptions())
	ctx := context.Background()

	site := seedWebsite(t, mem, 10, "a.example")
	_, err := reports.Add(ctx, contributor(11), domain.WebsiteReport{
		Report:    domain.Report{Reason: domain.ReasonLowContrast},
		WebsiteID: site.ID,
	})
	require.NoError(t, err)

	snapshot, err := s.Get(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), snapshot.WebsiteCount)
	require.Equal(t, int64(1), snapshot.ReportCount)
	require.Equal(t, int64(1), snapshot.OpenReportCount)
	require.NotZero(t, snapshot.Modified)
}
