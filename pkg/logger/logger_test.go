package logger_test

import (
	"context"
	"testing"

	"moderation/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSetup(t *testing.T) {
	for _, environment := range []string{logger.DevelopmentEnvironment, logger.ProductionEnvironment} {
		t.Run(environment, func(t *testing.T) {
			require.NotPanics(t, func() {
				logger.Setup(environment)
			})
			require.NotNil(t, logger.Get(context.Background()))
		})
	}
}

func TestContextLogger(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment)

	ctx := context.Background()
	require.NotNil(t, logger.Get(ctx), "empty context falls back to the default logger")

	custom, err := zap.NewDevelopment()
	require.NoError(t, err)
	withLogger := logger.WithLogger(ctx, custom)
	require.Same(t, custom, logger.Get(withLogger))

	withFields := logger.WithFields(withLogger, zap.String("requestId", "abc"))
	require.NotSame(t, custom, logger.Get(withFields))
}
