package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"soulmint/internal/platform/config"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
