package logger

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestGetLogLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
		"trace":   zerolog.TraceLevel,
		"panic":   zerolog.PanicLevel,
		"fatal":   zerolog.FatalLevel,
		"Warning": zerolog.InfoLevel,
	}
	for in, want := range tests {
		require.Equal(t, want, getLogLevel(in), in)
	}
}

func TestValidLevel(t *testing.T) {
	require.True(t, ValidLevel("debug"))
	require.True(t, ValidLevel("Error"))
	require.False(t, ValidLevel(""))
	require.False(t, ValidLevel("loud"))
}

func TestContextRoundTrip(t *testing.T) {
	l := zerolog.Nop()
	ctx := ToContext(context.Background(), &l)
	require.Same(t, &l, FromContext(ctx))
}

func TestFromContext_Fallback(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
}

func TestInitLogger(t *testing.T) {
	ctx, log := InitLogger(context.Background(), "info", true, []string{"something was defaulted"})
	require.NotNil(t, log)
	require.Same(t, log, FromContext(ctx))
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
