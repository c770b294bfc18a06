package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "json debug", config: Config{Level: "debug", Format: "json"}},
		{name: "text info", config: Config{Level: "info", Format: "text"}},
		{name: "defaults", config: Config{}},
		{name: "warning alias", config: Config{Level: "warning", Format: "console"}},
		{name: "invalid level", config: Config{Level: "loud"}, wantErr: true},
		{name: "invalid format", config: Config{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
			_ = l.Sync()
		})
	}
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
	assert.Equal(t, "", RequestID(nil)) //nolint:staticcheck

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestWithContext(t *testing.T) {
	l := NewNop()
	assert.Same(t, Logger(l), l.WithContext(context.Background()))

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-2")
	assert.NotSame(t, Logger(l), l.WithContext(ctx))
}
