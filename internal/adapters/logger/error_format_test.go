package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rebuild/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "single standard error",
			err:          errors.New("simple error"),
			wantMessages: []string{"simple error"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name:         "zerr wrapped chain",
			err:          zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle layer"), "outer layer"),
			wantMessages: []string{"outer layer", "middle layer", "root cause"},
			wantMetadata: []map[string]any{{}, {}, nil},
		},
		{
			name:         "zerr with metadata",
			err:          zerr.With(zerr.With(zerr.New("base error"), "key1", "value1"), "key2", 42),
			wantMessages: []string{"base error"},
			wantMetadata: []map[string]any{{"key1": "value1", "key2": 42}},
		},
		{
			name:         "metadata on standard error",
			err:          zerr.With(errors.New("plain"), "unit", "a.go"),
			wantMessages: []string{"plain"},
			wantMetadata: []map[string]any{{"unit": "a.go"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntries(tt.err)

			messages := make([]string, len(entries))
			metadata := make([]map[string]any, len(entries))
			for i, e := range entries {
				messages[i] = e.Message()
				metadata[i] = e.Metadata()
			}
			assert.Equal(t, tt.wantMessages, messages)
			assert.Equal(t, tt.wantMetadata, metadata)
		})
	}
}

func TestFormatErrorEntries_Multiline(t *testing.T) {
	entries := logger.CollectErrorEntries(zerr.Wrap(errors.New("line one\nline two"), "failed"))

	got := logger.FormatErrorEntries(entries)

	assert.Equal(t, "Error: failed\n\n  Caused by:\n    → line one\n      line two", got)
}
