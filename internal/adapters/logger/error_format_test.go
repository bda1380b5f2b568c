package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/gild/internal/adapters/logger"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestCollectAndFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "plain error",
			err:  errors.New("simple"),
			want: "Error: simple",
		},
		{
			name: "three level chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("no such file"), "failed to read stylesheet"),
				"styles:prod failed",
			),
			want: "Error: styles:prod failed\n\n" +
				"  Caused by:\n" +
				"    → failed to read stylesheet\n" +
				"    → no such file",
		},
		{
			name: "metadata on each level",
			err: func() error {
				inner := zerr.With(zerr.New("entry discovery failed"), "dir", "src/js")
				outer := zerr.Wrap(inner, "failed to build scripts task")
				return zerr.With(outer, "task", "scripts")
			}(),
			want: "Error: failed to build scripts task\n" +
				"       task: scripts\n\n" +
				"  Caused by:\n" +
				"    → entry discovery failed\n" +
				"      dir: src/js",
		},
		{
			name: "marked sentinel",
			err:  domain.Mark(domain.ErrTaskNotFound, "task", "lint"),
			want: "Error: task not found\n" +
				"       task: lint",
		},
		{
			name: "wrapped cause with metadata",
			err: zerr.With(
				domain.Wrap(errors.New("permission denied"), domain.ErrStyleWriteFailed),
				"path", "dist/css/main.css",
			),
			want: "Error: failed to write style output\n" +
				"       path: dist/css/main.css\n\n" +
				"  Caused by:\n" +
				"    → permission denied",
		},
		{
			name: "multiline message",
			err:  errors.New("line1\nline2"),
			want: "Error: line1\n       line2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logger.FormatErrorEntries(logger.CollectErrorEntries(tt.err))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatErrorEntries_Empty(t *testing.T) {
	assert.Empty(t, logger.FormatErrorEntries(nil))
}
