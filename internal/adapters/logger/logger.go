// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/gild/internal/core/ports"
	"go.trai.ch/gild/internal/ui/style"
)

// messager is implemented by zerr errors: the message of one link without its causes.
type messager interface {
	Message() string
}

// metadataer is implemented by zerr errors carrying key/value context.
type metadataer interface {
	Metadata() map[string]any
}

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing pretty output to stderr.
func New() *Logger {
	l := &Logger{output: os.Stderr}
	l.rebuild()
	return l
}

// SetOutput updates the logger's output destination. A nil writer means stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging, keeping the output destination.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// rebuild swaps the slog handler. Callers hold the write lock or own l exclusively.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		l.logger = slog.New(slog.NewJSONHandler(l.output, opts))
		return
	}
	l.logger = slog.New(NewPrettyHandler(l.output, opts))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error together with its zerr cause chain and metadata.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		args := []any{"error", err.Error()}
		for _, e := range collectErrorEntries(err) {
			for _, k := range slices.Sorted(maps.Keys(e.meta)) {
				args = append(args, k, e.meta[k])
			}
		}
		l.logger.Error("operation failed", args...)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

type errorEntry struct {
	message string
	meta    map[string]any
}

// collectErrorEntries walks the chain. Links with a message of their own
// contribute it with their metadata; links without one hand their metadata to
// the next link. The first plain error contributes its full text and ends the walk.
func collectErrorEntries(err error) []errorEntry {
	var (
		entries []errorEntry
		pending map[string]any
	)
	seen := make(map[string]bool)

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, errorEntry{message: current.Error(), meta: pending})
			break
		}

		entry := errorEntry{message: m.Message(), meta: pending}
		pending = nil
		if md, ok := current.(metadataer); ok {
			for k, v := range md.Metadata() {
				if seen[k] {
					continue
				}
				if entry.meta == nil {
					entry.meta = make(map[string]any)
				}
				entry.meta[k] = v
				seen[k] = true
			}
		}

		if entry.message == "" {
			pending = entry.meta
			current = errors.Unwrap(current)
			continue
		}

		// zerr.With keeps the message of the error it annotates; fold duplicates.
		if n := len(entries); n > 0 && entries[n-1].message == entry.message {
			if entries[n-1].meta == nil {
				entries[n-1].meta = entry.meta
			} else {
				maps.Copy(entries[n-1].meta, entry.meta)
			}
		} else {
			entries = append(entries, entry)
		}
		current = errors.Unwrap(current)
	}

	return entries
}

func formatErrorEntries(entries []errorEntry) string {
	var lines []string

	for i, e := range entries {
		msgLines := strings.Split(e.message, "\n")
		var head, indent string
		if i == 0 {
			head, indent = "Error: ", "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			head, indent = "    "+style.Arrow+" ", "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, k := range slices.Sorted(maps.Keys(e.meta)) {
			lines = append(lines, indent+fmt.Sprintf("%s: %v", k, e.meta[k]))
		}
	}

	return strings.Join(lines, "\n")
}
