// Package store persists wizard sessions, either as JSON files on local disk
// or through the session API of a running relay server.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/helmcode/actionplan/pkg/config"
	"github.com/helmcode/actionplan/pkg/metrics"
	"github.com/helmcode/actionplan/pkg/model"
)

// TitleLength is the number of characters of the problem used as a default title.
const TitleLength = 50

// UntitledSession is the title used when neither a title nor a problem is set.
const UntitledSession = "Untitled Session"

// SessionStore is the CRUD surface shared by the file store and the HTTP client.
type SessionStore interface {
	// Create upserts s and returns its id.
	Create(ctx context.Context, s model.Session) (string, error)
	// List returns every session summary, newest updatedAt first.
	List(ctx context.Context) ([]model.SessionSummary, error)
	// Get returns the full session or an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (model.Session, error)
	// Delete removes the session or returns an error wrapping ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// DeriveTitle returns title if set, else the first TitleLength characters of
// problem, else UntitledSession.
func DeriveTitle(title, problem string) string {
	if title != "" {
		return title
	}
	if problem == "" {
		return UntitledSession
	}
	if utf8.RuneCountInString(problem) <= TitleLength {
		return problem
	}
	return string([]rune(problem)[:TitleLength])
}

// ValidID reports whether id can be used as a file name inside the store.
func ValidID(id string) bool {
	if id == "" || id == "." || strings.Contains(id, "..") {
		return false
	}
	if strings.ContainsAny(id, `/\`) || filepath.Base(id) != id {
		return false
	}
	return true
}

// FormatTime renders t the way session timestamps are stored.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NewFromConfig returns the store selected by cfg.Store.Mode.
func NewFromConfig(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (SessionStore, error) {
	switch cfg.Store.Mode {
	case config.StoreModeFile, "":
		return NewFileStore(cfg.Store.Dir, WithFileLogger(logger), WithFileMetrics(m)), nil
	case config.StoreModeHTTP:
		return NewHTTPClient(cfg.Store.URL, cfg.Store.Timeout, WithClientLogger(logger), WithClientMetrics(m)), nil
	default:
		return nil, fmt.Errorf("unsupported store.mode: %s", cfg.Store.Mode)
	}
}
