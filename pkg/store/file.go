package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helmcode/actionplan/pkg/metrics"
	"github.com/helmcode/actionplan/pkg/model"
)

const fileExt = ".json"

// FileStore keeps one indented JSON file per session under a directory.
// It does no locking; concurrent writes to the same id are last-writer-wins.
type FileStore struct {
	dir     string
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFileLogger sets the logger used for skipped files and failures.
func WithFileLogger(logger *zap.Logger) FileOption {
	return func(s *FileStore) {
		s.logger = logger.Named("store")
	}
}

// WithFileMetrics counts operations on m.
func WithFileMetrics(m *metrics.Metrics) FileOption {
	return func(s *FileStore) {
		s.metrics = m
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) FileOption {
	return func(s *FileStore) {
		s.now = now
	}
}

// NewFileStore returns a store rooted at dir. The directory is created on the
// first write.
func NewFileStore(dir string, opts ...FileOption) *FileStore {
	s := &FileStore{dir: dir, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

// Create implements SessionStore.
func (s *FileStore) Create(ctx context.Context, sess model.Session) (id string, err error) {
	defer func() { s.metrics.SessionOp(OpSave, err) }()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	} else if !ValidID(sess.ID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, sess.ID)
	}

	now := s.now().UTC()
	prev, loadErr := s.read(sess.ID)
	switch {
	case loadErr == nil:
		if t, ok := parseTime(prev.UpdatedAt); ok && t.After(now) {
			now = t
		}
	case errors.Is(loadErr, fs.ErrNotExist):
	default:
		// An unreadable previous version is overwritten.
		s.logger.Warn("Previous session file unreadable", zap.String("id", sess.ID), zap.Error(loadErr))
	}

	if sess.CreatedAt == "" {
		sess.CreatedAt = FormatTime(now)
	}
	sess.UpdatedAt = FormatTime(now)
	sess.Title = DeriveTitle(sess.Title, sess.Problem)

	if err := writeJSONFile(s.path(sess.ID), sess); err != nil {
		s.logger.Error("Failed to write session", zap.String("id", sess.ID), zap.Error(err))
		return "", &PersistenceError{Op: OpSave, ID: sess.ID, Err: err}
	}

	s.logger.Debug("Session saved", zap.String("id", sess.ID))
	return sess.ID, nil
}

// List implements SessionStore. Files that cannot be parsed are skipped.
func (s *FileStore) List(ctx context.Context) (summaries []model.SessionSummary, err error) {
	defer func() { s.metrics.SessionOp(OpList, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.SessionSummary{}, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: OpList, Err: err}
	}

	summaries = make([]model.SessionSummary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		sess, err := loadJSONFile[model.Session](filepath.Join(s.dir, e.Name()))
		if err != nil {
			s.logger.Warn("Skipping unreadable session file", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		if sess.ID == "" {
			sess.ID = strings.TrimSuffix(e.Name(), fileExt)
		}
		summaries = append(summaries, sess.Summary())
	}

	SortByUpdated(summaries)
	return summaries, nil
}

// Get implements SessionStore.
func (s *FileStore) Get(ctx context.Context, id string) (sess model.Session, err error) {
	defer func() { s.metrics.SessionOp(OpLoad, err) }()

	if err := ctx.Err(); err != nil {
		return model.Session{}, err
	}
	if !ValidID(id) {
		return model.Session{}, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}

	sess, err = s.read(id)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Session{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Session{}, &PersistenceError{Op: OpLoad, ID: id, Err: err}
	}
	return sess, nil
}

// Delete implements SessionStore.
func (s *FileStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.SessionOp(OpDelete, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidID(id) {
		return fmt.Errorf("session %q: %w", id, ErrNotFound)
	}

	err = os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return &PersistenceError{Op: OpDelete, ID: id, Err: err}
	}
	s.logger.Debug("Session deleted", zap.String("id", id))
	return nil
}

func (s *FileStore) read(id string) (model.Session, error) {
	return loadJSONFile[model.Session](s.path(id))
}

// SortByUpdated orders summaries newest updatedAt first.
func SortByUpdated(summaries []model.SessionSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		ti, okI := parseTime(summaries[i].UpdatedAt)
		tj, okJ := parseTime(summaries[j].UpdatedAt)
		if okI && okJ {
			return ti.After(tj)
		}
		return summaries[i].UpdatedAt > summaries[j].UpdatedAt
	})
}

func loadJSONFile[T any](path string) (T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, err
	}
	return v, nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
