package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/go-playground/validator/v10"
)

// Options configures a Store. Zero values select the JSON codec, a fresh
// validator, slog.Default, time.Now and write-through persistence.
type Options struct {
	Codec    Codec
	Validate *validator.Validate
	Logger   *slog.Logger
	Now      func() time.Time
	// BatchWrites defers persistence to Flush, RunFlusher and Close
	// instead of writing every mutation through.
	BatchWrites bool
}

// Store holds the Users, Posts, Messages and Notifications tables in memory,
// indexed by id, and persists whole-table snapshots through a Backend.
//
// Every snapshot carries a revision. A write whose base revision no longer
// matches the backend fails with ErrConflict instead of overwriting the
// other writer's data.
type Store struct {
	mu       sync.RWMutex
	backend  Backend
	codec    Codec
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
	batch    bool
	closed   bool

	users         *table[models.User]
	posts         *table[models.Post]
	messages      *table[models.Message]
	notifications *table[models.Notification]

	quarantine []Quarantined
}

// Open loads every table from backend.
func Open(ctx context.Context, backend Backend, opts Options) (*Store, error) {
	s := &Store{
		backend:  backend,
		codec:    opts.Codec,
		validate: opts.Validate,
		logger:   opts.Logger,
		now:      opts.Now,
		batch:    opts.BatchWrites,
	}
	if s.codec == nil {
		s.codec = JSONCodec{}
	}
	if s.validate == nil {
		s.validate = validator.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.users = newTable("users", KeyUsers,
		func(u *models.User) string { return u.ID },
		models.User.Clone, nil)
	s.posts = newTable("posts", KeyPosts,
		func(p *models.Post) string { return p.ID },
		models.Post.Clone,
		func(p *models.Post) []string { return []string{p.AuthorID} })
	s.messages = newTable("messages", KeyMessages,
		func(m *models.Message) string { return m.ID },
		models.Message.Clone,
		func(m *models.Message) []string {
			if m.SenderID == m.ReceiverID {
				return []string{m.SenderID}
			}
			return []string{m.SenderID, m.ReceiverID}
		})
	s.notifications = newTable("notifications", KeyNotifications,
		func(n *models.Notification) string { return n.ID },
		models.Notification.Clone,
		func(n *models.Notification) []string { return []string{n.RecipientID} })

	if err := s.loadQuarantine(ctx); err != nil {
		return nil, err
	}
	for _, t := range s.tables() {
		if err := s.load(ctx, t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) tables() []tableState {
	return []tableState{s.users, s.posts, s.messages, s.notifications}
}

// load replaces t with the snapshot currently in the backend.
func (s *Store) load(ctx context.Context, t tableState) error {
	data, err := s.backend.Get(ctx, t.storageKey())
	if errors.Is(err, ErrNotFound) {
		t.reset(s.codec, s.validate, snapshot{}, s.now())
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", t.tableName(), err)
	}

	snap, err := decodeSnapshot(s.codec, data)
	if errors.Is(err, ErrUnsupportedSchema) {
		return err
	}
	if err != nil {
		// Unreadable snapshot: keep the raw bytes aside and start the table
		// empty on top of the stored revision.
		s.logger.Error("table snapshot quarantined", "table", t.tableName(), "error", err)
		t.reset(s.codec, s.validate, snapshot{Revision: snap.Revision}, s.now())
		return s.addQuarantine(ctx, Quarantined{
			Table:  t.tableName(),
			Reason: err.Error(),
			Raw:    data,
			At:     s.now(),
		})
	}

	bad := t.reset(s.codec, s.validate, snap, s.now())
	if len(bad) > 0 {
		for _, q := range bad {
			s.logger.Warn("record quarantined", "table", q.Table, "id", q.RecordID, "reason", q.Reason)
		}
		return s.addQuarantine(ctx, bad...)
	}
	return nil
}

// storedRevision reads the revision of the snapshot currently persisted for t.
func (s *Store) storedRevision(ctx context.Context, t tableState) (uint64, error) {
	data, err := s.backend.Get(ctx, t.storageKey())
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	snap, err := decodeSnapshot(s.codec, data)
	if err != nil && !errors.Is(err, errChecksum) {
		if errors.Is(err, ErrUnsupportedSchema) {
			return 0, err
		}
		// Garbage in the backend: preserve it and let this write replace it.
		if !s.isQuarantined(t.tableName(), data) {
			if qerr := s.addQuarantine(ctx, Quarantined{Table: t.tableName(), Reason: err.Error(), Raw: data, At: s.now()}); qerr != nil {
				return 0, qerr
			}
		}
		return t.currentRevision(), nil
	}
	return snap.Revision, nil
}

// persist writes the given tables after checking none of them was changed
// by another writer since it was loaded.
func (s *Store) persist(ctx context.Context, tables []tableState) error {
	var stale []string
	for _, t := range tables {
		rev, err := s.storedRevision(ctx, t)
		if err != nil {
			return fmt.Errorf("read revision of %s: %w", t.tableName(), err)
		}
		if rev != t.currentRevision() {
			stale = append(stale, t.tableName())
		}
	}
	if len(stale) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(stale, ", "), ErrConflict)
	}

	for _, t := range tables {
		records, err := t.encode(s.codec)
		if err != nil {
			return err
		}
		next := t.currentRevision() + 1
		data, err := encodeSnapshot(s.codec, t.tableName(), next, records)
		if err != nil {
			return fmt.Errorf("encode %s: %w", t.tableName(), err)
		}
		if err := s.backend.Set(ctx, t.storageKey(), data); err != nil {
			return fmt.Errorf("write %s: %w", t.tableName(), err)
		}
		t.setRevision(next)
		t.setDirty(false)
	}
	return nil
}

// reload re-reads tables after a failed write so memory matches the backend.
func (s *Store) reload(ctx context.Context, tables []tableState) {
	for _, t := range tables {
		if err := s.load(ctx, t); err != nil {
			s.logger.Error("reload after failed write", "table", t.tableName(), "error", err)
		}
	}
}

// View runs fn with a read-only transaction.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return fn(&Tx{s: s, now: s.now()})
}

// Update runs fn with a read-write transaction. If fn fails, or the changed
// tables cannot be persisted, every change made by fn is undone.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	tx := &Tx{s: s, now: s.now(), writable: true}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	if len(tx.touched) == 0 {
		return nil
	}
	if s.batch {
		for _, t := range tx.touched {
			t.setDirty(true)
		}
		return nil
	}
	if err := s.persist(ctx, tx.touched); err != nil {
		tx.rollback()
		s.reload(ctx, tx.touched)
		return err
	}
	return nil
}

// Flush persists every table changed since the last write. On conflict the
// stale tables are reloaded and their unflushed changes are dropped.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx)
}

func (s *Store) flushLocked(ctx context.Context) error {
	var dirty []tableState
	for _, t := range s.tables() {
		if t.isDirty() {
			dirty = append(dirty, t)
		}
	}
	if len(dirty) == 0 {
		return nil
	}
	if err := s.persist(ctx, dirty); err != nil {
		s.logger.Error("flush failed", "error", err)
		if errors.Is(err, ErrConflict) {
			s.reload(ctx, dirty)
		}
		return err
	}
	return nil
}

// RunFlusher flushes dirty tables every interval until ctx is done, then
// flushes one last time.
func (s *Store) RunFlusher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.Flush(ctx); err != nil {
				s.logger.Warn("periodic flush", "error", err)
			}
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.Flush(flushCtx); err != nil {
				s.logger.Warn("final flush", "error", err)
			}
			cancel()
			return
		}
	}
}

// Close flushes pending changes and closes the backend.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	flushErr := s.flushLocked(ctx)
	s.closed = true
	return errors.Join(flushErr, s.backend.Close(ctx))
}

// Now returns the store's notion of the current time.
func (s *Store) Now() time.Time { return s.now() }

// Quarantined lists records that were set aside while loading.
func (s *Store) Quarantined() []Quarantined {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Quarantined, len(s.quarantine))
	copy(out, s.quarantine)
	return out
}

func (s *Store) loadQuarantine(ctx context.Context) error {
	data, err := s.backend.Get(ctx, KeyQuarantine)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load quarantine: %w", err)
	}
	if err := s.codec.Unmarshal(data, &s.quarantine); err != nil {
		s.logger.Warn("quarantine list unreadable, starting fresh", "error", err)
		s.quarantine = nil
	}
	return nil
}

func (s *Store) isQuarantined(table string, raw []byte) bool {
	for _, q := range s.quarantine {
		if q.Table == table && bytes.Equal(q.Raw, raw) {
			return true
		}
	}
	return false
}

func (s *Store) addQuarantine(ctx context.Context, items ...Quarantined) error {
	s.quarantine = append(s.quarantine, items...)
	data, err := s.codec.Marshal(s.quarantine)
	if err != nil {
		return fmt.Errorf("encode quarantine: %w", err)
	}
	if err := s.backend.Set(ctx, KeyQuarantine, data); err != nil {
		return fmt.Errorf("write quarantine: %w", err)
	}
	return nil
}
