// Package store is the session store: the single owner of the in-memory
// workout list, the pending-sync id set, and the template list. All
// mutations commit locally first, then a queued task attempts the remote
// write. Remote failures never surface to callers; they are observable
// through LastError, the pending set, and notifications.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/claude/fitlog/internal/auth"
	"github.com/claude/fitlog/internal/localcache"
	"github.com/claude/fitlog/internal/models"
	"github.com/claude/fitlog/internal/notify"
	"github.com/claude/fitlog/internal/remote"
)

// WeeklyGoal is the number of sessions per ISO week that keeps a streak
// alive.
const WeeklyGoal = 3

type taskKind int

const (
	taskInsert taskKind = iota
	taskUpdate
	taskDelete
)

// task is one queued remote write. Tasks are keyed by session id and
// idempotent on the remote side, so a retry after a partial failure is
// safe.
type task struct {
	kind    taskKind
	session models.WorkoutSession
	id      string
	userID  string
}

// Options wires the store's collaborators. Cache and Remote may each be
// nil: a nil cache skips persistence, a nil remote keeps everything
// local and pending.
type Options struct {
	Cache    *localcache.Cache
	Remote   remote.Store
	Auth     auth.Provider
	Notifier notify.Notifier
	Logger   *slog.Logger
}

// Store holds all session state for one running application instance.
// Construct exactly one with New and pass it where needed.
type Store struct {
	mu        sync.Mutex
	sessions  []models.WorkoutSession
	pending   map[string]struct{}
	templates []models.WorkoutTemplate
	loading   bool
	lastErr   string

	// reconciling is a single-flight guard: a reconcile requested while
	// one is in flight returns immediately.
	reconciling bool
	closed      bool

	cache    *localcache.Cache
	remote   remote.Store
	auth     auth.Provider
	notifier notify.Notifier
	log      *slog.Logger
	now      func() time.Time

	tasks    chan task
	inFlight sync.WaitGroup
	worker   sync.WaitGroup
}

// New builds a store, synchronously loading sessions, the pending set,
// and templates from the local cache, and starts the sync worker. It
// does not reconcile; call Reconcile when a remote pass is wanted.
func New(opts Options) (*Store, error) {
	if opts.Auth == nil {
		opts.Auth = auth.Static{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Store{
		pending:  make(map[string]struct{}),
		cache:    opts.Cache,
		remote:   opts.Remote,
		auth:     opts.Auth,
		notifier: opts.Notifier,
		log:      opts.Logger,
		now:      time.Now,
		tasks:    make(chan task, 64),
	}

	sessions, err := s.cache.LoadSessions()
	if err != nil {
		return nil, fmt.Errorf("loading cached sessions: %w", err)
	}
	s.sessions = sessions
	s.sortLocked()

	pending, err := s.cache.LoadPending()
	if err != nil {
		return nil, fmt.Errorf("loading pending set: %w", err)
	}
	if pending != nil {
		s.pending = pending
	}

	templates, err := s.cache.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	s.templates = templates

	s.worker.Add(1)
	go s.runWorker()

	return s, nil
}

// Close stops the sync worker after draining queued tasks. The local
// cache is not closed; it belongs to the caller.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	// Any enqueue that passed the closed check has already registered
	// with inFlight, so waiting here drains every in-flight send before
	// the channel closes.
	s.inFlight.Wait()
	close(s.tasks)
	s.worker.Wait()
}

// Flush blocks until every task queued so far has been attempted.
func (s *Store) Flush() {
	s.inFlight.Wait()
}

// Add prepends a session, persists it locally, marks it pending, and
// queues a remote insert. Failure is never returned to the caller.
func (s *Store) Add(session models.WorkoutSession) {
	s.mu.Lock()
	s.sessions = append([]models.WorkoutSession{session}, s.sessions...)
	s.sortLocked()
	s.persistSessionsLocked()

	s.pending[session.ID] = struct{}{}
	s.persistPendingLocked()
	s.mu.Unlock()

	userID, _ := s.auth.CurrentUserID(context.Background())
	s.enqueue(task{kind: taskInsert, session: session, id: session.ID, userID: userID})
}

// Update replaces the session with a matching id in place. Unknown ids
// are a complete no-op; update never inserts.
func (s *Store) Update(session models.WorkoutSession) {
	s.mu.Lock()
	found := false
	for i := range s.sessions {
		if s.sessions[i].ID == session.ID {
			s.sessions[i] = session
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return
	}
	s.sortLocked()
	s.persistSessionsLocked()

	s.pending[session.ID] = struct{}{}
	s.persistPendingLocked()
	s.mu.Unlock()

	s.enqueue(task{kind: taskUpdate, session: session, id: session.ID})
}

// Delete removes the session locally and queues a remote delete. A
// failed remote delete is logged and notified but never re-added to the
// pending set; deletions are fire-and-forget once locally committed.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	s.sessions = kept
	s.persistSessionsLocked()

	delete(s.pending, id)
	s.persistPendingLocked()
	s.mu.Unlock()

	s.enqueue(task{kind: taskDelete, id: id})
}

// Reconcile fetches the full remote list, pushes any local sessions the
// remote has never seen, and replaces the in-memory list with the merged
// result. Mutations that land while the fetch is in flight survive the
// merge. A pass already in flight makes this call return immediately.
func (s *Store) Reconcile(ctx context.Context) {
	s.mu.Lock()
	if s.reconciling {
		s.mu.Unlock()
		return
	}
	s.reconciling = true
	s.loading = true
	s.lastErr = ""

	local := make([]models.WorkoutSession, len(s.sessions))
	copy(local, s.sessions)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.reconciling = false
		s.loading = false
		s.mu.Unlock()
	}()

	if s.remote == nil {
		return
	}

	fetched, err := s.remote.FetchAll(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		s.log.Error("remote fetch failed, using local data", "error", err)
		s.sendNotification("Could not reach the cloud, using local data", notify.SeverityError)
		return
	}

	remoteIDs := make(map[string]struct{}, len(fetched))
	fetchedByID := make(map[string]models.WorkoutSession, len(fetched))
	for _, sess := range fetched {
		remoteIDs[sess.ID] = struct{}{}
		fetchedByID[sess.ID] = sess
	}

	snapIDs := make(map[string]struct{}, len(local))
	for _, sess := range local {
		snapIDs[sess.ID] = struct{}{}
	}

	userID, _ := s.auth.CurrentUserID(ctx)

	// pushed records the outcome per id so the pending set can be
	// settled under the lock afterwards.
	pushed := make(map[string]bool)
	for _, sess := range local {
		if _, ok := remoteIDs[sess.ID]; ok {
			continue
		}
		if _, ok := s.SessionByID(sess.ID); !ok {
			// Deleted while the fetch was in flight; don't resurrect
			// it on the remote.
			continue
		}
		if err := s.remote.Insert(ctx, sess, userID); err != nil {
			s.log.Warn("sync of local session failed", "id", sess.ID, "error", err)
			pushed[sess.ID] = false
		} else {
			pushed[sess.ID] = true
		}
	}

	// Merge against the live state, not the pre-fetch snapshot:
	// mutations that landed while the fetch was in flight must survive
	// the swap.
	s.mu.Lock()
	live := make(map[string]struct{}, len(s.sessions))
	merged := make([]models.WorkoutSession, 0, len(s.sessions)+len(fetched))
	for _, sess := range s.sessions {
		live[sess.ID] = struct{}{}
		// The remote copy wins for rows with no unsynced local change.
		if rem, ok := fetchedByID[sess.ID]; ok {
			if _, unsynced := s.pending[sess.ID]; !unsynced {
				sess = rem
			}
		}
		merged = append(merged, sess)
	}
	for _, sess := range fetched {
		if _, ok := live[sess.ID]; ok {
			continue
		}
		// In the pre-fetch snapshot but no longer live means the
		// session was deleted during the pass.
		if _, ok := snapIDs[sess.ID]; ok {
			continue
		}
		merged = append(merged, sess)
	}
	s.sessions = merged
	s.sortLocked()

	for id, ok := range pushed {
		if !ok {
			if _, stillHere := live[id]; stillHere {
				s.pending[id] = struct{}{}
			}
			continue
		}
		delete(s.pending, id)
	}
	s.persistSessionsLocked()
	s.persistPendingLocked()
	n := len(s.pending)
	s.mu.Unlock()

	if n > 0 {
		s.sendNotification(fmt.Sprintf("%d pending cloud sync", n), notify.SeverityInfo)
	}
}

// Sessions returns a copy of the session list, date descending.
func (s *Store) Sessions() []models.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WorkoutSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// SessionByID returns the session with the given id.
func (s *Store) SessionByID(id string) (models.WorkoutSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return models.WorkoutSession{}, false
}

// Loading reports whether a reconciliation pass is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the message of the most recent remote failure, or ""
// when the last remote interaction succeeded.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// PendingIDs returns the ids awaiting remote sync, sorted.
func (s *Store) PendingIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PendingCount returns the size of the pending-sync set.
func (s *Store) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Store) enqueue(t task) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.inFlight.Add(1)
	s.mu.Unlock()
	s.tasks <- t
}

func (s *Store) runWorker() {
	defer s.worker.Done()
	for t := range s.tasks {
		s.runTask(t)
		s.inFlight.Done()
	}
}

func (s *Store) runTask(t task) {
	// Offline mode: nothing to attempt, items simply stay pending until
	// a remote is configured and a reconcile pass runs.
	if s.remote == nil {
		return
	}

	ctx := context.Background()
	var err error
	switch t.kind {
	case taskInsert:
		err = s.remote.Insert(ctx, t.session, t.userID)
	case taskUpdate:
		err = s.remote.Update(ctx, t.session)
	case taskDelete:
		err = s.remote.Delete(ctx, t.id)
	}

	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		s.log.Error("remote sync failed", "id", t.id, "error", err)
		s.sendNotification("Saved locally — sync failed", notify.SeverityError)
		return
	}

	// A successful delete has nothing pending to clear; its id was
	// already dropped from the set at local commit time.
	if t.kind == taskDelete {
		return
	}

	s.mu.Lock()
	delete(s.pending, t.id)
	s.persistPendingLocked()
	s.mu.Unlock()
}

func (s *Store) sendNotification(message string, severity notify.Severity) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(message, severity, 0)
}

// sortLocked re-establishes the store invariant: sessions sorted by date
// descending, ties keeping their current relative order (newest-added
// first after a prepend). Callers must hold mu.
func (s *Store) sortLocked() {
	sort.SliceStable(s.sessions, func(i, j int) bool {
		return s.sessions[i].Date > s.sessions[j].Date
	})
}

func (s *Store) persistSessionsLocked() {
	if err := s.cache.SaveSessions(s.sessions); err != nil {
		s.log.Error("persisting sessions", "error", err)
	}
}

func (s *Store) persistPendingLocked() {
	if err := s.cache.SavePending(s.pending); err != nil {
		s.log.Error("persisting pending set", "error", err)
	}
}
