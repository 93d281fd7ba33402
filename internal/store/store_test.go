package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/claude/fitlog/internal/auth"
	"github.com/claude/fitlog/internal/localcache"
	"github.com/claude/fitlog/internal/models"
	"github.com/claude/fitlog/internal/notify"
)

// fakeRemote is an in-memory remote.Store with injectable failures.
type fakeRemote struct {
	mu         sync.Mutex
	rows       map[string]models.WorkoutSession
	users      map[string]string
	fetchErr   error
	insertErr  error
	updateErr  error
	deleteErr  error
	fetchCalls int
	fetchGate  chan struct{} // when set, FetchAll blocks until closed
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		rows:  make(map[string]models.WorkoutSession),
		users: make(map[string]string),
	}
}

func (f *fakeRemote) FetchAll(ctx context.Context) ([]models.WorkoutSession, error) {
	f.mu.Lock()
	f.fetchCalls++
	gate := f.fetchGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]models.WorkoutSession, 0, len(f.rows))
	for _, sess := range f.rows {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (f *fakeRemote) Insert(ctx context.Context, sess models.WorkoutSession, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows[sess.ID] = sess
	f.users[sess.ID] = userID
	return nil
}

func (f *fakeRemote) Update(ctx context.Context, sess models.WorkoutSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.rows[sess.ID]; ok {
		f.rows[sess.ID] = sess
	}
	return nil
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, id)
	return nil
}

type sentNotification struct {
	message  string
	severity notify.Severity
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (r *recordingNotifier) Notify(message string, severity notify.Severity, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{message, severity})
}

func (r *recordingNotifier) all() []sentNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentNotification(nil), r.sent...)
}

func session(id, date string, exercises ...models.Exercise) models.WorkoutSession {
	return models.WorkoutSession{ID: id, Date: date, Exercises: exercises}
}

func newTestStore(t *testing.T, rem *fakeRemote, n *recordingNotifier) *Store {
	t.Helper()
	cache, err := localcache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	opts := Options{Cache: cache, Auth: auth.Static{UserID: "user-1"}}
	if rem != nil {
		opts.Remote = rem
	}
	if n != nil {
		opts.Notifier = n
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("building store: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func sessionIDs(sessions []models.WorkoutSession) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}

func wantIDs(t *testing.T, got []models.WorkoutSession, want ...string) {
	t.Helper()
	ids := sessionIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

// TestAddKeepsDescendingOrder adds sessions out of order and verifies the
// list stays date descending with same-date ties newest-added first.
func TestAddKeepsDescendingOrder(t *testing.T) {
	s := newTestStore(t, newFakeRemote(), nil)

	s.Add(session("a", "2026-08-20"))
	s.Add(session("b", "2026-08-25"))
	s.Add(session("c", "2026-08-22"))
	s.Add(session("d", "2026-08-25")) // tie with b, added later

	wantIDs(t, s.Sessions(), "d", "b", "c", "a")
}

// TestAddSyncsRemote verifies a successful queued insert clears the
// pending set and stamps the authenticated user onto the row.
func TestAddSyncsRemote(t *testing.T) {
	rem := newFakeRemote()
	s := newTestStore(t, rem, nil)

	s.Add(session("a", "2026-08-25"))
	s.Flush()

	if n := s.PendingCount(); n != 0 {
		t.Errorf("pending = %d, want 0", n)
	}
	rem.mu.Lock()
	defer rem.mu.Unlock()
	if _, ok := rem.rows["a"]; !ok {
		t.Error("session not inserted remotely")
	}
	if rem.users["a"] != "user-1" {
		t.Errorf("user stamp = %q, want user-1", rem.users["a"])
	}
}

// TestAddRemoteFailure verifies the local commit survives a failed
// remote insert: the id stays pending, lastErr is set, and an error
// notification is emitted. The caller never sees the failure.
func TestAddRemoteFailure(t *testing.T) {
	rem := newFakeRemote()
	rem.insertErr = errors.New("boom")
	notifier := &recordingNotifier{}
	s := newTestStore(t, rem, notifier)

	s.Add(session("a", "2026-08-25"))
	s.Flush()

	wantIDs(t, s.Sessions(), "a")
	if got := s.PendingIDs(); len(got) != 1 || got[0] != "a" {
		t.Errorf("pending = %v, want [a]", got)
	}
	if s.LastError() != "boom" {
		t.Errorf("lastErr = %q, want boom", s.LastError())
	}
	sent := notifier.all()
	if len(sent) != 1 || sent[0].severity != notify.SeverityError {
		t.Fatalf("notifications = %v, want one error", sent)
	}
}

// TestUpdateUnknownIDIsNoop verifies update never inserts.
func TestUpdateUnknownIDIsNoop(t *testing.T) {
	s := newTestStore(t, newFakeRemote(), nil)
	s.Add(session("a", "2026-08-25"))
	s.Flush()

	s.Update(session("ghost", "2026-08-26"))
	s.Flush()

	wantIDs(t, s.Sessions(), "a")
	if n := s.PendingCount(); n != 0 {
		t.Errorf("pending = %d, want 0", n)
	}
}

// TestUpdateReplacesAndResorts verifies an update that changes the date
// re-establishes the descending order.
func TestUpdateReplacesAndResorts(t *testing.T) {
	rem := newFakeRemote()
	s := newTestStore(t, rem, nil)
	s.Add(session("a", "2026-08-20"))
	s.Add(session("b", "2026-08-25"))
	s.Flush()

	s.Update(session("a", "2026-08-27"))
	s.Flush()

	wantIDs(t, s.Sessions(), "a", "b")
	rem.mu.Lock()
	defer rem.mu.Unlock()
	if rem.rows["a"].Date != "2026-08-27" {
		t.Errorf("remote date = %q, want 2026-08-27", rem.rows["a"].Date)
	}
}

// TestDeleteFailureDoesNotReaddPending pins the fire-and-forget delete
// behavior: a failed remote delete notifies but leaves the pending set
// without the id.
func TestDeleteFailureDoesNotReaddPending(t *testing.T) {
	rem := newFakeRemote()
	rem.insertErr = errors.New("offline")
	rem.deleteErr = errors.New("offline")
	notifier := &recordingNotifier{}
	s := newTestStore(t, rem, notifier)

	s.Add(session("a", "2026-08-25"))
	s.Flush()
	if n := s.PendingCount(); n != 1 {
		t.Fatalf("pending = %d, want 1 before delete", n)
	}

	s.Delete("a")
	s.Flush()

	wantIDs(t, s.Sessions())
	if n := s.PendingCount(); n != 0 {
		t.Errorf("pending = %d, want 0 after delete", n)
	}
	if s.LastError() != "offline" {
		t.Errorf("lastErr = %q, want offline", s.LastError())
	}
}

// TestReconcileFetchFailure checks the fallback path: lastErr carries
// the raw remote message, sessions are untouched, and an error
// notification is emitted.
func TestReconcileFetchFailure(t *testing.T) {
	rem := newFakeRemote()
	notifier := &recordingNotifier{}
	s := newTestStore(t, rem, notifier)
	s.Add(session("a", "2026-08-25"))
	s.Flush()

	rem.fetchErr = errors.New("network error")
	s.Reconcile(context.Background())

	if s.LastError() != "network error" {
		t.Errorf("lastErr = %q, want network error", s.LastError())
	}
	wantIDs(t, s.Sessions(), "a")
	if s.Loading() {
		t.Error("loading still true after failed reconcile")
	}
	sent := notifier.all()
	if len(sent) == 0 || sent[len(sent)-1].severity != notify.SeverityError {
		t.Fatalf("notifications = %v, want trailing error", sent)
	}
}

// TestReconcileMergesUnsyncedLocal verifies a local-only session is
// pushed to the remote during reconcile and the merged list holds both
// local and remote rows sorted descending.
func TestReconcileMergesUnsyncedLocal(t *testing.T) {
	rem := newFakeRemote()
	rem.rows["r1"] = session("r1", "2026-08-24")
	s := newTestStore(t, nil, nil)
	s.Add(session("local1", "2026-08-26"))
	s.Flush()
	if n := s.PendingCount(); n != 1 {
		t.Fatalf("pending = %d, want 1 while offline", n)
	}

	// Remote comes online.
	s.remote = rem
	s.Reconcile(context.Background())

	wantIDs(t, s.Sessions(), "local1", "r1")
	if n := s.PendingCount(); n != 0 {
		t.Errorf("pending = %d, want 0 after merge", n)
	}
	rem.mu.Lock()
	defer rem.mu.Unlock()
	if _, ok := rem.rows["local1"]; !ok {
		t.Error("local session not pushed to remote")
	}
}

// TestReconcileKeepsFailedPushPending verifies a session the remote
// rejects stays in memory, stays pending, and triggers the pending-sync
// notification.
func TestReconcileKeepsFailedPushPending(t *testing.T) {
	rem := newFakeRemote()
	rem.insertErr = errors.New("still offline")
	notifier := &recordingNotifier{}
	s := newTestStore(t, nil, notifier)
	s.Add(session("local1", "2026-08-26"))
	s.Flush()

	s.remote = rem
	s.Reconcile(context.Background())

	wantIDs(t, s.Sessions(), "local1")
	if got := s.PendingIDs(); len(got) != 1 || got[0] != "local1" {
		t.Errorf("pending = %v, want [local1]", got)
	}
	sent := notifier.all()
	if len(sent) == 0 || sent[len(sent)-1].message != "1 pending cloud sync" {
		t.Fatalf("notifications = %v, want pending-sync info", sent)
	}
	if sent[len(sent)-1].severity != notify.SeverityInfo {
		t.Errorf("severity = %s, want info", sent[len(sent)-1].severity)
	}
}

// TestReconcileIdempotent runs two passes against a stable remote and
// expects identical state after the second.
func TestReconcileIdempotent(t *testing.T) {
	rem := newFakeRemote()
	rem.rows["r1"] = session("r1", "2026-08-24")
	rem.rows["r2"] = session("r2", "2026-08-26")
	s := newTestStore(t, rem, nil)

	s.Reconcile(context.Background())
	first := s.Sessions()

	s.Reconcile(context.Background())
	second := s.Sessions()

	wantIDs(t, second, sessionIDs(first)...)
	if n := s.PendingCount(); n != 0 {
		t.Errorf("pending = %d, want 0", n)
	}
}

// TestReconcileSingleFlight starts a reconcile that blocks inside the
// remote fetch and verifies a second call returns without fetching.
func TestReconcileSingleFlight(t *testing.T) {
	rem := newFakeRemote()
	gate := make(chan struct{})
	rem.fetchGate = gate
	s := newTestStore(t, rem, nil)

	done := make(chan struct{})
	go func() {
		s.Reconcile(context.Background())
		close(done)
	}()

	// Wait for the first pass to reach the remote.
	for {
		rem.mu.Lock()
		started := rem.fetchCalls > 0
		rem.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	s.Reconcile(context.Background()) // must return immediately
	close(gate)
	<-done

	rem.mu.Lock()
	defer rem.mu.Unlock()
	if rem.fetchCalls != 1 {
		t.Errorf("fetch calls = %d, want 1", rem.fetchCalls)
	}
}

// TestReconcileKeepsConcurrentMutations blocks a reconcile inside the
// remote fetch, mutates the store while it is blocked, and verifies the
// final merge keeps the added session and does not resurrect the
// deleted one.
func TestReconcileKeepsConcurrentMutations(t *testing.T) {
	rem := newFakeRemote()
	rem.rows["r1"] = session("r1", "2026-08-24")
	gate := make(chan struct{})
	rem.fetchGate = gate
	s := newTestStore(t, rem, nil)
	s.Add(session("old", "2026-08-20"))
	s.Flush() // "old" is now synced and on the remote

	done := make(chan struct{})
	go func() {
		s.Reconcile(context.Background())
		close(done)
	}()

	// Wait for the pass to reach the remote fetch.
	for {
		rem.mu.Lock()
		started := rem.fetchCalls > 0
		rem.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// Mutations landing while the fetch is in flight.
	s.Add(session("x", "2026-08-28"))
	s.Delete("old")
	s.Flush()

	close(gate)
	<-done

	wantIDs(t, s.Sessions(), "x", "r1")
	if n := s.PendingCount(); n != 0 {
		t.Errorf("pending = %d, want 0", n)
	}
	rem.mu.Lock()
	defer rem.mu.Unlock()
	if _, ok := rem.rows["old"]; ok {
		t.Error("deleted session re-pushed to remote during reconcile")
	}
}

// TestReconcileKeepsUnsyncedLocalCopy verifies a locally updated session
// that is still pending keeps its local copy when the remote holds a
// stale version of the same id.
func TestReconcileKeepsUnsyncedLocalCopy(t *testing.T) {
	rem := newFakeRemote()
	rem.rows["a"] = session("a", "2026-08-20")
	rem.updateErr = errors.New("offline")
	s := newTestStore(t, rem, nil)
	s.Add(session("a", "2026-08-20"))
	s.Flush()

	s.Update(session("a", "2026-08-27")) // update fails, stays pending
	s.Flush()

	s.Reconcile(context.Background())

	got := s.Sessions()
	wantIDs(t, got, "a")
	if got[0].Date != "2026-08-27" {
		t.Errorf("date = %q, want the unsynced local copy 2026-08-27", got[0].Date)
	}
	if got := s.PendingIDs(); len(got) != 1 || got[0] != "a" {
		t.Errorf("pending = %v, want [a]", got)
	}
}

// TestFreshInstanceRoundTrip persists through one store and reloads in a
// second instance over the same cache.
func TestFreshInstanceRoundTrip(t *testing.T) {
	cache, err := localcache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	defer cache.Close()

	s1, err := New(Options{Cache: cache})
	if err != nil {
		t.Fatalf("building store: %v", err)
	}
	s1.Add(session("a", "2026-08-20"))
	s1.Add(session("b", "2026-08-25"))
	s1.Flush()
	s1.Close()

	s2, err := New(Options{Cache: cache})
	if err != nil {
		t.Fatalf("building second store: %v", err)
	}
	defer s2.Close()

	wantIDs(t, s2.Sessions(), "b", "a")
	if got := s2.PendingIDs(); len(got) != 2 {
		t.Errorf("pending = %v, want both ids (no remote configured)", got)
	}
}

// TestNilCacheStore verifies the store runs entirely in memory when no
// cache is available.
func TestNilCacheStore(t *testing.T) {
	s, err := New(Options{})
	if err != nil {
		t.Fatalf("building store: %v", err)
	}
	defer s.Close()

	s.Add(session("a", "2026-08-25"))
	s.Flush()
	wantIDs(t, s.Sessions(), "a")
}
