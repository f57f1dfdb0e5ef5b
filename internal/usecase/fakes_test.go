package usecase

import (
	"context"
	"sync"

	"rtbf-service/internal/domain"
)

// In-memory world standing in for Postgres, GCS and Redis. Fakes implement
// the same scoping rules as the real repositories so the scope and
// idempotency properties are exercised for real.

func inSet(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// ---------- memberships ----------

type fakeMembershipStore struct {
	memberships []domain.FamilyMembership
	listErr     error
	deleteErr   error
	listCalls   int
}

func (f *fakeMembershipStore) ListForUser(ctx context.Context, userID string) ([]domain.FamilyMembership, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.FamilyMembership, len(f.memberships))
	copy(out, f.memberships)
	return out, nil
}

func (f *fakeMembershipStore) DeleteForUser(ctx context.Context, userID string, familyIDs []string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var kept []domain.FamilyMembership
	var n int64
	for _, m := range f.memberships {
		if inSet(m.FamilyID, familyIDs) {
			n++
			continue
		}
		kept = append(kept, m)
	}
	f.memberships = kept
	return n, nil
}

// ---------- content ----------

type contentRow struct {
	id          string
	owner       string
	familyID    string
	title       string // stories
	storyID     string // comments
	storagePath string // media
}

type fakeContentStore struct {
	mu          sync.Mutex
	rows        map[domain.ContentType][]contentRow
	countErr    map[domain.ContentType]error
	deleteErr   map[domain.ContentType]error
	countCalls  int
	deleteOrder []domain.ContentType
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{
		rows:      map[domain.ContentType][]contentRow{},
		countErr:  map[domain.ContentType]error{},
		deleteErr: map[domain.ContentType]error{},
	}
}

func (f *fakeContentStore) add(t domain.ContentType, rows ...contentRow) {
	f.rows[t] = append(f.rows[t], rows...)
}

func (f *fakeContentStore) matching(t domain.ContentType, userID string, familyIDs []string) []contentRow {
	var out []contentRow
	for _, r := range f.rows[t] {
		if r.owner == userID && inSet(r.familyID, familyIDs) {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeContentStore) Count(ctx context.Context, t domain.ContentType, userID string, familyIDs []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	if err := f.countErr[t]; err != nil {
		return 0, err
	}
	return int64(len(f.matching(t, userID, familyIDs))), nil
}

func (f *fakeContentStore) Delete(ctx context.Context, t domain.ContentType, userID string, familyIDs []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[t]; err != nil {
		return 0, err
	}
	f.deleteOrder = append(f.deleteOrder, t)

	var kept []contentRow
	var n int64
	for _, r := range f.rows[t] {
		if r.owner == userID && inSet(r.familyID, familyIDs) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.rows[t] = kept
	return n, nil
}

func (f *fakeContentStore) ListRecentStories(ctx context.Context, userID string, familyIDs []string, limit int) ([]domain.StoryPreview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.StoryPreview
	for _, r := range f.matching(domain.ContentStories, userID, familyIDs) {
		if len(out) == limit {
			break
		}
		out = append(out, domain.StoryPreview{StoryID: r.id, Title: r.title})
	}
	return out, nil
}

func (f *fakeContentStore) CountStoryComments(ctx context.Context, storyID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.rows[domain.ContentComments] {
		if r.storyID == storyID {
			n++
		}
	}
	return n, nil
}

func (f *fakeContentStore) ListMediaPaths(ctx context.Context, userID string, familyIDs []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var paths []string
	for _, r := range f.matching(domain.ContentMedia, userID, familyIDs) {
		paths = append(paths, r.storagePath)
	}
	return paths, nil
}

func (f *fakeContentStore) remaining(t domain.ContentType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows[t])
}

// ---------- profile ----------

type fakeProfileStore struct {
	exists    bool
	deleteErr error
}

func (f *fakeProfileStore) Delete(ctx context.Context, userID string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	if !f.exists {
		return 0, nil
	}
	f.exists = false
	return 1, nil
}

// ---------- blobs ----------

type fakeBlobStore struct {
	removed   []string
	failPaths map[string]error
}

func (f *fakeBlobStore) Remove(ctx context.Context, path string) error {
	if err := f.failPaths[path]; err != nil {
		return err
	}
	f.removed = append(f.removed, path)
	return nil
}

// ---------- sessions ----------

type fakeSessionStore struct {
	sessions  int64
	revokeErr error
}

func (f *fakeSessionStore) RevokeAll(ctx context.Context, userID string) (int64, error) {
	if f.revokeErr != nil {
		return 0, f.revokeErr
	}
	n := f.sessions
	f.sessions = 0
	return n, nil
}

// ---------- audit ----------

type fakeAuditProducer struct {
	events     []*RTBFEventMessage
	publishErr error
}

func (f *fakeAuditProducer) PublishRTBFEvent(ctx context.Context, msg *RTBFEventMessage) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.events = append(f.events, msg)
	return nil
}

func (f *fakeAuditProducer) eventTypes() []string {
	var out []string
	for _, e := range f.events {
		out = append(out, e.EventType)
	}
	return out
}
