package usecase

import (
	"context"
	"errors"
	"testing"

	"rtbf-service/internal/domain"
	"rtbf-service/pkg/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testUser  = "user-1"
	otherUser = "user-2"
	famA      = "fam-a"
	famB      = "fam-b"
)

// executorWorld is a populated account: one family membership, one item of
// every content type in that family, plus decoy rows that must survive
// (other owners, and a family the caller does not belong to).
type executorWorld struct {
	memberships *fakeMembershipStore
	content     *fakeContentStore
	profile     *fakeProfileStore
	blobs       *fakeBlobStore
	sessions    *fakeSessionStore
	audit       *fakeAuditProducer
	executor    *ExecutorUsecase
}

func newExecutorWorld() *executorWorld {
	memberships := &fakeMembershipStore{
		memberships: []domain.FamilyMembership{
			{FamilyID: famA, FamilyName: "Bird Family", Role: "member"},
		},
	}

	content := newFakeContentStore()
	content.add(domain.ContentStories,
		contentRow{id: "s1", owner: testUser, familyID: famA, title: "Grandma's War Years"},
		contentRow{id: "s2", owner: otherUser, familyID: famA, title: "Not ours"},
		contentRow{id: "s3", owner: testUser, familyID: famB, title: "Outside membership"},
	)
	content.add(domain.ContentComments,
		contentRow{id: "c1", owner: testUser, familyID: famA, storyID: "s1"},
		contentRow{id: "c2", owner: otherUser, familyID: famA, storyID: "s1"},
	)
	content.add(domain.ContentReactions, contentRow{id: "r1", owner: testUser, familyID: famA})
	content.add(domain.ContentAnswers, contentRow{id: "a1", owner: testUser, familyID: famA})
	content.add(domain.ContentFaceTags, contentRow{id: "ft1", owner: testUser, familyID: famA})
	content.add(domain.ContentGuestbookEntries, contentRow{id: "g1", owner: testUser, familyID: famA})
	content.add(domain.ContentMedia,
		contentRow{id: "m1", owner: testUser, familyID: famA, storagePath: "families/fam-a/media/m1.jpg"},
		contentRow{id: "m2", owner: otherUser, familyID: famA, storagePath: "families/fam-a/media/m2.jpg"},
	)
	content.add(domain.ContentRecipes, contentRow{id: "rc1", owner: testUser, familyID: famA})
	content.add(domain.ContentProperties, contentRow{id: "p1", owner: testUser, familyID: famA})
	content.add(domain.ContentPets, contentRow{id: "pt1", owner: testUser, familyID: famA})

	profile := &fakeProfileStore{exists: true}
	blobs := &fakeBlobStore{failPaths: map[string]error{}}
	sessions := &fakeSessionStore{sessions: 2}
	audit := &fakeAuditProducer{}

	executor := NewExecutorUsecase(memberships, content, profile, blobs, sessions, audit, zap.NewNop())

	return &executorWorld{
		memberships: memberships,
		content:     content,
		profile:     profile,
		blobs:       blobs,
		sessions:    sessions,
		audit:       audit,
		executor:    executor,
	}
}

func validRequest() domain.ExecuteRequest {
	return domain.ExecuteRequest{
		ConfirmationCode:    ConfirmationPhrase,
		AnalysisID:          "rtbfa_TESTANALYSIS",
		DualControlVerified: true,
	}
}

func stepNames(log []domain.StepLogEntry) []string {
	var names []string
	for _, e := range log {
		names = append(names, e.Step)
	}
	return names
}

func TestExecute_ConfirmationGate(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.ExecuteRequest
		wantErr error
	}{
		{
			name: "wrong phrase",
			req: domain.ExecuteRequest{
				ConfirmationCode:    "delete_all_data",
				DualControlVerified: true,
			},
			wantErr: xerrors.ErrInvalidConfirmation,
		},
		{
			name: "empty phrase",
			req: domain.ExecuteRequest{
				DualControlVerified: true,
			},
			wantErr: xerrors.ErrInvalidConfirmation,
		},
		{
			name: "dual control missing",
			req: domain.ExecuteRequest{
				ConfirmationCode: ConfirmationPhrase,
			},
			wantErr: xerrors.ErrDualControlRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newExecutorWorld()

			receipt, err := w.executor.Execute(context.Background(), testUser, tt.req)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, receipt)

			// Zero mutations: nothing was deleted anywhere.
			assert.Empty(t, w.content.deleteOrder)
			assert.Equal(t, 3, w.content.remaining(domain.ContentStories))
			assert.True(t, w.profile.exists)
			assert.Len(t, w.memberships.memberships, 1)
			assert.Equal(t, int64(2), w.sessions.sessions)
		})
	}
}

func TestExecute_FullSuccess(t *testing.T) {
	w := newExecutorWorld()

	receipt, err := w.executor.Execute(context.Background(), testUser, validRequest())

	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, domain.ReceiptCompleted, receipt.Status)
	assert.Equal(t, testUser, receipt.UserID)
	assert.Equal(t, "rtbfa_TESTANALYSIS", receipt.AnalysisID)
	assert.NotEmpty(t, receipt.DeletionID)
	assert.False(t, receipt.CompletedAt.IsZero())

	// 10 content rows + 1 membership + 1 profile + 2 sessions
	assert.Equal(t, int64(14), receipt.TotalItemsDeleted)

	assert.Equal(t, []string{
		domain.StepDeleteReactions,
		domain.StepDeleteComments,
		domain.StepDeleteAnswers,
		domain.StepDeleteFaceTags,
		domain.StepDeleteGuestbookEntries,
		domain.StepDeleteMedia,
		domain.StepDeleteStories,
		domain.StepDeleteRecipes,
		domain.StepDeleteProperties,
		domain.StepDeletePets,
		domain.StepDeleteMemberships,
		domain.StepDeleteProfile,
		domain.StepSignOut,
	}, stepNames(receipt.DeletionLog))

	for _, e := range receipt.DeletionLog {
		assert.Equal(t, domain.StepCompleted, e.Status, "step %s", e.Step)
		require.NotNil(t, e.Count, "step %s", e.Step)
		assert.Empty(t, e.Error, "step %s", e.Step)
		assert.False(t, e.Timestamp.IsZero(), "step %s", e.Step)
	}

	// Blob removed before media rows, only the caller's object.
	assert.Equal(t, []string{"families/fam-a/media/m1.jpg"}, w.blobs.removed)

	assert.False(t, w.profile.exists)
	assert.Empty(t, w.memberships.memberships)
	assert.Equal(t, int64(0), w.sessions.sessions)

	assert.Equal(t, []string{EventExecutionStarted, EventExecutionCompleted}, w.audit.eventTypes())
}

func TestExecute_OrderingInvariant(t *testing.T) {
	w := newExecutorWorld()

	receipt, err := w.executor.Execute(context.Background(), testUser, validRequest())
	require.NoError(t, err)

	names := stepNames(receipt.DeletionLog)
	idx := func(step string) int {
		for i, n := range names {
			if n == step {
				return i
			}
		}
		t.Fatalf("step %s missing from deletion log", step)
		return -1
	}

	// Comments strictly before media, media before stories, stories before
	// the profile row.
	assert.Less(t, idx(domain.StepDeleteComments), idx(domain.StepDeleteMedia))
	assert.Less(t, idx(domain.StepDeleteMedia), idx(domain.StepDeleteStories))
	assert.Less(t, idx(domain.StepDeleteStories), idx(domain.StepDeleteProfile))
	assert.Less(t, idx(domain.StepDeleteMemberships), idx(domain.StepDeleteProfile))
	assert.Less(t, idx(domain.StepDeleteProfile), idx(domain.StepSignOut))
}

func TestExecute_IdempotentRetry(t *testing.T) {
	w := newExecutorWorld()

	first, err := w.executor.Execute(context.Background(), testUser, validRequest())
	require.NoError(t, err)
	require.Equal(t, domain.ReceiptCompleted, first.Status)

	second, err := w.executor.Execute(context.Background(), testUser, validRequest())
	require.NoError(t, err)
	require.Equal(t, domain.ReceiptCompleted, second.Status)

	// Everything was already gone: every step completes with count 0,
	// including the profile-row no-op.
	assert.Equal(t, int64(0), second.TotalItemsDeleted)
	for _, e := range second.DeletionLog {
		assert.Equal(t, domain.StepCompleted, e.Status, "step %s", e.Step)
		require.NotNil(t, e.Count, "step %s", e.Step)
		assert.Equal(t, int64(0), *e.Count, "step %s", e.Step)
	}

	assert.NotEqual(t, first.DeletionID, second.DeletionID)
}

func TestExecute_PartialFailureTransparency(t *testing.T) {
	w := newExecutorWorld()
	w.content.deleteErr[domain.ContentStories] = errors.New("stories delete timed out")

	receipt, err := w.executor.Execute(context.Background(), testUser, validRequest())

	require.Error(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, domain.ReceiptFailed, receipt.Status)

	// Completed entries for every step before stories, one failed entry for
	// stories, and nothing after it.
	require.Equal(t, []string{
		domain.StepDeleteReactions,
		domain.StepDeleteComments,
		domain.StepDeleteAnswers,
		domain.StepDeleteFaceTags,
		domain.StepDeleteGuestbookEntries,
		domain.StepDeleteMedia,
		domain.StepDeleteStories,
	}, stepNames(receipt.DeletionLog))

	for _, e := range receipt.DeletionLog[:6] {
		assert.Equal(t, domain.StepCompleted, e.Status, "step %s", e.Step)
	}
	last := receipt.DeletionLog[6]
	assert.Equal(t, domain.StepFailed, last.Status)
	assert.Contains(t, last.Error, "stories delete timed out")
	assert.Nil(t, last.Count)

	// Later resources were never touched.
	assert.Equal(t, 1, w.content.remaining(domain.ContentRecipes))
	assert.Equal(t, 1, w.content.remaining(domain.ContentProperties))
	assert.Equal(t, 1, w.content.remaining(domain.ContentPets))
	assert.True(t, w.profile.exists)
	assert.Len(t, w.memberships.memberships, 1)
	assert.Equal(t, int64(2), w.sessions.sessions)

	assert.Equal(t, []string{EventExecutionStarted, EventExecutionFailed}, w.audit.eventTypes())
}

func TestExecute_ScopeCorrectness(t *testing.T) {
	w := newExecutorWorld()

	_, err := w.executor.Execute(context.Background(), testUser, validRequest())
	require.NoError(t, err)

	// Rows owned by someone else, or scoped to a family outside the
	// caller's membership snapshot, survive untouched.
	var survivors []string
	for _, r := range w.content.rows[domain.ContentStories] {
		survivors = append(survivors, r.id)
	}
	assert.ElementsMatch(t, []string{"s2", "s3"}, survivors)

	assert.Equal(t, 1, w.content.remaining(domain.ContentComments)) // c2 by other user
	assert.Equal(t, 1, w.content.remaining(domain.ContentMedia))    // m2 by other user
	assert.NotContains(t, w.blobs.removed, "families/fam-a/media/m2.jpg")
}

func TestExecute_BlobFailureDoesNotAbort(t *testing.T) {
	w := newExecutorWorld()
	w.blobs.failPaths["families/fam-a/media/m1.jpg"] = errors.New("storage 503")

	receipt, err := w.executor.Execute(context.Background(), testUser, validRequest())

	// Orphaned blob, but the pipeline runs to completion and the media rows
	// are gone.
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptCompleted, receipt.Status)
	assert.Equal(t, 1, w.content.remaining(domain.ContentMedia)) // only the other user's row
	assert.False(t, w.profile.exists)
}

func TestExecute_AuditFailureIsSwallowed(t *testing.T) {
	w := newExecutorWorld()
	w.audit.publishErr = errors.New("kafka unreachable")

	receipt, err := w.executor.Execute(context.Background(), testUser, validRequest())

	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptCompleted, receipt.Status)
	assert.Empty(t, w.audit.events)
}

func TestExecute_MembershipSnapshotFailure(t *testing.T) {
	w := newExecutorWorld()
	w.memberships.listErr = errors.New("connection refused")

	receipt, err := w.executor.Execute(context.Background(), testUser, validRequest())

	require.Error(t, err)
	assert.Nil(t, receipt)
	assert.Empty(t, w.content.deleteOrder)
	assert.True(t, w.profile.exists)
}
