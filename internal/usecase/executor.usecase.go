package usecase

import (
	"context"
	"fmt"
	"time"

	"rtbf-service/internal/domain"
	"rtbf-service/pkg/id"
	"rtbf-service/pkg/xerrors"

	"go.uber.org/zap"
)

// ConfirmationPhrase is the exact string the caller must submit. Anything
// else is rejected before a single row is touched.
const ConfirmationPhrase = "DELETE_ALL_DATA"

// ExecutorUsecase performs the irreversible account deletion: every owned
// content row, membership row, the profile itself, and finally the caller's
// sessions, in strict dependency order (leaf tables before parents).
//
// There is no transaction spanning the pipeline. Each step commits on its
// own; a failure aborts the remainder and the partial log is returned. All
// deletes are idempotent, so re-invocation is the documented recovery path.
type ExecutorUsecase struct {
	memberships MembershipStore
	content     ContentStore
	profiles    ProfileStore
	blobs       BlobStore
	sessions    SessionStore
	audit       AuditProducer
	logger      *zap.Logger
}

func NewExecutorUsecase(
	memberships MembershipStore,
	content ContentStore,
	profiles ProfileStore,
	blobs BlobStore,
	sessions SessionStore,
	audit AuditProducer,
	logger *zap.Logger,
) *ExecutorUsecase {
	return &ExecutorUsecase{
		memberships: memberships,
		content:     content,
		profiles:    profiles,
		blobs:       blobs,
		sessions:    sessions,
		audit:       audit,
		logger:      logger,
	}
}

// step is one named stage of the pipeline. The runner executes steps in
// slice order, records an entry per attempt, and halts on first error.
type step struct {
	name string
	run  func(ctx context.Context) (int64, error)
}

// Execute validates the confirmation gate, then walks the deletion pipeline.
// On failure the returned receipt is non-nil and carries the partial log.
func (u *ExecutorUsecase) Execute(ctx context.Context, userID string, req domain.ExecuteRequest) (*domain.DeletionReceipt, error) {
	if req.ConfirmationCode != ConfirmationPhrase {
		return nil, xerrors.ErrInvalidConfirmation
	}
	if !req.DualControlVerified {
		return nil, xerrors.ErrDualControlRequired
	}

	// The family id set is captured once here and reused for every step.
	// A membership added concurrently with execution is never picked up
	// mid-pipeline (snapshot semantics).
	memberships, err := u.memberships.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve membership snapshot: %w", err)
	}
	familyIDs := domain.FamilyIDs(memberships)

	receipt := &domain.DeletionReceipt{
		DeletionID: id.GenerateUUID("rtbfd"),
		UserID:     userID,
		AnalysisID: req.AnalysisID,
		Status:     domain.ReceiptCompleted,
	}

	u.logger.Info("account deletion started",
		zap.String("deletion_id", receipt.DeletionID),
		zap.String("user_id", userID),
		zap.Int("families", len(familyIDs)),
	)
	publishAudit(ctx, u.audit, u.logger, &RTBFEventMessage{
		EventType:  EventExecutionStarted,
		UserID:     userID,
		AnalysisID: req.AnalysisID,
		DeletionID: receipt.DeletionID,
		Timestamp:  time.Now().UTC(),
	})

	steps := []step{
		{domain.StepDeleteReactions, u.contentStep(domain.ContentReactions, userID, familyIDs)},
		{domain.StepDeleteComments, u.contentStep(domain.ContentComments, userID, familyIDs)},
		{domain.StepDeleteAnswers, u.contentStep(domain.ContentAnswers, userID, familyIDs)},
		{domain.StepDeleteFaceTags, u.contentStep(domain.ContentFaceTags, userID, familyIDs)},
		{domain.StepDeleteGuestbookEntries, u.contentStep(domain.ContentGuestbookEntries, userID, familyIDs)},
		{domain.StepDeleteMedia, func(ctx context.Context) (int64, error) {
			return u.deleteMedia(ctx, userID, familyIDs)
		}},
		{domain.StepDeleteStories, u.contentStep(domain.ContentStories, userID, familyIDs)},
		{domain.StepDeleteRecipes, u.contentStep(domain.ContentRecipes, userID, familyIDs)},
		{domain.StepDeleteProperties, u.contentStep(domain.ContentProperties, userID, familyIDs)},
		{domain.StepDeletePets, u.contentStep(domain.ContentPets, userID, familyIDs)},
		{domain.StepDeleteMemberships, func(ctx context.Context) (int64, error) {
			return u.memberships.DeleteForUser(ctx, userID, familyIDs)
		}},
		{domain.StepDeleteProfile, func(ctx context.Context) (int64, error) {
			return u.profiles.Delete(ctx, userID)
		}},
		{domain.StepSignOut, func(ctx context.Context) (int64, error) {
			return u.sessions.RevokeAll(ctx, userID)
		}},
	}

	var total int64
	for _, s := range steps {
		receipt.DeletionLog = append(receipt.DeletionLog, domain.StepLogEntry{
			Step:      s.name,
			Status:    domain.StepStarted,
			Timestamp: time.Now().UTC(),
		})
		entry := &receipt.DeletionLog[len(receipt.DeletionLog)-1]

		n, err := s.run(ctx)
		if err != nil {
			entry.Status = domain.StepFailed
			entry.Error = err.Error()
			entry.Timestamp = time.Now().UTC()
			receipt.Status = domain.ReceiptFailed
			receipt.TotalItemsDeleted = total

			u.logger.Error("deletion step failed, aborting pipeline",
				zap.String("deletion_id", receipt.DeletionID),
				zap.String("step", s.name),
				zap.Error(err),
			)
			publishAudit(ctx, u.audit, u.logger, &RTBFEventMessage{
				EventType:  EventExecutionFailed,
				UserID:     userID,
				AnalysisID: req.AnalysisID,
				DeletionID: receipt.DeletionID,
				Metadata: map[string]interface{}{
					"failed_step": s.name,
					"error":       err.Error(),
				},
				Timestamp: time.Now().UTC(),
			})
			return receipt, fmt.Errorf("step %s: %w", s.name, err)
		}

		count := n
		entry.Status = domain.StepCompleted
		entry.Count = &count
		entry.Timestamp = time.Now().UTC()
		total += n
	}

	receipt.TotalItemsDeleted = total
	receipt.CompletedAt = time.Now().UTC()

	u.logger.Info("account deletion completed",
		zap.String("deletion_id", receipt.DeletionID),
		zap.String("user_id", userID),
		zap.Int64("total_items_deleted", total),
	)
	publishAudit(ctx, u.audit, u.logger, &RTBFEventMessage{
		EventType:  EventExecutionCompleted,
		UserID:     userID,
		AnalysisID: req.AnalysisID,
		DeletionID: receipt.DeletionID,
		Metadata: map[string]interface{}{
			"total_items_deleted": total,
		},
		Timestamp: receipt.CompletedAt,
	})

	return receipt, nil
}

func (u *ExecutorUsecase) contentStep(t domain.ContentType, userID string, familyIDs []string) func(ctx context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) {
		return u.content.Delete(ctx, t, userID, familyIDs)
	}
}

// deleteMedia removes blobs from object storage before their rows. A blob
// removal failure is logged and swallowed: an orphaned blob is preferable
// to an account that cannot be deleted. Row deletion failures still abort.
func (u *ExecutorUsecase) deleteMedia(ctx context.Context, userID string, familyIDs []string) (int64, error) {
	paths, err := u.content.ListMediaPaths(ctx, userID, familyIDs)
	if err != nil {
		return 0, err
	}

	for _, p := range paths {
		if err := u.blobs.Remove(ctx, p); err != nil {
			u.logger.Warn("media blob removal failed, continuing",
				zap.String("path", p),
				zap.Error(err),
			)
		}
	}

	return u.content.Delete(ctx, domain.ContentMedia, userID, familyIDs)
}
