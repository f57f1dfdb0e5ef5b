package usecase

import (
	"context"

	"rtbf-service/internal/domain"
)

// Store interfaces expected by the usecases. Implemented by
// internal/repository (Postgres), internal/service/storage (GCS) and
// internal/service/session (Redis); faked in tests.

type MembershipStore interface {
	ListForUser(ctx context.Context, userID string) ([]domain.FamilyMembership, error)
	DeleteForUser(ctx context.Context, userID string, familyIDs []string) (int64, error)
}

type ContentStore interface {
	Count(ctx context.Context, t domain.ContentType, userID string, familyIDs []string) (int64, error)
	Delete(ctx context.Context, t domain.ContentType, userID string, familyIDs []string) (int64, error)
	ListRecentStories(ctx context.Context, userID string, familyIDs []string, limit int) ([]domain.StoryPreview, error)
	CountStoryComments(ctx context.Context, storyID string) (int64, error)
	ListMediaPaths(ctx context.Context, userID string, familyIDs []string) ([]string, error)
}

type ProfileStore interface {
	Delete(ctx context.Context, userID string) (int64, error)
}

type BlobStore interface {
	Remove(ctx context.Context, path string) error
}

type SessionStore interface {
	RevokeAll(ctx context.Context, userID string) (int64, error)
}
