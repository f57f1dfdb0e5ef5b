package repository

import (
	"context"
	"fmt"

	"rtbf-service/internal/domain"
	"rtbf-service/pkg/xerrors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// tableSpec binds a content type to its table and scoping columns. Every
// RTBF query is scoped identically: owner = caller AND family in snapshot.
type tableSpec struct {
	table     string
	ownerCol  string
	familyCol string
}

var contentTables = map[domain.ContentType]tableSpec{
	domain.ContentStories:          {table: "stories", ownerCol: "author_id", familyCol: "family_id"},
	domain.ContentAnswers:          {table: "answers", ownerCol: "author_id", familyCol: "family_id"},
	domain.ContentComments:         {table: "comments", ownerCol: "author_id", familyCol: "family_id"},
	domain.ContentReactions:        {table: "reactions", ownerCol: "user_id", familyCol: "family_id"},
	domain.ContentMedia:            {table: "media", ownerCol: "uploaded_by", familyCol: "family_id"},
	domain.ContentRecipes:          {table: "recipes", ownerCol: "created_by", familyCol: "family_id"},
	domain.ContentProperties:       {table: "properties", ownerCol: "created_by", familyCol: "family_id"},
	domain.ContentPets:             {table: "pets", ownerCol: "created_by", familyCol: "family_id"},
	domain.ContentFaceTags:         {table: "face_tags", ownerCol: "tagged_by", familyCol: "family_id"},
	domain.ContentGuestbookEntries: {table: "guestbook_entries", ownerCol: "created_by", familyCol: "family_id"},
}

type ContentRepository struct {
	db *pgxpool.Pool
}

func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{db: db}
}

// Count returns how many rows of the given type the caller owns within the
// family id set. Read-only; the analyzer fans these out per type.
func (r *ContentRepository) Count(ctx context.Context, t domain.ContentType, userID string, familyIDs []string) (int64, error) {
	spec, ok := contentTables[t]
	if !ok {
		return 0, fmt.Errorf("unknown content type %q: %w", t, xerrors.ErrInvalidRequest)
	}
	if len(familyIDs) == 0 {
		return 0, nil
	}

	q := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1 AND %s = ANY($2)`,
		spec.table, spec.ownerCol, spec.familyCol)

	var n int64
	if err := r.db.QueryRow(ctx, q, userID, familyIDs).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", spec.table, err)
	}
	return n, nil
}

// Delete hard-deletes the caller's rows of the given type within the family
// id snapshot and reports affected rows. Re-running against already-deleted
// rows affects 0 rows and is not an error.
func (r *ContentRepository) Delete(ctx context.Context, t domain.ContentType, userID string, familyIDs []string) (int64, error) {
	spec, ok := contentTables[t]
	if !ok {
		return 0, fmt.Errorf("unknown content type %q: %w", t, xerrors.ErrInvalidRequest)
	}
	if len(familyIDs) == 0 {
		return 0, nil
	}

	q := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = ANY($2)`,
		spec.table, spec.ownerCol, spec.familyCol)

	tag, err := r.db.Exec(ctx, q, userID, familyIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s (pg=%s): %w",
			spec.table, xerrors.ParsePGErrorCode(err), err)
	}
	return tag.RowsAffected(), nil
}

// ListRecentStories returns a bounded sample of the caller's newest stories
// for the orphaned-content preview.
func (r *ContentRepository) ListRecentStories(ctx context.Context, userID string, familyIDs []string, limit int) ([]domain.StoryPreview, error) {
	if len(familyIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, COALESCE(title, '')
		FROM stories
		WHERE author_id = $1 AND family_id = ANY($2)
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, familyIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent stories: %w", err)
	}
	defer rows.Close()

	var previews []domain.StoryPreview
	for rows.Next() {
		var p domain.StoryPreview
		if err := rows.Scan(&p.StoryID, &p.Title); err != nil {
			return nil, fmt.Errorf("failed to scan story preview: %w", err)
		}
		previews = append(previews, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read story previews: %w", err)
	}
	return previews, nil
}

// CountStoryComments counts comments attached to one story, by any author.
// Advisory only: these become orphans (or cascade) when the story goes.
func (r *ContentRepository) CountStoryComments(ctx context.Context, storyID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM comments WHERE story_id = $1
	`, storyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count story comments: %w", err)
	}
	return n, nil
}

// ListMediaPaths returns the object-storage paths of the caller's media so
// blobs can be removed before their rows.
func (r *ContentRepository) ListMediaPaths(ctx context.Context, userID string, familyIDs []string) ([]string, error) {
	if len(familyIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT storage_path
		FROM media
		WHERE uploaded_by = $1 AND family_id = ANY($2)
	`, userID, familyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list media paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan media path: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read media paths: %w", err)
	}
	return paths, nil
}
