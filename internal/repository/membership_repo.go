package repository

import (
	"context"
	"fmt"

	"rtbf-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MembershipRepository struct {
	db *pgxpool.Pool
}

func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// ListForUser resolves the caller's full membership set with family names.
func (r *MembershipRepository) ListForUser(ctx context.Context, userID string) ([]domain.FamilyMembership, error) {
	rows, err := r.db.Query(ctx, `
		SELECT fm.family_id, f.name, fm.role
		FROM family_memberships fm
		JOIN families f ON f.id = fm.family_id
		WHERE fm.user_id = $1
		ORDER BY f.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list family memberships: %w", err)
	}
	defer rows.Close()

	var memberships []domain.FamilyMembership
	for rows.Next() {
		var m domain.FamilyMembership
		if err := rows.Scan(&m.FamilyID, &m.FamilyName, &m.Role); err != nil {
			return nil, fmt.Errorf("failed to scan family membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read family memberships: %w", err)
	}
	return memberships, nil
}

// DeleteForUser severs the caller's family associations within the given
// family id snapshot. Deleting rows that are already gone is a no-op.
func (r *MembershipRepository) DeleteForUser(ctx context.Context, userID string, familyIDs []string) (int64, error) {
	if len(familyIDs) == 0 {
		return 0, nil
	}

	tag, err := r.db.Exec(ctx, `
		DELETE FROM family_memberships
		WHERE user_id = $1 AND family_id = ANY($2)
	`, userID, familyIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to delete family_memberships: %w", err)
	}
	return tag.RowsAffected(), nil
}
