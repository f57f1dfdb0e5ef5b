package usecase

import (
	"context"
	"fmt"
	"time"

	"rtbf-service/internal/domain"
	"rtbf-service/pkg/id"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// orphanPreviewLimit bounds the advisory orphaned-content sample. The
// preview is a hint for the confirmation screen, not an exhaustive scan.
const orphanPreviewLimit = 5

// AnalyzerUsecase computes a dry-run impact report of deleting an account.
// It never mutates state; every call reflects the data as it is right now.
type AnalyzerUsecase struct {
	memberships MembershipStore
	content     ContentStore
	audit       AuditProducer
	logger      *zap.Logger
}

func NewAnalyzerUsecase(
	memberships MembershipStore,
	content ContentStore,
	audit AuditProducer,
	logger *zap.Logger,
) *AnalyzerUsecase {
	return &AnalyzerUsecase{
		memberships: memberships,
		content:     content,
		audit:       audit,
		logger:      logger,
	}
}

// Analyze is all-or-nothing: any read failure aborts the whole report.
// Safe, since nothing here writes.
func (u *AnalyzerUsecase) Analyze(ctx context.Context, userID string) (*domain.AnalysisReport, error) {
	memberships, err := u.memberships.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve memberships: %w", err)
	}

	familyIDs := domain.FamilyIDs(memberships)
	familyNames := domain.FamilyNames(memberships)

	var counts domain.ContentCounts
	var previews []domain.StoryPreview

	// A caller with no families owns no family-scoped content; skip the
	// count queries entirely.
	if len(familyIDs) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for _, t := range domain.AllContentTypes {
			g.Go(func() error {
				n, err := u.content.Count(gctx, t, userID, familyIDs)
				if err != nil {
					return err
				}
				counts.Set(t, n) // each goroutine writes a distinct field
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("failed to count content: %w", err)
		}

		stories, err := u.content.ListRecentStories(ctx, userID, familyIDs, orphanPreviewLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to sample stories: %w", err)
		}
		for _, s := range stories {
			n, err := u.content.CountStoryComments(ctx, s.StoryID)
			if err != nil {
				return nil, fmt.Errorf("failed to count comments for story %s: %w", s.StoryID, err)
			}
			s.CommentCount = n
			previews = append(previews, s)
		}
	}

	totalItems := counts.Total() + 1 + int64(len(memberships)) // +1 profile

	report := &domain.AnalysisReport{
		AnalysisID: id.GenerateUUID("rtbfa"),
		UserID:     userID,
		AnalyzedAt: time.Now().UTC(),
		DeletionAnalysis: domain.DeletionAnalysis{
			UserData: domain.UserData{
				Profile:           1,
				FamilyMemberships: int64(len(memberships)),
				Families:          familyNames,
			},
			ContentData: counts,
			ImpactAnalysis: domain.ImpactAnalysis{
				TotalItems:             totalItems,
				AffectedFamilies:       familyNames,
				OrphanedContentPreview: previews,
			},
		},
		Warnings:  buildWarnings(&counts),
		NextSteps: nextSteps(),
	}

	publishAudit(ctx, u.audit, u.logger, &RTBFEventMessage{
		EventType:  EventAnalysisRequested,
		UserID:     userID,
		AnalysisID: report.AnalysisID,
		Metadata: map[string]interface{}{
			"total_items":       totalItems,
			"affected_families": len(memberships),
		},
		Timestamp: report.AnalyzedAt,
	})

	return report, nil
}

func buildWarnings(c *domain.ContentCounts) []string {
	warnings := []string{}

	add := func(n int64, noun string) {
		if n > 0 {
			warnings = append(warnings, fmt.Sprintf("%d %s will be permanently deleted", n, noun))
		}
	}
	add(c.Stories, "stories")
	add(c.Answers, "answers")
	add(c.Comments, "comments")
	add(c.Reactions, "reactions")
	add(c.Media, "media files")
	add(c.Recipes, "recipes")
	add(c.Properties, "properties")
	add(c.Pets, "pet profiles")
	add(c.FaceTags, "face tags")
	add(c.GuestbookEntries, "guestbook entries")

	warnings = append(warnings,
		"This action is permanent and cannot be undone",
		"Your content will be removed from every family you belong to",
		"Comments by other family members on your stories will lose their parent content",
		"Your profile and family memberships will be erased",
	)
	return warnings
}

func nextSteps() []string {
	return []string{
		"Review the impact analysis with your family before proceeding",
		"Export any content you want to keep; deletion cannot be reversed",
		"Complete dual-control verification",
		"Submit the exact confirmation phrase to the execute endpoint",
	}
}
