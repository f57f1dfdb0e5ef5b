package domain

import "time"

// ================================
// CONTENT TYPES
// ================================

type ContentType string

const (
	ContentStories          ContentType = "stories"
	ContentAnswers          ContentType = "answers"
	ContentComments         ContentType = "comments"
	ContentReactions        ContentType = "reactions"
	ContentMedia            ContentType = "media"
	ContentRecipes          ContentType = "recipes"
	ContentProperties       ContentType = "properties"
	ContentPets             ContentType = "pets"
	ContentFaceTags         ContentType = "face_tags"
	ContentGuestbookEntries ContentType = "guestbook_entries"
)

// AllContentTypes is the fixed enumeration the analyzer counts and the
// executor deletes. Order here matches the analyzer report, not the
// executor pipeline.
var AllContentTypes = []ContentType{
	ContentStories,
	ContentAnswers,
	ContentComments,
	ContentReactions,
	ContentMedia,
	ContentRecipes,
	ContentProperties,
	ContentPets,
	ContentFaceTags,
	ContentGuestbookEntries,
}

// ================================
// DELETION ANALYSIS (dry run)
// ================================

// ContentCounts is the per-type breakdown of content owned by the caller
// across all of their families.
type ContentCounts struct {
	Stories          int64 `json:"stories"`
	Answers          int64 `json:"answers"`
	Comments         int64 `json:"comments"`
	Reactions        int64 `json:"reactions"`
	Media            int64 `json:"media"`
	Recipes          int64 `json:"recipes"`
	Properties       int64 `json:"properties"`
	Pets             int64 `json:"pets"`
	FaceTags         int64 `json:"face_tags"`
	GuestbookEntries int64 `json:"guestbook_entries"`
}

func (c *ContentCounts) Set(t ContentType, n int64) {
	switch t {
	case ContentStories:
		c.Stories = n
	case ContentAnswers:
		c.Answers = n
	case ContentComments:
		c.Comments = n
	case ContentReactions:
		c.Reactions = n
	case ContentMedia:
		c.Media = n
	case ContentRecipes:
		c.Recipes = n
	case ContentProperties:
		c.Properties = n
	case ContentPets:
		c.Pets = n
	case ContentFaceTags:
		c.FaceTags = n
	case ContentGuestbookEntries:
		c.GuestbookEntries = n
	}
}

func (c *ContentCounts) Get(t ContentType) int64 {
	switch t {
	case ContentStories:
		return c.Stories
	case ContentAnswers:
		return c.Answers
	case ContentComments:
		return c.Comments
	case ContentReactions:
		return c.Reactions
	case ContentMedia:
		return c.Media
	case ContentRecipes:
		return c.Recipes
	case ContentProperties:
		return c.Properties
	case ContentPets:
		return c.Pets
	case ContentFaceTags:
		return c.FaceTags
	case ContentGuestbookEntries:
		return c.GuestbookEntries
	}
	return 0
}

func (c *ContentCounts) Total() int64 {
	var total int64
	for _, t := range AllContentTypes {
		total += c.Get(t)
	}
	return total
}

type UserData struct {
	Profile           int64    `json:"profile"`
	FamilyMemberships int64    `json:"family_memberships"`
	Families          []string `json:"families"`
}

// StoryPreview is an advisory sample of stories whose comments would be
// orphaned by deletion. Bounded, not exhaustive.
type StoryPreview struct {
	StoryID      string `json:"story_id"`
	Title        string `json:"title"`
	CommentCount int64  `json:"comment_count"`
}

type ImpactAnalysis struct {
	TotalItems             int64          `json:"total_items"`
	AffectedFamilies       []string       `json:"affected_families"`
	OrphanedContentPreview []StoryPreview `json:"orphaned_content_preview"`
}

type DeletionAnalysis struct {
	UserData       UserData       `json:"user_data"`
	ContentData    ContentCounts  `json:"content_data"`
	ImpactAnalysis ImpactAnalysis `json:"impact_analysis"`
}

// AnalysisReport is the full analyze response. It is never persisted;
// the analysis id exists for traceability only.
type AnalysisReport struct {
	AnalysisID       string           `json:"analysis_id"`
	UserID           string           `json:"user_id"`
	AnalyzedAt       time.Time        `json:"analyzed_at"`
	DeletionAnalysis DeletionAnalysis `json:"deletion_analysis"`
	Warnings         []string         `json:"warnings"`
	NextSteps        []string         `json:"next_steps"`
}
