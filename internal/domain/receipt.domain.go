package domain

import "time"

// ================================
// DELETION PIPELINE STEPS
// ================================

// Step names, in execution order. Leaves before roots: engagement records
// first, then owned content, then membership rows, then the profile itself.
const (
	StepDeleteReactions        = "delete_reactions"
	StepDeleteComments         = "delete_comments"
	StepDeleteAnswers          = "delete_answers"
	StepDeleteFaceTags         = "delete_face_tags"
	StepDeleteGuestbookEntries = "delete_guestbook_entries"
	StepDeleteMedia            = "delete_media"
	StepDeleteStories          = "delete_stories"
	StepDeleteRecipes          = "delete_recipes"
	StepDeleteProperties       = "delete_properties"
	StepDeletePets             = "delete_pets"
	StepDeleteMemberships      = "delete_family_memberships"
	StepDeleteProfile          = "delete_profile"
	StepSignOut                = "sign_out"
)

type StepStatus string

const (
	StepStarted   StepStatus = "started"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
)

// StepLogEntry is one line of the deletion audit trail. Count is a pointer
// so a completed step with zero affected rows still serializes as count:0.
type StepLogEntry struct {
	Step      string     `json:"step"`
	Status    StepStatus `json:"status"`
	Count     *int64     `json:"count,omitempty"`
	Error     string     `json:"error,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

type ReceiptStatus string

const (
	ReceiptCompleted ReceiptStatus = "completed"
	ReceiptFailed    ReceiptStatus = "failed"
)

// DeletionReceipt is the terminal artifact of an execution. On failure it
// carries the log up to and including the failed step; steps after the
// failure were never attempted and have no entries.
type DeletionReceipt struct {
	DeletionID        string         `json:"deletion_id"`
	UserID            string         `json:"user_id"`
	AnalysisID        string         `json:"analysis_id,omitempty"`
	CompletedAt       time.Time      `json:"completed_at"`
	TotalItemsDeleted int64          `json:"total_items_deleted"`
	DeletionLog       []StepLogEntry `json:"deletion_log"`
	Status            ReceiptStatus  `json:"status"`
}

// ExecuteRequest is the execute endpoint body. ConfirmationCode must equal
// the fixed confirmation phrase and DualControlVerified must be true before
// any deletion is attempted. AnalysisID is carried for correlation only.
type ExecuteRequest struct {
	ConfirmationCode    string `json:"confirmation_code"`
	AnalysisID          string `json:"analysis_id"`
	DualControlVerified bool   `json:"dual_control_verified"`
}
