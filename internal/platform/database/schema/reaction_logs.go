package schema

// ReactionLogsTable represents the 'public.reaction_logs' table
type ReactionLogsTable struct {
	Table        string
	UserID       string
	FeedbackID   string
	ReactionType string
	CreatedAt    string

	// UniqueUserFeedback is the constraint enforcing one reaction per user and feedback.
	UniqueUserFeedback string
}

// ReactionLogs is the schema definition for public.reaction_logs
var ReactionLogs = ReactionLogsTable{
	Table:              "reaction_logs",
	UserID:             "user_id",
	FeedbackID:         "feedback_id",
	ReactionType:       "reaction_type",
	CreatedAt:          "created_at",
	UniqueUserFeedback: "reaction_logs_user_feedback_key",
}
