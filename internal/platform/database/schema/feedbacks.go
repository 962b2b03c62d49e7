package schema

// FeedbacksTable represents the 'public.feedbacks' table
type FeedbacksTable struct {
	Table        string
	ID           string
	WebtoonTitle string
	UserID       string
	ParentID     string
	Rating       string
	Comment      string
	Likes        string
	Dislikes     string
	CreatedAt    string
	UpdatedAt    string
}

// Feedbacks is the schema definition for public.feedbacks
var Feedbacks = FeedbacksTable{
	Table:        "feedbacks",
	ID:           "id",
	WebtoonTitle: "webtoon_title",
	UserID:       "user_id",
	ParentID:     "parent_id",
	Rating:       "rating",
	Comment:      "comment",
	Likes:        "likes",
	Dislikes:     "dislikes",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}
