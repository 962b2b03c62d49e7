// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package social stores reader feedback on webtoons: ratings, comments,
one-level replies and like/dislike reactions, and fans out change
notifications to live subscribers.

Rules enforced here rather than by the client:

  - Only the author of a feedback may edit or delete it.
  - A reply's parent must itself be top-level.
  - A user reacts to a given feedback at most once.
*/
package social

import (
	"time"

	"github.com/taibuivan/bolgeo/pkg/pointer"
)

// # Domain Constants

// ReactionType is the kind of reaction a user leaves on a feedback.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// ListSort orders feedback lists.
type ListSort string

const (
	SortLikes   ListSort = "likes"
	SortLatest  ListSort = "latest"
	SortReplies ListSort = "replies"
)

// Rating bounds. Ratings use a half-star grid; 0 means "no rating".
const (
	MinRating  = 0.0
	MaxRating  = 5.0
	RatingStep = 0.5
)

// Field names used in validation errors.
const (
	FieldID           = "id"
	FieldComment      = "comment"
	FieldRating       = "rating"
	FieldWebtoonTitle = "webtoon_title"
	FieldParentID     = "parent_id"
	FieldReactionType = "type"
	FieldSort         = "sort"
)

// # Domain Models

// Feedback is a rating/comment on a webtoon, or a reply to one.
type Feedback struct {
	ID           string    `json:"id"`
	WebtoonTitle string    `json:"webtoon_title"`
	UserID       *string   `json:"user_id"`
	ParentID     *string   `json:"parent_id"`
	Rating       float64   `json:"rating"`
	Comment      string    `json:"comment"`
	Likes        int       `json:"likes"`
	Dislikes     int       `json:"dislikes"`
	ReplyCount   int       `json:"reply_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsReply reports whether the feedback answers another feedback.
func (f *Feedback) IsReply() bool {
	return f.ParentID != nil
}

// OwnedBy reports whether userID authored the feedback. Anonymous feedback
// has no owner.
func (f *Feedback) OwnedBy(userID string) bool {
	return userID != "" && pointer.Val(f.UserID) == userID
}

// Thread is a top-level feedback with its replies, oldest reply first.
type Thread struct {
	*Feedback
	Replies []*Feedback `json:"replies"`
}

// Rating is the minimal projection used for score aggregation.
type Rating struct {
	WebtoonTitle string
	Value        float64
}

// Reaction records that a user liked or disliked a feedback.
type Reaction struct {
	UserID     string
	FeedbackID string
	Type       ReactionType
}
