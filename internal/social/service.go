// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/taibuivan/bolgeo/internal/catalog"
	"github.com/taibuivan/bolgeo/internal/platform/apperr"
	"github.com/taibuivan/bolgeo/internal/platform/constants"
	"github.com/taibuivan/bolgeo/internal/platform/metrics"
	"github.com/taibuivan/bolgeo/internal/platform/validate"
	"github.com/taibuivan/bolgeo/pkg/uuid"
)

// ReviewRecorder remembers the last review a user submitted for a title.
type ReviewRecorder interface {
	RecordReview(context context.Context, userID, title string, rating float64, comment string) error
}

// SubmitInput is the payload for a new top-level feedback.
type SubmitInput struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// Service applies the feedback rules on top of a [Repository].
type Service struct {
	repo    Repository
	reviews ReviewRecorder
	logger  *slog.Logger
}

// NewService creates a new Service. reviews may be nil.
func NewService(repo Repository, reviews ReviewRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		reviews: reviews,
		logger:  logger,
	}
}

// # Queries

// ListByTitle returns every feedback for a title, ordered by sortBy. Each
// top-level item carries its reply count.
func (service *Service) ListByTitle(context context.Context, title string, sortBy ListSort) ([]*Feedback, error) {
	feedbacks, err := service.repo.ListByTitle(context, catalog.NormalizeTitle(title))
	if err != nil {
		return nil, err
	}

	SortFeedbacks(feedbacks, sortBy)
	return feedbacks, nil
}

// Threads returns a title's top-level feedback ordered by sortBy, each with
// its replies in chronological order.
func (service *Service) Threads(context context.Context, title string, sortBy ListSort) ([]Thread, error) {
	feedbacks, err := service.ListByTitle(context, title, sortBy)
	if err != nil {
		return nil, err
	}
	return GroupThreads(feedbacks), nil
}

// ListAll returns a page of top-level feedback across all titles.
func (service *Service) ListAll(context context.Context, sortBy ListSort, limit, offset int) ([]*Feedback, int, error) {
	if sortBy != SortLikes {
		sortBy = SortLatest
	}
	return service.repo.ListAll(context, sortBy, limit, offset)
}

// ListRatings returns every non-zero rating for aggregation.
func (service *Service) ListRatings(context context.Context) ([]Rating, error) {
	return service.repo.ListRatings(context)
}

// # Commands

/*
Submit creates a top-level feedback on a title.

Description: The comment is required and the rating must sit on the 0.5 grid
between 0 and 5; 0 marks a comment without a score. A rated submission also
updates the author's review cache, whose failure is logged and ignored.

Parameters:
  - context: context.Context
  - userID: string (authenticated author)
  - title: string (catalog title, normalised)
  - input: SubmitInput

Returns:
  - *Feedback: The stored record
  - error: Unauthorized, validation or storage errors
*/
func (service *Service) Submit(context context.Context, userID, title string, input SubmitInput) (*Feedback, error) {
	if userID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	title = catalog.NormalizeTitle(title)
	comment := strings.TrimSpace(input.Comment)

	validator := &validate.Validator{}
	validator.
		Required(FieldWebtoonTitle, title).
		MaxLen(FieldWebtoonTitle, title, 200).
		Required(FieldComment, comment).
		MaxLen(FieldComment, comment, constants.FeedbackMaxLength).
		Custom(FieldRating, !ValidRating(input.Rating), "Must be between 0 and 5 in steps of 0.5")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	feedback := &Feedback{
		ID:           uuid.New(),
		WebtoonTitle: title,
		UserID:       &userID,
		Rating:       input.Rating,
		Comment:      comment,
	}

	if err := service.repo.Insert(context, feedback); err != nil {
		return nil, err
	}

	service.logger.Info("feedback_submitted",
		slog.String("feedback_id", feedback.ID),
		slog.String("webtoon_title", title),
		slog.Float64("rating", feedback.Rating),
	)

	if feedback.Rating > 0 && service.reviews != nil {
		if err := service.reviews.RecordReview(context, userID, title, feedback.Rating, comment); err != nil {
			// The review cache is advisory; the feedback itself is already stored.
			service.logger.Warn("review_cache_failed", slog.String("user_id", userID), slog.Any("error", err))
		}
	}

	return feedback, nil
}

/*
Reply answers a top-level feedback.

Description: Replies inherit the parent's title and never carry a rating.
Answering a reply is rejected with [ErrNestedReply].

Parameters:
  - context: context.Context
  - userID: string
  - parentID: string (UUID of a top-level feedback)
  - comment: string

Returns:
  - *Feedback: The stored reply
  - error: NotFound for a missing parent, validation or storage errors
*/
func (service *Service) Reply(context context.Context, userID, parentID, comment string) (*Feedback, error) {
	if userID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	comment = strings.TrimSpace(comment)

	validator := &validate.Validator{}
	validator.
		UUID(FieldParentID, parentID).
		Required(FieldComment, comment).
		MaxLen(FieldComment, comment, constants.FeedbackMaxLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	parent, err := service.repo.FindByID(context, parentID)
	if err != nil {
		return nil, err
	}

	if parent.IsReply() {
		return nil, ErrNestedReply
	}

	reply := &Feedback{
		ID:           uuid.New(),
		WebtoonTitle: parent.WebtoonTitle,
		UserID:       &userID,
		ParentID:     &parent.ID,
		Comment:      comment,
	}

	if err := service.repo.Insert(context, reply); err != nil {
		return nil, err
	}

	service.logger.Info("feedback_replied",
		slog.String("feedback_id", reply.ID),
		slog.String("parent_id", parent.ID),
	)
	return reply, nil
}

// Edit replaces the comment of a feedback owned by userID.
func (service *Service) Edit(context context.Context, userID, id, comment string) (*Feedback, error) {
	comment = strings.TrimSpace(comment)

	validator := &validate.Validator{}
	validator.
		Required(FieldComment, comment).
		MaxLen(FieldComment, comment, constants.FeedbackMaxLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.authorize(context, userID, id); err != nil {
		return nil, err
	}

	feedback, err := service.repo.Update(context, id, userID, comment)
	if err != nil {
		return nil, err
	}

	service.logger.Info("feedback_edited", slog.String("feedback_id", id))
	return feedback, nil
}

// Remove deletes a feedback owned by userID together with its replies.
func (service *Service) Remove(context context.Context, userID, id string) error {
	if err := service.authorize(context, userID, id); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id, userID); err != nil {
		return err
	}

	service.logger.Warn("feedback_deleted", slog.String("feedback_id", id), slog.String("user_id", userID))
	return nil
}

/*
React records a like or dislike.

Description: Each user reacts to a feedback once. The reaction row and the
counter update commit together; a second reaction of any type fails with
[ErrAlreadyReacted].

Parameters:
  - context: context.Context
  - userID: string
  - feedbackID: string (UUID)
  - reactionType: ReactionType (like | dislike)

Returns:
  - error: Unauthorized, validation, NotFound or Conflict
*/
func (service *Service) React(context context.Context, userID, feedbackID string, reactionType ReactionType) error {
	if userID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	validator := &validate.Validator{}
	validator.
		UUID(FieldID, feedbackID).
		OneOf(FieldReactionType, string(reactionType), string(ReactionLike), string(ReactionDislike))

	if err := validator.Err(); err != nil {
		return err
	}

	err := service.repo.InsertReaction(context, Reaction{
		UserID:     userID,
		FeedbackID: feedbackID,
		Type:       reactionType,
	})
	if err != nil {
		return err
	}

	metrics.RecordReaction(string(reactionType))
	service.logger.Info("feedback_reacted",
		slog.String("feedback_id", feedbackID),
		slog.String("type", string(reactionType)),
	)
	return nil
}

// authorize checks that userID owns the feedback before any mutation.
func (service *Service) authorize(context context.Context, userID, id string) error {
	if userID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	if err := (&validate.Validator{}).UUID(FieldID, id).Err(); err != nil {
		return err
	}

	feedback, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if !feedback.OwnedBy(userID) {
		service.logger.Warn("feedback_ownership_denied",
			slog.String("feedback_id", id),
			slog.String("user_id", userID),
		)
		return ErrNotOwner
	}
	return nil
}

// # Helpers

// ValidRating reports whether value is within [0,5] on the half-star grid.
func ValidRating(value float64) bool {
	if math.IsNaN(value) || value < MinRating || value > MaxRating {
		return false
	}
	steps := value / RatingStep
	return steps == math.Trunc(steps)
}

// SortFeedbacks orders feedbacks in place and fills ReplyCount from the
// replies present in the slice. The sort is stable.
func SortFeedbacks(feedbacks []*Feedback, sortBy ListSort) {
	replyCounts := make(map[string]int)
	for _, feedback := range feedbacks {
		if feedback.ParentID != nil {
			replyCounts[*feedback.ParentID]++
		}
	}
	for _, feedback := range feedbacks {
		feedback.ReplyCount = replyCounts[feedback.ID]
	}

	sort.SliceStable(feedbacks, func(i, j int) bool {
		switch sortBy {
		case SortLatest:
			return feedbacks[i].CreatedAt.After(feedbacks[j].CreatedAt)
		case SortReplies:
			return feedbacks[i].ReplyCount > feedbacks[j].ReplyCount
		default:
			return feedbacks[i].Likes > feedbacks[j].Likes
		}
	})
}

// GroupThreads nests replies under their parents, keeping the parents' order.
// Replies are ordered oldest first; orphaned replies are dropped.
func GroupThreads(feedbacks []*Feedback) []Thread {
	replies := make(map[string][]*Feedback)
	for _, feedback := range feedbacks {
		if feedback.ParentID != nil {
			replies[*feedback.ParentID] = append(replies[*feedback.ParentID], feedback)
		}
	}

	threads := []Thread{}
	for _, feedback := range feedbacks {
		if feedback.IsReply() {
			continue
		}

		children := replies[feedback.ID]
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].CreatedAt.Before(children[j].CreatedAt)
		})
		if children == nil {
			children = []*Feedback{}
		}

		threads = append(threads, Thread{Feedback: feedback, Replies: children})
	}
	return threads
}
