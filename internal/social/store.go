// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

import "context"

// Repository is the persistence boundary for feedback and reactions.
//
// Mutations take the acting user so an implementation never changes a row the
// caller does not own, even if the service check were bypassed.
type Repository interface {
	// ListByTitle returns every feedback (top-level and replies) for a title.
	ListByTitle(context context.Context, title string) ([]*Feedback, error)

	// ListAll returns top-level feedback across all titles with reply counts.
	ListAll(context context.Context, sort ListSort, limit, offset int) ([]*Feedback, int, error)

	// ListRatings returns every non-zero rating.
	ListRatings(context context.Context) ([]Rating, error)

	FindByID(context context.Context, id string) (*Feedback, error)
	Insert(context context.Context, feedback *Feedback) error

	// Update changes the comment of a feedback owned by ownerID.
	Update(context context.Context, id, ownerID, comment string) (*Feedback, error)

	// Delete removes a feedback owned by ownerID (and its replies).
	Delete(context context.Context, id, ownerID string) error

	// InsertReaction records a reaction and bumps the matching counter
	// atomically. A repeat returns [ErrAlreadyReacted].
	InsertReaction(context context.Context, reaction Reaction) error
}
