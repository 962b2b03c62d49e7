// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

import "github.com/taibuivan/bolgeo/internal/platform/apperr"

var (
	// ErrFeedbackNotFound is returned when a feedback id does not exist.
	ErrFeedbackNotFound = apperr.NotFound("Feedback")

	// ErrAlreadyReacted is returned for a second reaction on the same feedback.
	ErrAlreadyReacted = apperr.Conflict("already reacted")

	// ErrNotOwner is returned when a user edits or deletes someone else's feedback.
	ErrNotOwner = apperr.Forbidden("Only the author can change this feedback")

	// ErrNestedReply is returned when replying to a reply.
	ErrNestedReply = apperr.ValidationError("Replies cannot be nested",
		apperr.FieldError{Field: FieldParentID, Message: "Parent must be a top-level feedback"},
	)
)
