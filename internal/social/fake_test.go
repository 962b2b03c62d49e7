// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/bolgeo/internal/social"
)

type reactionKey struct{ userID, feedbackID string }

// memoryRepository is an in-memory [social.Repository] with the same
// ownership and uniqueness rules as the PostgreSQL implementation.
type memoryRepository struct {
	mu        sync.Mutex
	rows      map[string]*social.Feedback
	order     []string
	reactions map[reactionKey]social.ReactionType
	clock     time.Time
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		rows:      make(map[string]*social.Feedback),
		reactions: make(map[reactionKey]social.ReactionType),
		clock:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryRepository) ListByTitle(_ context.Context, title string) ([]*social.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*social.Feedback{}
	for _, id := range m.order {
		if row := m.rows[id]; row.WebtoonTitle == title {
			clone := *row
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memoryRepository) ListAll(_ context.Context, sortBy social.ListSort, limit, offset int) ([]*social.Feedback, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	replies := make(map[string]int)
	top := []*social.Feedback{}
	for _, id := range m.order {
		row := m.rows[id]
		if row.ParentID != nil {
			replies[*row.ParentID]++
			continue
		}
		clone := *row
		top = append(top, &clone)
	}
	for _, row := range top {
		row.ReplyCount = replies[row.ID]
	}

	sort.SliceStable(top, func(i, j int) bool {
		if sortBy == social.SortLikes && top[i].Likes != top[j].Likes {
			return top[i].Likes > top[j].Likes
		}
		return top[i].CreatedAt.After(top[j].CreatedAt)
	})

	total := len(top)
	if offset > total {
		offset = total
	}
	end := min(offset+limit, total)
	return top[offset:end], total, nil
}

func (m *memoryRepository) ListRatings(_ context.Context) ([]social.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ratings := []social.Rating{}
	for _, id := range m.order {
		if row := m.rows[id]; row.Rating > 0 {
			ratings = append(ratings, social.Rating{WebtoonTitle: row.WebtoonTitle, Value: row.Rating})
		}
	}
	return ratings, nil
}

func (m *memoryRepository) FindByID(_ context.Context, id string) (*social.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok {
		return nil, social.ErrFeedbackNotFound
	}
	clone := *row
	return &clone, nil
}

func (m *memoryRepository) Insert(_ context.Context, feedback *social.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clock = m.clock.Add(time.Minute)
	feedback.CreatedAt = m.clock
	feedback.UpdatedAt = m.clock

	clone := *feedback
	m.rows[feedback.ID] = &clone
	m.order = append(m.order, feedback.ID)
	return nil
}

func (m *memoryRepository) Update(_ context.Context, id, ownerID, comment string) (*social.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok || !row.OwnedBy(ownerID) {
		return nil, social.ErrFeedbackNotFound
	}
	row.Comment = comment
	clone := *row
	return &clone, nil
}

func (m *memoryRepository) Delete(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok || !row.OwnedBy(ownerID) {
		return social.ErrFeedbackNotFound
	}

	kept := m.order[:0]
	for _, existing := range m.order {
		candidate := m.rows[existing]
		if existing == id || (candidate.ParentID != nil && *candidate.ParentID == id) {
			delete(m.rows, existing)
			continue
		}
		kept = append(kept, existing)
	}
	m.order = kept
	return nil
}

func (m *memoryRepository) InsertReaction(_ context.Context, reaction social.Reaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[reaction.FeedbackID]
	if !ok {
		return social.ErrFeedbackNotFound
	}

	key := reactionKey{reaction.UserID, reaction.FeedbackID}
	if _, exists := m.reactions[key]; exists {
		return social.ErrAlreadyReacted
	}
	m.reactions[key] = reaction.Type

	if reaction.Type == social.ReactionDislike {
		row.Dislikes++
	} else {
		row.Likes++
	}
	return nil
}

func (m *memoryRepository) reactionCount(userID, feedbackID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reactions[reactionKey{userID, feedbackID}]; ok {
		return 1
	}
	return 0
}

type recordedReview struct {
	userID, title string
	rating        float64
}

type reviewRecorder struct {
	reviews []recordedReview
}

func (r *reviewRecorder) RecordReview(_ context.Context, userID, title string, rating float64, _ string) error {
	r.reviews = append(r.reviews, recordedReview{userID, title, rating})
	return nil
}
