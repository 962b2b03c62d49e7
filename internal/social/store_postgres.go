// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bolgeo/internal/platform/database/schema"
	"github.com/taibuivan/bolgeo/internal/platform/dberr"
	"github.com/taibuivan/bolgeo/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on the 'feedbacks' and
// 'reaction_logs' tables.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// feedbackColumns is the SELECT list matching [scanFeedback], prefixed with alias f.
var feedbackColumns = fmt.Sprintf(`f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s`,
	schema.Feedbacks.ID, schema.Feedbacks.WebtoonTitle, schema.Feedbacks.UserID, schema.Feedbacks.ParentID,
	schema.Feedbacks.Rating, schema.Feedbacks.Comment, schema.Feedbacks.Likes, schema.Feedbacks.Dislikes,
	schema.Feedbacks.CreatedAt, schema.Feedbacks.UpdatedAt,
)

func scanFeedback(row pgx.Row, extra ...any) (*Feedback, error) {
	f := &Feedback{}
	targets := append([]any{
		&f.ID, &f.WebtoonTitle, &f.UserID, &f.ParentID,
		&f.Rating, &f.Comment, &f.Likes, &f.Dislikes,
		&f.CreatedAt, &f.UpdatedAt,
	}, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return f, nil
}

func (repository *PostgresRepository) ListByTitle(context context.Context, title string) ([]*Feedback, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s f
		WHERE f.%s = $1
		ORDER BY f.%s ASC
	`,
		feedbackColumns, schema.Feedbacks.Table, schema.Feedbacks.WebtoonTitle, schema.Feedbacks.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, title)
	if err != nil {
		return nil, dberr.Wrap(err, "list_feedbacks_by_title")
	}
	defer rows.Close()

	feedbacks := []*Feedback{}
	for rows.Next() {
		feedback, err := scanFeedback(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_feedback")
		}
		feedbacks = append(feedbacks, feedback)
	}

	return feedbacks, dberr.Wrap(rows.Err(), "list_feedbacks_by_title")
}

func (repository *PostgresRepository) ListAll(context context.Context, sort ListSort, limit, offset int) ([]*Feedback, int, error) {
	orderBy := fmt.Sprintf("f.%s DESC", schema.Feedbacks.CreatedAt)
	if sort == SortLikes {
		orderBy = fmt.Sprintf("f.%s DESC, f.%s DESC", schema.Feedbacks.Likes, schema.Feedbacks.CreatedAt)
	}

	query := fmt.Sprintf(`
		SELECT %s,
			(SELECT count(*) FROM %s r WHERE r.%s = f.%s) AS reply_count
		FROM %s f
		WHERE f.%s IS NULL
		ORDER BY %s
		LIMIT $1 OFFSET $2
	`,
		feedbackColumns,
		schema.Feedbacks.Table, schema.Feedbacks.ParentID, schema.Feedbacks.ID,
		schema.Feedbacks.Table, schema.Feedbacks.ParentID,
		orderBy,
	)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s IS NULL`,
		schema.Feedbacks.Table, schema.Feedbacks.ParentID,
	)

	var total int
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_feedbacks")
	}

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_feedbacks")
	}
	defer rows.Close()

	feedbacks := []*Feedback{}
	for rows.Next() {
		var replyCount int
		feedback, err := scanFeedback(rows, &replyCount)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_feedback")
		}
		feedback.ReplyCount = replyCount
		feedbacks = append(feedbacks, feedback)
	}

	return feedbacks, total, dberr.Wrap(rows.Err(), "list_feedbacks")
}

func (repository *PostgresRepository) ListRatings(context context.Context) ([]Rating, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s > 0`,
		schema.Feedbacks.WebtoonTitle, schema.Feedbacks.Rating, schema.Feedbacks.Table, schema.Feedbacks.Rating,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_ratings")
	}

	ratings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Rating, error) {
		var rating Rating
		err := row.Scan(&rating.WebtoonTitle, &rating.Value)
		return rating, err
	})
	return ratings, dberr.Wrap(err, "list_ratings")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Feedback, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s f WHERE f.%s = $1`,
		feedbackColumns, schema.Feedbacks.Table, schema.Feedbacks.ID,
	)

	feedback, err := scanFeedback(repository.db.QueryRow(context, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFeedbackNotFound
	}
	return feedback, dberr.Wrap(err, "find_feedback")
}

func (repository *PostgresRepository) Insert(context context.Context, feedback *Feedback) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.Feedbacks.Table,
		schema.Feedbacks.ID, schema.Feedbacks.WebtoonTitle, schema.Feedbacks.UserID, schema.Feedbacks.ParentID,
		schema.Feedbacks.Rating, schema.Feedbacks.Comment, schema.Feedbacks.CreatedAt, schema.Feedbacks.UpdatedAt,
		schema.Feedbacks.CreatedAt, schema.Feedbacks.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		feedback.ID, feedback.WebtoonTitle, feedback.UserID, feedback.ParentID, feedback.Rating, feedback.Comment,
	).Scan(&feedback.CreatedAt, &feedback.UpdatedAt)

	return dberr.Wrap(err, "insert_feedback")
}

func (repository *PostgresRepository) Update(context context.Context, id, ownerID, comment string) (*Feedback, error) {
	query := fmt.Sprintf(`
		UPDATE %s f
		SET %s = $3, %s = NOW()
		WHERE f.%s = $1 AND f.%s = $2
		RETURNING %s
	`,
		schema.Feedbacks.Table,
		schema.Feedbacks.Comment, schema.Feedbacks.UpdatedAt,
		schema.Feedbacks.ID, schema.Feedbacks.UserID,
		feedbackColumns,
	)

	feedback, err := scanFeedback(repository.db.QueryRow(context, query, id, ownerID, comment))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFeedbackNotFound
	}
	return feedback, dberr.Wrap(err, "update_feedback")
}

func (repository *PostgresRepository) Delete(context context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Feedbacks.Table, schema.Feedbacks.ID, schema.Feedbacks.UserID,
	)

	cmd, err := repository.db.Exec(context, query, id, ownerID)
	if err != nil {
		return dberr.Wrap(err, "delete_feedback")
	}

	if cmd.RowsAffected() == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

func (repository *PostgresRepository) InsertReaction(context context.Context, reaction Reaction) error {
	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.ReactionLogs.Table, schema.ReactionLogs.UserID, schema.ReactionLogs.FeedbackID, schema.ReactionLogs.ReactionType,
	)

	counter := schema.Feedbacks.Likes
	if reaction.Type == ReactionDislike {
		counter = schema.Feedbacks.Dislikes
	}
	bumpQuery := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		schema.Feedbacks.Table, counter, counter, schema.Feedbacks.ID,
	)

	return postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, insertQuery, reaction.UserID, reaction.FeedbackID, string(reaction.Type)); err != nil {
			if dberr.IsUniqueViolation(err, schema.ReactionLogs.UniqueUserFeedback) {
				return ErrAlreadyReacted
			}
			var pgError *pgconn.PgError
			if errors.As(err, &pgError) && pgError.Code == pgerrcode.ForeignKeyViolation {
				return ErrFeedbackNotFound
			}
			return dberr.Wrap(err, "insert_reaction")
		}

		cmd, err := tx.Exec(context, bumpQuery, reaction.FeedbackID)
		if err != nil {
			return dberr.Wrap(err, "bump_reaction_counter")
		}
		if cmd.RowsAffected() == 0 {
			return ErrFeedbackNotFound
		}
		return nil
	})
}
