// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bolgeo/internal/platform/database/schema"
	"github.com/taibuivan/bolgeo/internal/platform/dberr"
	"github.com/taibuivan/bolgeo/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on the 'webtoons' table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Sync writes all entries in one transaction using a pgx batch.
func (repository *PostgresRepository) Sync(context context.Context, entries []Entry) (int64, error) {
	upsertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = NOW()
	`,
		schema.Webtoons.Table,
		schema.Webtoons.Title, schema.Webtoons.Platform, schema.Webtoons.Genres,
		schema.Webtoons.Status, schema.Webtoons.ReferenceScore, schema.Webtoons.Position, schema.Webtoons.SyncedAt,
		schema.Webtoons.Title,
		schema.Webtoons.Platform, schema.Webtoons.Platform,
		schema.Webtoons.Genres, schema.Webtoons.Genres,
		schema.Webtoons.Status, schema.Webtoons.Status,
		schema.Webtoons.ReferenceScore, schema.Webtoons.ReferenceScore,
		schema.Webtoons.Position, schema.Webtoons.Position,
		schema.Webtoons.SyncedAt,
	)

	pruneQuery := fmt.Sprintf(`DELETE FROM %s WHERE NOT (%s = ANY($1))`,
		schema.Webtoons.Table, schema.Webtoons.Title,
	)

	titles := make([]string, len(entries))
	var removed int64

	err := postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for position, entry := range entries {
			titles[position] = entry.Title
			batch.Queue(upsertQuery, entry.Title, entry.Platform, entry.Genres, entry.Status, entry.ReferenceScore, position+1)
		}

		if err := tx.SendBatch(context, batch).Close(); err != nil {
			return dberr.Wrap(err, "sync_webtoons_upsert")
		}

		tag, err := tx.Exec(context, pruneQuery, titles)
		if err != nil {
			return dberr.Wrap(err, "sync_webtoons_prune")
		}
		removed = tag.RowsAffected()
		return nil
	})

	return removed, err
}
