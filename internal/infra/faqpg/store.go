// Package faqpg persists FAQ snapshots in Postgres with pgvector embeddings.
//
// Expected schema:
//
//	CREATE EXTENSION IF NOT EXISTS vector;
//	CREATE TABLE IF NOT EXISTS faqs (
//	    position  INT PRIMARY KEY,
//	    question  TEXT NOT NULL,
//	    answer    TEXT NOT NULL,
//	    category  TEXT NOT NULL DEFAULT '',
//	    embedding VECTOR
//	);
package faqpg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/campushelp/faqbot/internal/domain/faq"
)

// Store implements faq.Snapshotter using a pgx pool. Save replaces every row
// in one transaction; Load returns rows in positional order together with
// their stored embeddings so startup can skip the full rebuild.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs the Postgres snapshotter.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Load implements faq.Snapshotter.
func (s *Store) Load(ctx context.Context) (faq.Snapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT question, answer, category, embedding
		FROM faqs
		ORDER BY position
	`)
	if err != nil {
		return faq.Snapshot{}, fmt.Errorf("query faqs: %w", err)
	}
	defer rows.Close()

	var (
		snap       faq.Snapshot
		allVectors = true
	)
	for rows.Next() {
		var (
			rec faq.Record
			emb *pgvector.Vector
		)
		if err := rows.Scan(&rec.Question, &rec.Answer, &rec.Category, &emb); err != nil {
			return faq.Snapshot{}, fmt.Errorf("scan faq row: %w", err)
		}
		snap.Records = append(snap.Records, rec)
		if emb == nil {
			allVectors = false
			continue
		}
		snap.Vectors = append(snap.Vectors, emb.Slice())
	}
	if err := rows.Err(); err != nil {
		return faq.Snapshot{}, fmt.Errorf("read faq rows: %w", err)
	}
	if !allVectors {
		// A single missing embedding invalidates the whole cached index.
		snap.Vectors = nil
	}
	return snap, nil
}

// Save implements faq.Snapshotter.
func (s *Store) Save(ctx context.Context, snap faq.Snapshot) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin faq tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM faqs`); err != nil {
		return fmt.Errorf("clear faqs: %w", err)
	}
	for i, rec := range snap.Records {
		var emb any
		if i < len(snap.Vectors) && len(snap.Vectors[i]) > 0 {
			emb = pgvector.NewVector(snap.Vectors[i])
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO faqs (position, question, answer, category, embedding)
			VALUES ($1, $2, $3, $4, $5)
		`, i, rec.Question, rec.Answer, rec.Category, emb); err != nil {
			return fmt.Errorf("insert faq row %d: %w", i, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit faq tx: %w", err)
	}
	return nil
}

var _ faq.Snapshotter = (*Store)(nil)
