package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type seqQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NextSeq atomically advances and returns the counter for a document kind.
// Scope partitions the counter (0 for a single global counter, a
// subcategory id for product codes). The upsert is race-free: concurrent
// callers each receive a distinct value, unlike a MAX(id)+1 read.
func NextSeq(ctx context.Context, q seqQuerier, kind string, scope int64) (int64, error) {
	var seq int64
	err := q.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_type, scope, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, scope)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq
	`, kind, scope).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("platform/db: next sequence %s/%d: %w", kind, scope, err)
	}
	return seq, nil
}
