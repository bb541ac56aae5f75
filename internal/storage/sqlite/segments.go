package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sandevgo/pdfchat/internal/core"
)

// SegmentStore keeps the segments of one index in a session-private database.
type SegmentStore struct {
	db *sql.DB
}

func NewSegmentStore(ctx context.Context) (*SegmentStore, error) {
	db, err := NewMemoryDB(ctx)
	if err != nil {
		return nil, err
	}
	return &SegmentStore{db: db}, nil
}

func (s *SegmentStore) Put(ctx context.Context, segments []core.Segment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(ord) + 1, 0) FROM segments`).Scan(&next); err != nil {
		return fmt.Errorf("failed to read order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO segments (id, ord, source, page, position, text, token_count) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, seg := range segments {
		if _, err := stmt.ExecContext(ctx, seg.ID, next+i, seg.Source, seg.Page, seg.Position, seg.Text, seg.TokenCount); err != nil {
			return fmt.Errorf("failed to insert segment %s: %w", seg.ID, err)
		}
	}

	return tx.Commit()
}

// Get returns the segments for ids in the order of ids. Unknown ids are an error.
func (s *SegmentStore) Get(ctx context.Context, ids []string) ([]core.Segment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, source, page, position, text, token_count FROM segments WHERE id IN (?` +
		strings.Repeat(",?", len(ids)-1) + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	found, err := scanSegments(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]core.Segment, len(found))
	for _, seg := range found {
		byID[seg.ID] = seg
	}

	out := make([]core.Segment, 0, len(ids))
	for _, id := range ids {
		seg, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("segment %s not found", id)
		}
		out = append(out, seg)
	}
	return out, nil
}

// All returns every segment in insertion order.
func (s *SegmentStore) All(ctx context.Context) ([]core.Segment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, page, position, text, token_count FROM segments ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	return scanSegments(rows)
}

func (s *SegmentStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM segments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count segments: %w", err)
	}
	return n, nil
}

func (s *SegmentStore) Close() error {
	return s.db.Close()
}

func scanSegments(rows *sql.Rows) ([]core.Segment, error) {
	var out []core.Segment
	for rows.Next() {
		var seg core.Segment
		if err := rows.Scan(&seg.ID, &seg.Source, &seg.Page, &seg.Position, &seg.Text, &seg.TokenCount); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		out = append(out, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
