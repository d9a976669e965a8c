// Package store persists analysis output to Postgres. Upserts are
// last-write-wins keyed by (source_file, bucket); re-running an analysis
// overwrites, never accumulates. Failures are surfaced to the caller
// verbatim with no retry.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against databaseURL and verifies connectivity.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
create table if not exists swear_bucket (
	source_file text    not null,
	bucket      text    not null,
	count       integer not null,
	tokens      text[]  not null,
	primary key (source_file, bucket)
);

create table if not exists dialogue_line (
	source_file text    not null,
	line_index  integer not null,
	speaker     text,
	mode        text,
	text        text    not null default '',
	raw         jsonb
);
`

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertSwearBucket writes one non-empty bucket record, overwriting any
// prior record for the same (source_file, bucket) key.
func (s *Store) UpsertSwearBucket(ctx context.Context, sourceFile, bucket string, count int, tokens []string) error {
	const q = `
insert into swear_bucket (source_file, bucket, count, tokens)
values ($1, $2, $3, $4)
on conflict (source_file, bucket)
do update set
	count  = excluded.count,
	tokens = excluded.tokens`
	if _, err := s.pool.Exec(ctx, q, sourceFile, bucket, count, tokens); err != nil {
		return fmt.Errorf("upsert swear bucket %s/%s: %w", sourceFile, bucket, err)
	}
	return nil
}

// BucketRecord is one persisted bucket row.
type BucketRecord struct {
	SourceFile string   `json:"source_file"`
	Bucket     string   `json:"bucket"`
	Count      int      `json:"count"`
	Tokens     []string `json:"tokens"`
}

// ListSwearBuckets returns the persisted buckets for one source document.
func (s *Store) ListSwearBuckets(ctx context.Context, sourceFile string) ([]BucketRecord, error) {
	const q = `
select source_file, bucket, count, tokens
from swear_bucket
where source_file = $1
order by bucket`
	rows, err := s.pool.Query(ctx, q, sourceFile)
	if err != nil {
		return nil, fmt.Errorf("list swear buckets %s: %w", sourceFile, err)
	}
	defer rows.Close()

	var records []BucketRecord
	for rows.Next() {
		var r BucketRecord
		if err := rows.Scan(&r.SourceFile, &r.Bucket, &r.Count, &r.Tokens); err != nil {
			return nil, fmt.Errorf("scan swear bucket: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list swear buckets %s: %w", sourceFile, err)
	}
	return records, nil
}

// InsertDialogueLine appends one dialogue record for a source document.
// raw is the original JSONL line, stored as jsonb for audit.
func (s *Store) InsertDialogueLine(ctx context.Context, sourceFile string, lineIndex int, speaker, mode, text string, raw []byte) error {
	const q = `
insert into dialogue_line (source_file, line_index, speaker, mode, text, raw)
values ($1, $2, $3, $4, $5, $6)`
	if _, err := s.pool.Exec(ctx, q, sourceFile, lineIndex, speaker, mode, text, raw); err != nil {
		return fmt.Errorf("insert dialogue line %s/%d: %w", sourceFile, lineIndex, err)
	}
	return nil
}
