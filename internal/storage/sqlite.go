// Structured store on SQLite. Point lookups by identity key, keyed upserts
// that keep the first-seen publish date, and a ranked query for reports.

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	_ "modernc.org/sqlite"

	"go-leadscout/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS posts (
	identity_key  TEXT PRIMARY KEY,
	url           TEXT,
	author_name   TEXT,
	author_url    TEXT,
	author_title  TEXT,
	text          TEXT NOT NULL,
	published_at  TEXT NOT NULL,
	source        TEXT,
	source_term   TEXT,
	matched_keywords TEXT,
	score         INTEGER NOT NULL DEFAULT 0,
	likes         INTEGER NOT NULL DEFAULT 0,
	comments      INTEGER NOT NULL DEFAULT 0,
	collected_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_rank ON posts(score DESC, published_at DESC);
`

// Store wraps the SQLite database. Upserts are serialized by a mutex: the
// store is the one resource mutated across runs, and a scheduled run must
// not interleave writes with a manually triggered one.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenStore opens (or creates) the database at path and ensures the schema.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert writes one post. If the identity key exists already, mutable fields
// (text, score, engagement, matched keywords, collected_at) are refreshed
// and the first-seen published_at is kept. Each post is its own transaction,
// so a cancelled run never leaves a half-written row. updated reports
// whether the row existed before.
func (s *Store) Upsert(ctx context.Context, post *models.Post) (updated bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE identity_key = ?`, post.IdentityKey).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("check existing post: %w", err)
	}
	updated = err == nil

	_, err = tx.ExecContext(ctx, `
		INSERT INTO posts (identity_key, url, author_name, author_url, author_title,
			text, published_at, source, source_term, matched_keywords,
			score, likes, comments, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (identity_key) DO UPDATE SET
			text = excluded.text,
			author_name = excluded.author_name,
			author_url = excluded.author_url,
			author_title = excluded.author_title,
			source = excluded.source,
			source_term = excluded.source_term,
			matched_keywords = excluded.matched_keywords,
			score = excluded.score,
			likes = excluded.likes,
			comments = excluded.comments,
			collected_at = excluded.collected_at`,
		post.IdentityKey,
		post.URL,
		post.AuthorName,
		post.AuthorURL,
		post.AuthorTitle,
		post.Text,
		post.PublishedAt.UTC().Format(time.RFC3339),
		string(post.Source),
		post.SourceTerm,
		strings.Join(post.MatchedList(), ";"),
		post.Score,
		post.Likes,
		post.Comments,
		post.CollectedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("upsert post %s: %w", post.IdentityKey, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit upsert: %w", err)
	}
	return updated, nil
}

// SeenKeys returns every stored identity key. Useful for inspecting how
// much of a batch was already known before the run.
func (s *Store) SeenKeys(ctx context.Context) (mapset.Set[string], error) {
	rows, err := s.db.QueryContext(ctx, `SELECT identity_key FROM posts`)
	if err != nil {
		return nil, fmt.Errorf("query seen keys: %w", err)
	}
	defer rows.Close()

	keys := mapset.NewSet[string]()
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan identity key: %w", err)
		}
		keys.Add(key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seen keys: %w", err)
	}
	return keys, nil
}

// GetPost looks one post up by identity key.
func (s *Store) GetPost(ctx context.Context, key string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT identity_key, url, author_name, author_url, author_title,
			text, published_at, source, source_term, matched_keywords,
			score, likes, comments, collected_at
		FROM posts WHERE identity_key = ?`, key)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post %s not found", key)
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", key, err)
	}
	return post, nil
}

// TopPosts returns up to n posts in ranked order.
func (s *Store) TopPosts(ctx context.Context, n int) ([]*models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT identity_key, url, author_name, author_url, author_title,
			text, published_at, source, source_term, matched_keywords,
			score, likes, comments, collected_at
		FROM posts
		ORDER BY score DESC, published_at DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query top posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post                     models.Post
		publishedAt, collectedAt string
		source, matched          string
	)
	err := row.Scan(
		&post.IdentityKey, &post.URL, &post.AuthorName, &post.AuthorURL, &post.AuthorTitle,
		&post.Text, &publishedAt, &source, &post.SourceTerm, &matched,
		&post.Score, &post.Likes, &post.Comments, &collectedAt,
	)
	if err != nil {
		return nil, err
	}

	post.Source = models.QuerySource(source)
	if post.PublishedAt, err = time.Parse(time.RFC3339, publishedAt); err != nil {
		return nil, fmt.Errorf("parse published_at %q: %w", publishedAt, err)
	}
	if post.CollectedAt, err = time.Parse(time.RFC3339, collectedAt); err != nil {
		return nil, fmt.Errorf("parse collected_at %q: %w", collectedAt, err)
	}

	post.MatchedKeywords = mapset.NewSet[string]()
	for _, term := range strings.Split(matched, ";") {
		if term != "" {
			post.MatchedKeywords.Add(term)
		}
	}
	return &post, nil
}
