package inkpress

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/eringen/inkpress/frontmatter"
)

// Store is a SQLite index over the content directory. The .md files stay
// authoritative; Reindex rebuilds the table from a loaded Library, and
// reads rehydrate posts from the stored source document so nothing is
// lost between the file and the index.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    tags TEXT NOT NULL,
    draft INTEGER NOT NULL DEFAULT 0,
    doc BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

// Reindex replaces the post index with the contents of lib in one
// transaction, so readers never observe a half-built index.
func (s *Store) Reindex(lib *Library) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM posts`); err != nil {
		return err
	}
	for _, p := range lib.Posts {
		doc, err := frontmatter.Serialize(p.Meta, []byte(p.Body))
		if err != nil {
			return fmt.Errorf("index %s: %w", p.Path, err)
		}
		draft := 0
		if p.Draft {
			draft = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO posts (slug, path, title, date, tags, draft, doc) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.Slug, p.Path, p.Title, p.Date.UTC().Format(time.RFC3339), encodeTags(p.Tags), draft, doc,
		); err != nil {
			return fmt.Errorf("index %s: %w", p.Path, err)
		}
	}
	return tx.Commit()
}

// ListPosts returns all published posts ordered by date descending.
// If tag is non-empty, results are filtered to posts containing that tag.
func (s *Store) ListPosts(tag string) ([]Post, error) {
	var rows *sql.Rows
	var err error
	if tag == "" {
		rows, err = s.db.Query(`SELECT path, doc FROM posts WHERE draft = 0 ORDER BY date DESC`)
	} else {
		rows, err = s.db.Query(
			`SELECT path, doc FROM posts WHERE draft = 0 AND instr(lower(tags), ',' || ? || ',') > 0 ORDER BY date DESC`,
			normalizeTag(tag),
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// ListAllPosts returns every post (published and drafts) ordered by date descending.
func (s *Store) ListAllPosts() ([]Post, error) {
	rows, err := s.db.Query(`SELECT path, doc FROM posts ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// ListTags returns a sorted, deduplicated slice of all tags from published posts.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM posts WHERE draft = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range decodeTags(tags) {
			set[normalizeTag(t)] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var result []string
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetPost returns a single published post by slug.
func (s *Store) GetPost(slug string) (Post, error) {
	return s.getPost(slug, true)
}

// GetPostAny returns a post by slug regardless of draft status (for admin).
func (s *Store) GetPostAny(slug string) (Post, error) {
	return s.getPost(slug, false)
}

func (s *Store) getPost(slug string, publishedOnly bool) (Post, error) {
	q := `SELECT path, doc FROM posts WHERE slug = ?`
	if publishedOnly {
		q += ` AND draft = 0`
	}
	var path string
	var doc []byte
	if err := s.db.QueryRow(q, slug).Scan(&path, &doc); err != nil {
		return Post{}, err
	}
	return buildPost(path, doc)
}

func scanPosts(rows *sql.Rows) ([]Post, error) {
	var posts []Post
	for rows.Next() {
		var path string
		var doc []byte
		if err := rows.Scan(&path, &doc); err != nil {
			return nil, err
		}
		p, err := buildPost(path, doc)
		if err != nil {
			return nil, fmt.Errorf("corrupt index row %s: %w", path, err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// encodeTags stores tags as ",a,b," so instr() can match whole tags.
func encodeTags(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if tag := normalizeTag(t); tag != "" {
			normalized = append(normalized, tag)
		}
	}
	if len(normalized) == 0 {
		return ","
	}
	return "," + strings.Join(normalized, ",") + ","
}

func decodeTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// SaveImage upserts an uploaded image's metadata.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt,
	)
	return err
}

// ListImages returns uploaded images, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes an image's metadata row.
func (s *Store) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}
