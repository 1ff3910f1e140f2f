// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists papers, search history, interest scores, chat
// logs, and download records in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hewansirak/tutormate/pkg/types"
)

const defaultDBPath = "data/tutormate.db"

// Store manages the assistant's SQLite database.
type Store struct {
	db *sql.DB
}

// New opens or creates the database at cfg.Path and creates the schema if
// it does not exist.
func New(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultDBPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cached_papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			paper_id TEXT UNIQUE,
			title TEXT,
			authors TEXT,
			year INTEGER,
			abstract TEXT,
			url TEXT,
			summary TEXT,
			search_query TEXT,
			cached_date DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS search_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			query TEXT NOT NULL,
			search_type TEXT DEFAULT 'academic',
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS user_interests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			interest_score INTEGER DEFAULT 1,
			last_accessed DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, topic)
		)`,
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			message TEXT,
			response TEXT,
			function_calls TEXT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			paper_id TEXT NOT NULL,
			file_path TEXT,
			arxiv_id TEXT,
			file_size INTEGER,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_user ON search_history(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_downloads_user ON downloads(user_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CachePaper upserts a paper keyed by its cache identifier. Re-caching a
// paper refreshes its metadata but leaves an existing summary untouched,
// so a summary is never regenerated because of a repeat search.
func (s *Store) CachePaper(ctx context.Context, p types.Paper) error {
	authorsJSON, _ := json.Marshal(p.Authors)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cached_papers (paper_id, title, authors, year, abstract, url, search_query)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(paper_id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, year=excluded.year,
			abstract=excluded.abstract, url=excluded.url,
			search_query=excluded.search_query,
			cached_date=CURRENT_TIMESTAMP`,
		p.ID, p.Title, string(authorsJSON), p.Year, p.Abstract, p.URL, p.SearchQuery,
	)
	if err != nil {
		return fmt.Errorf("upserting paper %s: %w", p.ID, err)
	}
	return nil
}

// Paper returns the cached paper with the given identifier, or nil when it
// is not cached.
func (s *Store) Paper(ctx context.Context, paperID string) (*types.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT paper_id, title, authors, year, abstract, url, summary, search_query
		 FROM cached_papers WHERE paper_id = ?`, paperID)

	var p types.Paper
	var authorsJSON string
	var summary, searchQuery sql.NullString
	err := row.Scan(&p.ID, &p.Title, &authorsJSON, &p.Year, &p.Abstract, &p.URL, &summary, &searchQuery)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading paper %s: %w", paperID, err)
	}

	if authorsJSON != "" {
		if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors for %s: %w", paperID, err)
		}
	}
	p.Summary = summary.String
	p.SearchQuery = searchQuery.String
	return &p, nil
}

// SaveSummary stores the generated summary for a cached paper.
func (s *Store) SaveSummary(ctx context.Context, paperID, summary string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE cached_papers SET summary = ? WHERE paper_id = ?`, summary, paperID)
	if err != nil {
		return fmt.Errorf("saving summary for %s: %w", paperID, err)
	}
	return nil
}

// LogSearch appends a search-history row.
func (s *Store) LogSearch(ctx context.Context, userID, query, searchType string) error {
	if searchType == "" {
		searchType = "academic"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_history (user_id, query, search_type) VALUES (?, ?, ?)`,
		userID, query, searchType)
	if err != nil {
		return fmt.Errorf("logging search: %w", err)
	}
	return nil
}

// BumpInterest increments the interest counter for (user, topic),
// creating it at one on first sight. Topics are stored lowercased.
func (s *Store) BumpInterest(ctx context.Context, userID, topic string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_interests (user_id, topic, interest_score, last_accessed)
		 VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		 ON CONFLICT(user_id, topic) DO UPDATE SET
			interest_score = interest_score + 1,
			last_accessed = CURRENT_TIMESTAMP`,
		userID, strings.ToLower(topic))
	if err != nil {
		return fmt.Errorf("updating interest %q: %w", topic, err)
	}
	return nil
}

// SearchHistory returns the user's searches, most recent first.
func (s *Store) SearchHistory(ctx context.Context, userID string, limit int) ([]types.SearchHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT query, search_type, timestamp FROM search_history
		 WHERE user_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("reading search history: %w", err)
	}
	defer rows.Close()

	var entries []types.SearchHistoryEntry
	for rows.Next() {
		var e types.SearchHistoryEntry
		if err := rows.Scan(&e.Query, &e.SearchType, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Interests returns the user's interest scores ordered by score, then
// recency, both descending.
func (s *Store) Interests(ctx context.Context, userID string, limit int) ([]types.Interest, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT topic, interest_score, last_accessed FROM user_interests
		 WHERE user_id = ? ORDER BY interest_score DESC, last_accessed DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("reading interests: %w", err)
	}
	defer rows.Close()

	var interests []types.Interest
	for rows.Next() {
		var i types.Interest
		if err := rows.Scan(&i.Topic, &i.Score, &i.LastAccessed); err != nil {
			return nil, fmt.Errorf("scanning interest row: %w", err)
		}
		interests = append(interests, i)
	}
	return interests, rows.Err()
}

// LogChat appends a chat-session row. Handler names are stored as a JSON
// array.
func (s *Store) LogChat(ctx context.Context, userID, message, response string, handlers []string) error {
	if handlers == nil {
		handlers = []string{}
	}
	handlersJSON, _ := json.Marshal(handlers)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (user_id, message, response, function_calls)
		 VALUES (?, ?, ?, ?)`,
		userID, message, response, string(handlersJSON))
	if err != nil {
		return fmt.Errorf("logging chat session: %w", err)
	}
	return nil
}

// LogDownload appends a download record.
func (s *Store) LogDownload(ctx context.Context, rec types.DownloadRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO downloads (user_id, paper_id, file_path, arxiv_id, file_size)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.UserID, rec.PaperID, rec.FilePath, rec.ArxivID, rec.FileSize)
	if err != nil {
		return fmt.Errorf("logging download: %w", err)
	}
	return nil
}

// Downloads returns the user's download records, most recent first.
func (s *Store) Downloads(ctx context.Context, userID string, limit int) ([]types.DownloadRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, paper_id, file_path, arxiv_id, file_size, timestamp
		 FROM downloads WHERE user_id = ?
		 ORDER BY timestamp DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("reading downloads: %w", err)
	}
	defer rows.Close()

	var records []types.DownloadRecord
	for rows.Next() {
		var r types.DownloadRecord
		if err := rows.Scan(&r.UserID, &r.PaperID, &r.FilePath, &r.ArxivID, &r.FileSize, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning download row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecentPapers lists the most recently cached papers, for the debug
// endpoint.
func (s *Store) RecentPapers(ctx context.Context, limit int) ([]types.Paper, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT paper_id, title FROM cached_papers
		 ORDER BY cached_date DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("reading cached papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var p types.Paper
		if err := rows.Scan(&p.ID, &p.Title); err != nil {
			return nil, fmt.Errorf("scanning paper row: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
