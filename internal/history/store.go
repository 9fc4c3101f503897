// Package history keeps a local SQLite log of every analysis the host
// answered, with per-platform aggregates for the history command.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/policywatch/internal/classify"
	"github.com/ppiankov/policywatch/internal/model"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	fileName   = "history.db"
	timeLayout = "2006-01-02T15:04:05.000000Z"
)

// Analysis types stored with each entry
const (
	TypePolicy  = "policy"
	TypeCompany = "company"
)

// Entry is one stored analysis
type Entry struct {
	ID             int64          `json:"id"`
	Website        string         `json:"website"`
	Company        string         `json:"company"`
	Platform       model.Platform `json:"platform"`
	AnalysisType   string         `json:"analysis_type"`
	Score          int            `json:"score"`
	HarmfulPoints  string         `json:"harmful_points"`
	WorstData      string         `json:"worst_data,omitempty"`
	Recommendation string         `json:"recommendation"`
	Source         model.Source   `json:"source"`
	Session        string         `json:"session"`
	CreatedAt      time.Time      `json:"created_at"`
}

// PlatformStat aggregates the entries of one platform
type PlatformStat struct {
	Platform     model.Platform `json:"platform"`
	Count        int            `json:"count"`
	AverageScore float64        `json:"average_score"`
	LastAnalyzed time.Time      `json:"last_analyzed"`
}

// Summary is the dashboard view over all entries
type Summary struct {
	Total          int     `json:"total"`
	UniqueWebsites int     `json:"unique_websites"`
	AverageScore   float64 `json:"average_score"`
	HighRisk       int     `json:"high_risk"`
}

// Store is a SQLite-backed history
type Store struct {
	db      *sql.DB
	path    string
	session string
	now     func() time.Time
}

// Open opens or creates the history database in dir
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	path := filepath.Join(dir, fileName)
	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// SQLite has a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:      db,
		path:    path,
		session: uuid.NewString(),
		now:     time.Now,
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if err := s.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file
func (s *Store) Path() string {
	return s.path
}

// Session identifies this process's entries
func (s *Store) Session() string {
	return s.session
}

func (s *Store) createTables(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS analysis_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		website TEXT NOT NULL,
		company_name TEXT NOT NULL DEFAULT '',
		platform TEXT NOT NULL,
		analysis_type TEXT NOT NULL,
		risk_score INTEGER NOT NULL,
		harmful_points TEXT NOT NULL,
		worst_data TEXT NOT NULL DEFAULT '',
		recommendation TEXT NOT NULL,
		source TEXT NOT NULL,
		user_session TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_created ON analysis_history(created_at);
	CREATE INDEX IF NOT EXISTS idx_history_platform ON analysis_history(platform);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Save stores e and returns its ID. Session and CreatedAt are filled in
// when empty.
func (s *Store) Save(ctx context.Context, e Entry) (int64, error) {
	if e.Session == "" {
		e.Session = s.session
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	if e.Platform == "" {
		e.Platform = model.PlatformUnknown
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_history
		(website, company_name, platform, analysis_type, risk_score, harmful_points,
		 worst_data, recommendation, source, user_session, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Website, e.Company, string(e.Platform), e.AnalysisType, e.Score, e.HarmfulPoints,
		e.WorstData, e.Recommendation, string(e.Source), e.Session, e.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert analysis: %w", err)
	}
	return res.LastInsertId()
}

// Record stores an analysis result for website
func (s *Store) Record(ctx context.Context, website string, platform model.Platform, result model.AnalysisResult) error {
	kind := TypePolicy
	if classify.Origin(website) == website {
		kind = TypeCompany
	}

	_, err := s.Save(ctx, Entry{
		Website:        website,
		Company:        classify.CompanyName(website),
		Platform:       platform,
		AnalysisType:   kind,
		Score:          result.Score,
		HarmfulPoints:  result.HarmfulPoints,
		WorstData:      result.WorstData,
		Recommendation: result.Recommendation,
		Source:         result.Source,
	})
	return err
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, website, company_name, platform, analysis_type, risk_score, harmful_points,
		       worst_data, recommendation, source, user_session, created_at
		FROM analysis_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e                Entry
			platform, source string
			created          string
		)
		if err := rows.Scan(&e.ID, &e.Website, &e.Company, &platform, &e.AnalysisType, &e.Score,
			&e.HarmfulPoints, &e.WorstData, &e.Recommendation, &source, &e.Session, &created); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Platform = model.ParsePlatform(platform)
		e.Source = model.Source(source)
		if e.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", created, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PlatformStats aggregates entries per platform, most analyzed first
func (s *Store) PlatformStats(ctx context.Context) ([]PlatformStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT platform, COUNT(*), AVG(risk_score), MAX(created_at)
		FROM analysis_history
		GROUP BY platform
		ORDER BY COUNT(*) DESC, platform ASC`)
	if err != nil {
		return nil, fmt.Errorf("query platform stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []PlatformStat
	for rows.Next() {
		var (
			st       PlatformStat
			platform string
			last     string
		)
		if err := rows.Scan(&platform, &st.Count, &st.AverageScore, &last); err != nil {
			return nil, fmt.Errorf("scan platform stats: %w", err)
		}
		st.Platform = model.ParsePlatform(platform)
		if st.LastAnalyzed, err = time.Parse(timeLayout, last); err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", last, err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// Summarize returns totals over the whole history
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var (
		sum Summary
		avg sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT website), AVG(risk_score),
		       COALESCE(SUM(CASE WHEN risk_score < 50 THEN 1 ELSE 0 END), 0)
		FROM analysis_history`).Scan(&sum.Total, &sum.UniqueWebsites, &avg, &sum.HighRisk)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize history: %w", err)
	}
	sum.AverageScore = avg.Float64
	return sum, nil
}
