package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/policywatch/internal/model"
	"github.com/ppiankov/policywatch/internal/pipeline"
	"go.uber.org/zap"
)

// ErrInvalidURL is returned for batch entries without a host
var ErrInvalidURL = errors.New("invalid url")

// Analyzer analyzes one URL end to end
type Analyzer interface {
	AnalyzeURL(ctx context.Context, rawURL string, forceCompany bool) (*pipeline.Report, error)
}

// Item is the outcome of one batch entry
type Item struct {
	Index   int              `json:"index"`
	URL     string           `json:"url"`
	Report  *pipeline.Report `json:"report,omitempty"`
	Error   string           `json:"error,omitempty"`
	Elapsed time.Duration    `json:"elapsed"`

	err error
}

// Err returns the failure of this entry, if any
func (it Item) Err() error {
	return it.err
}

// Stats summarizes a finished batch
type Stats struct {
	Total        int                    `json:"total"`
	Succeeded    int                    `json:"succeeded"`
	Failed       int                    `json:"failed"`
	PrivacyPages int                    `json:"privacy_pages"`
	Fallbacks    int                    `json:"fallbacks"`
	AverageScore float64                `json:"average_score"`
	ByBand       map[model.RiskBand]int `json:"by_band"`
}

// BatchOption configures a Batch
type BatchOption func(*Batch)

// WithLimiter paces requests per host
func WithLimiter(l *Limiter) BatchOption {
	return func(b *Batch) { b.limiter = l }
}

// WithForceCompany analyzes every URL as a company site
func WithForceCompany(force bool) BatchOption {
	return func(b *Batch) { b.forceCompany = force }
}

// WithBatchLogger sets the logger
func WithBatchLogger(l *zap.Logger) BatchOption {
	return func(b *Batch) {
		if l != nil {
			b.logger = l
		}
	}
}

// Batch analyzes many URLs concurrently
type Batch struct {
	analyzer     Analyzer
	pool         *Pool
	limiter      *Limiter
	forceCompany bool
	logger       *zap.Logger
}

// NewBatch creates a batch runner with the given worker count
func NewBatch(analyzer Analyzer, workers int, opts ...BatchOption) *Batch {
	b := &Batch{
		analyzer: analyzer,
		pool:     NewPool(workers),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run analyzes urls and returns one item per URL in input order. progress,
// if set, is called once per finished item; calls are serialized.
func (b *Batch) Run(ctx context.Context, urls []string, progress func(Item)) ([]Item, error) {
	items := make([]Item, len(urls))
	for i, u := range urls {
		items[i] = Item{Index: i, URL: u}
	}

	var mu sync.Mutex
	err := b.pool.Run(ctx, len(urls), func(ctx context.Context, i int) {
		item := b.analyze(ctx, items[i])

		mu.Lock()
		defer mu.Unlock()
		items[i] = item
		if progress != nil {
			progress(item)
		}
	})

	// entries skipped by cancellation still report why
	for i := range items {
		if items[i].Report == nil && items[i].err == nil && err != nil {
			items[i].err = err
			items[i].Error = err.Error()
		}
	}
	return items, err
}

func (b *Batch) analyze(ctx context.Context, item Item) Item {
	start := time.Now()

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx, item.URL); err != nil {
			return item.failed(err, time.Since(start))
		}
	}

	report, err := b.analyzer.AnalyzeURL(ctx, item.URL, b.forceCompany)
	if err != nil {
		b.logger.Debug("batch entry failed", zap.String("url", item.URL), zap.Error(err))
		return item.failed(err, time.Since(start))
	}
	item.Report = report
	item.Elapsed = time.Since(start)
	return item
}

func (it Item) failed(err error, elapsed time.Duration) Item {
	it.Elapsed = elapsed
	it.err = err
	it.Error = err.Error()
	return it
}

// Summarize computes totals over finished items
func Summarize(items []Item) Stats {
	stats := Stats{Total: len(items), ByBand: make(map[model.RiskBand]int)}

	scoreSum := 0
	for _, it := range items {
		if it.Report == nil {
			stats.Failed++
			continue
		}
		stats.Succeeded++
		scoreSum += it.Report.Result.Score
		stats.ByBand[it.Report.Band]++
		if it.Report.IsPrivacyPage {
			stats.PrivacyPages++
		}
		if it.Report.Result.Source == model.SourceFallback {
			stats.Fallbacks++
		}
	}
	if stats.Succeeded > 0 {
		stats.AverageScore = float64(scoreSum) / float64(stats.Succeeded)
	}
	return stats
}

// ReadURLs reads one URL per line, skipping blanks, "#" comments and
// duplicates
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan urls: %w", err)
	}
	return urls, nil
}

// ReadURLsFromFile reads URLs from a file, or from stdin when path is "-"
func ReadURLsFromFile(path string) ([]string, error) {
	if path == "-" {
		return ReadURLs(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadURLs(file)
}
