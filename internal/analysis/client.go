// Package analysis talks to the remote analysis service and degrades to a
// static fallback table whenever the service cannot give a usable answer.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/policywatch/internal/cache"
	"github.com/ppiankov/policywatch/internal/classify"
	"github.com/ppiankov/policywatch/internal/model"
	"go.uber.org/zap"
)

const (
	analyzePath = "/api/analyze"
	chatPath    = "/api/chat"
	healthPath  = "/api/health"

	maxResponseBytes = 1 << 20
	defaultTimeout   = 15 * time.Second
)

// Analyzer is what presentation code needs from the analysis service
type Analyzer interface {
	AnalyzePolicy(ctx context.Context, page model.PageContext) model.AnalysisResult
	AnalyzeCompany(ctx context.Context, website string) model.AnalysisResult
	Ask(ctx context.Context, question string, platform model.Platform) string
}

// Client calls the backend once per request. It never retries: a single
// failed attempt degrades straight to fallback output.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	results    *cache.Results
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every backend call
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithResultCache enables caching of remote results
func WithResultCache(results *cache.Results) Option {
	return func(c *Client) { c.results = results }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire formats
type analyzeRequest struct {
	URL            string `json:"url,omitempty"`
	Text           string `json:"text,omitempty"`
	Platform       string `json:"platform,omitempty"`
	AnalysisType   string `json:"analysis_type,omitempty"`
	CompanyWebsite string `json:"company_website,omitempty"`
}

type analyzeResponse struct {
	Score          json.RawMessage `json:"score"`
	HarmfulPoints  *string         `json:"harmful_points"`
	WorstData      *string         `json:"worst_data"`
	Recommendation *string         `json:"recommendation"`
}

type chatRequest struct {
	Question string `json:"question"`
	Platform string `json:"platform"`
}

type chatResponse struct {
	Response *string `json:"response"`
}

// AnalyzePolicy analyzes the page's extracted policy text. Any backend
// failure yields the fallback entry for the page's platform.
func (c *Client) AnalyzePolicy(ctx context.Context, page model.PageContext) model.AnalysisResult {
	if cached, ok := c.cached(cache.Key{Kind: cache.KindPolicy, Target: page.URL()}); ok {
		return cached
	}

	req := analyzeRequest{
		URL:      page.URL(),
		Text:     page.ExtractedText(),
		Platform: page.Platform().String(),
	}

	result, err := c.analyze(ctx, req)
	if err != nil {
		c.logger.Warn("analysis backend failed, using fallback",
			zap.String("url", page.URL()),
			zap.Stringer("platform", page.Platform()),
			zap.Error(err))
		return Fallback(page.Platform())
	}

	c.store(cache.Key{Kind: cache.KindPolicy, Target: page.URL()}, result)
	return result
}

// AnalyzeCompany asks the backend to locate and analyze a company's policy.
// Fallback is keyed by the platform resolved from the website.
func (c *Client) AnalyzeCompany(ctx context.Context, website string) model.AnalysisResult {
	if cached, ok := c.cached(cache.Key{Kind: cache.KindCompany, Target: website}); ok {
		return cached
	}

	req := analyzeRequest{
		AnalysisType:   "company",
		CompanyWebsite: website,
	}

	result, err := c.analyze(ctx, req)
	if err != nil {
		platform := classify.ResolvePlatform(website)
		c.logger.Warn("company analysis failed, using fallback",
			zap.String("website", website),
			zap.Stringer("platform", platform),
			zap.Error(err))
		return Fallback(platform)
	}

	c.store(cache.Key{Kind: cache.KindCompany, Target: website}, result)
	return result
}

// Ask sends a follow-up question. Failures are never returned: the caller
// gets UnavailableMessage instead.
func (c *Client) Ask(ctx context.Context, question string, platform model.Platform) string {
	var resp chatResponse
	err := c.post(ctx, chatPath, chatRequest{Question: question, Platform: platform.String()}, &resp)
	if err == nil && (resp.Response == nil || strings.TrimSpace(*resp.Response) == "") {
		err = fmt.Errorf("%w: missing response", ErrMalformedResponse)
	}
	if err != nil {
		c.logger.Warn("chat backend failed",
			zap.Stringer("platform", platform),
			zap.Error(err))
		return UnavailableMessage
	}
	return *resp.Response
}

// Health checks that the backend is reachable
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// analyze performs one /api/analyze call and validates the body
func (c *Client) analyze(ctx context.Context, req analyzeRequest) (model.AnalysisResult, error) {
	var resp analyzeResponse
	if err := c.post(ctx, analyzePath, req, &resp); err != nil {
		return model.AnalysisResult{}, err
	}
	return resp.toResult()
}

// toResult rejects bodies missing any required field or carrying a
// non-integer or out-of-range score
func (r analyzeResponse) toResult() (model.AnalysisResult, error) {
	if len(r.Score) == 0 || string(r.Score) == "null" {
		return model.AnalysisResult{}, fmt.Errorf("%w: missing score", ErrMalformedResponse)
	}
	// only a JSON number literal; a quoted "70" does not decode into float64
	var score float64
	if err := json.Unmarshal(r.Score, &score); err != nil || score != math.Trunc(score) || score < 0 || score > 100 {
		return model.AnalysisResult{}, fmt.Errorf("%w: invalid score %s", ErrMalformedResponse, r.Score)
	}
	if r.HarmfulPoints == nil || strings.TrimSpace(*r.HarmfulPoints) == "" {
		return model.AnalysisResult{}, fmt.Errorf("%w: missing harmful_points", ErrMalformedResponse)
	}
	if r.Recommendation == nil || strings.TrimSpace(*r.Recommendation) == "" {
		return model.AnalysisResult{}, fmt.Errorf("%w: missing recommendation", ErrMalformedResponse)
	}

	result := model.AnalysisResult{
		Score:          int(score),
		HarmfulPoints:  *r.HarmfulPoints,
		Recommendation: *r.Recommendation,
		Source:         model.SourceRemote,
	}
	if r.WorstData != nil {
		result.WorstData = *r.WorstData
	}
	return result, nil
}

// post sends a JSON body and decodes a 2xx JSON reply into out
func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, httpResp.StatusCode, snippet(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) cached(key cache.Key) (model.AnalysisResult, bool) {
	if c.results == nil || key.Target == "" {
		return model.AnalysisResult{}, false
	}
	result, ok := c.results.Get(key)
	if ok {
		c.logger.Debug("analysis cache hit", zap.String("kind", string(key.Kind)), zap.String("target", key.Target))
	}
	return result, ok
}

func (c *Client) store(key cache.Key, result model.AnalysisResult) {
	if c.results == nil || key.Target == "" {
		return
	}
	if err := c.results.Put(key, result); err != nil {
		c.logger.Debug("analysis cache write failed", zap.Error(err))
	}
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}
