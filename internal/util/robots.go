package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

const (
	robotsTTL      = time.Hour
	maxRobotsBytes = 512 << 10
)

// Robots answers robots.txt queries per host. Rules are cached for an
// hour and concurrent lookups of one host share a single fetch. A
// robots.txt that cannot be fetched allows everything.
type Robots struct {
	client *http.Client
	agent  string
	rules  *gocache.Cache
	group  singleflight.Group
}

// NewRobots creates a checker that fetches with client and matches rules
// for the product token of userAgent
func NewRobots(client *http.Client, userAgent string) *Robots {
	return &Robots{
		client: client,
		agent:  ProductToken(userAgent),
		rules:  gocache.New(robotsTTL, 2*robotsTTL),
	}
}

// Allowed reports whether rawURL may be fetched
func (r *Robots) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false, fmt.Errorf("parse URL %q: invalid", rawURL)
	}

	group := r.groupFor(ctx, u)
	if group == nil {
		return true, nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path), nil
}

// CrawlDelay returns the delay robots.txt asks for, or zero
func (r *Robots) CrawlDelay(ctx context.Context, rawURL string) time.Duration {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return 0
	}
	if group := r.groupFor(ctx, u); group != nil {
		return group.CrawlDelay
	}
	return 0
}

func (r *Robots) groupFor(ctx context.Context, u *url.URL) *robotstxt.Group {
	key := u.Scheme + "://" + u.Host
	if cached, ok := r.rules.Get(key); ok {
		return cached.(*robotstxt.RobotsData).FindGroup(r.agent)
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		data, err := r.fetch(ctx, key+"/robots.txt")
		if err != nil {
			return nil, err
		}
		r.rules.SetDefault(key, data)
		return data, nil
	})
	if err != nil {
		return nil
	}
	return v.(*robotstxt.RobotsData).FindGroup(r.agent)
}

func (r *Robots) fetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.agent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}

	// 4xx allows everything; 5xx is treated as unreachable
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("fetch robots.txt: status %d", resp.StatusCode)
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}

// ProductToken reduces a User-Agent to the token robots.txt groups match,
// e.g. "policywatch/0.3 (+https://...)" -> "policywatch"
func ProductToken(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	product, _, _ := strings.Cut(parts[0], "/")
	return product
}
