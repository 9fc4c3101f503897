package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/policywatch/internal/extract"
	"golang.org/x/net/html"
)

// Page is a parsed page. It satisfies widget.Page.
type Page struct {
	url   string
	title string
	doc   *html.Node
}

// NewPage parses rawHTML as the content of pageURL
func NewPage(pageURL, rawHTML string) (*Page, error) {
	doc, err := extract.Parse(rawHTML)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Page{url: pageURL, title: extract.ExtractTitle(doc), doc: doc}, nil
}

func (p *Page) URL() string   { return p.url }
func (p *Page) Title() string { return p.title }

// Document returns the parsed tree. Extraction never mutates it.
func (p *Page) Document() (*html.Node, error) {
	return p.doc, nil
}

// Load fetches and parses rawURL
func (f *Fetcher) Load(ctx context.Context, rawURL string) (*Page, error) {
	result, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return NewPage(result.FinalURL, result.HTML)
}

// Probe returns a page's title and full text for classification. A page
// without readable text probes as an empty body.
func (f *Fetcher) Probe(ctx context.Context, rawURL string) (string, string, error) {
	page, err := f.Load(ctx, rawURL)
	if err != nil {
		return "", "", err
	}

	body, err := extract.PageText(page.doc)
	if errors.Is(err, extract.ErrNoContent) {
		return page.title, "", nil
	}
	if err != nil {
		return "", "", err
	}
	return page.title, body, nil
}
