package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/sharepoint-versions/internal/logger"
	"github.com/pfrederiksen/sharepoint-versions/internal/metrics"
)

const (
	DocsURL   = "https://learn.microsoft.com/en-us/officeupdates/sharepoint-updates"
	UserAgent = "sharepoint-versions/1.0 (github.com/pfrederiksen/sharepoint-versions)"
	Timeout   = 30 * time.Second
)

// Source is one community build page and the product edition it lists
type Source struct {
	PackageName string `mapstructure:"package_name" json:"package_name"`
	URL         string `mapstructure:"url" json:"url"`
}

// DefaultCommunitySources returns the Todd Klindt build lists, oldest edition first
func DefaultCommunitySources() []Source {
	return []Source{
		{PackageName: "SharePoint Server 2010", URL: "https://www.toddklindt.com/blog/Lists/Posts/Post.aspx?ID=224"},
		{PackageName: "SharePoint Server 2013", URL: "https://www.toddklindt.com/blog/Lists/Posts/Post.aspx?ID=346"},
		{PackageName: "SharePoint Server 2016", URL: "https://www.toddklindt.com/blog/Builds/SharePoint-2016-Builds.aspx"},
		{PackageName: "SharePoint Server 2019", URL: "https://www.toddklindt.com/blog/Builds/SharePoint-2019-Builds.aspx"},
		{PackageName: "SharePoint Server Subscription Edition", URL: "https://www.toddklindt.com/blog/Builds/SharePoint-SE-Builds.aspx"},
	}
}

// Scraper fetches build pages and extracts records from them
type Scraper struct {
	client    *http.Client
	userAgent string
	docsURL   string
	community []Source
	log       *logger.Logger
	metrics   *metrics.Recorder
}

// Option configures a Scraper
type Option func(*Scraper)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) { s.client = c }
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.client.Timeout = d }
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(ua string) Option {
	return func(s *Scraper) { s.userAgent = ua }
}

// WithDocsURL overrides the official updates page URL
func WithDocsURL(u string) Option {
	return func(s *Scraper) { s.docsURL = u }
}

// WithCommunitySources overrides the community build pages
func WithCommunitySources(sources []Source) Option {
	return func(s *Scraper) { s.community = sources }
}

// WithLogger sets the logger for fetch and notice messages
func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) { s.log = l }
}

// WithMetrics sets the recorder for fetch and row counters
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Scraper) { s.metrics = m }
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent: UserAgent,
		docsURL:   DocsURL,
		community: DefaultCommunitySources(),
		log:       logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads url and parses the response body as HTML
func (s *Scraper) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from %s: %d", url, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(strings.ToLower(ct), "html") {
		return nil, fmt.Errorf("unexpected content type from %s: %s", url, ct)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// fetchTimed fetches url and records the fetch against source
func (s *Scraper) fetchTimed(ctx context.Context, source, url string) (*goquery.Document, error) {
	start := time.Now()
	doc, err := s.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	took := time.Since(start)
	s.metrics.DocumentFetched(source, took)
	s.log.Debug("Fetched document", logger.Fields{
		"source":      source,
		"url":         url,
		"duration_ms": took.Milliseconds(),
	})
	return doc, nil
}
