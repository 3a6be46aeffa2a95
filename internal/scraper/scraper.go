package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/boxscores/internal/game"
	"github.com/pfrederiksen/boxscores/internal/metrics"
	"github.com/pfrederiksen/boxscores/internal/parser"
)

const (
	UserAgent                = "boxscores/1.0 (github.com/pfrederiksen/boxscores)"
	Timeout                  = 30 * time.Second
	// DefaultRequestsPerMinute allows one fetch per second, below the bulk pacing delay.
	DefaultRequestsPerMinute = 60
)

// maxErrorBody bounds how much of a failed response is quoted in the error
const maxErrorBody = 200

// Fetcher retrieves the document behind a box score locator
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (*goquery.Document, error)
}

// Options configures a Scraper. Zero values select the defaults.
type Options struct {
	Timeout           time.Duration
	UserAgent         string
	RequestsPerMinute int // negative disables limiting
	Client            *http.Client
}

// Scraper fetches box score pages
type Scraper struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// New creates a new Scraper instance
func New(opts Options) *Scraper {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = Timeout
		}
		client = &http.Client{Timeout: timeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = UserAgent
	}
	rpm := opts.RequestsPerMinute
	if rpm == 0 {
		rpm = DefaultRequestsPerMinute
	}
	limit := rate.Inf
	if rpm > 0 {
		limit = rate.Limit(float64(rpm) / 60.0)
	}
	return &Scraper{
		client:    client,
		userAgent: ua,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Fetch retrieves and parses the HTML document at locator
func (s *Scraper) Fetch(ctx context.Context, locator string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	doc, err := s.fetch(ctx, locator)
	metrics.RecordFetch(time.Since(start), err)
	return doc, err
}

func (s *Scraper) fetch(ctx context.Context, locator string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
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
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, body)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// FetchGame fetches the page at locator and parses it into a game record
func (s *Scraper) FetchGame(ctx context.Context, locator string) (*game.Record, error) {
	return FetchGame(ctx, s, locator)
}

// FetchGame retrieves locator through f and parses the result
func FetchGame(ctx context.Context, f Fetcher, locator string) (*game.Record, error) {
	doc, err := f.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}
	rec := parser.Parse(doc, locator)
	metrics.RecordParse(string(rec.OutcomeSource), rec.Degraded())
	return rec, nil
}
