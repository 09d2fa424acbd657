package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// PageSource returns the HTML of the calendar page.
type PageSource interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// maxPageBytes caps how much of a response body is read.
const maxPageBytes = 16 << 20

// FileSource reads a saved page from disk.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.Path == "" {
		return nil, fmt.Errorf("file source: path is required")
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}
	return data, nil
}

// HTTPSource fetches the page with a plain GET. It only works for pages that
// render the schedule server side.
type HTTPSource struct {
	URL       string
	UserAgent string
	Cookie    string
	client    *http.Client
}

// NewHTTPSource creates an HTTP source with a traced client.
func NewHTTPSource(url, userAgent, cookie string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:       url,
		UserAgent: userAgent,
		Cookie:    cookie,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	if s.Cookie != "" {
		req.Header.Set("Cookie", s.Cookie)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	return data, nil
}

// ChromeSource renders the page in headless Chromium and returns the DOM
// once WaitSelector is visible.
type ChromeSource struct {
	URL          string
	WaitSelector string
	Cookie       string
	ExecPath     string
	Timeout      time.Duration
}

func (s *ChromeSource) Name() string { return "chrome" }

func (s *ChromeSource) Fetch(parentCtx context.Context) ([]byte, error) {
	if s.URL == "" {
		return nil, fmt.Errorf("chrome source: URL is required")
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-software-rasterizer", true),
	)
	if s.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(s.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, allocOpts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, timeout)
	defer timeoutCancel()

	var html string
	tasks := chromedp.Tasks{}
	if s.Cookie != "" {
		tasks = append(tasks, network.Enable(), network.SetExtraHTTPHeaders(network.Headers{"Cookie": s.Cookie}))
	}
	tasks = append(tasks, chromedp.Navigate(s.URL))
	if s.WaitSelector != "" {
		tasks = append(tasks, chromedp.WaitVisible(s.WaitSelector, chromedp.ByQuery))
	}
	tasks = append(tasks, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("chrome source: chromedp run failed: %w", err)
	}
	return []byte(html), nil
}

// NewSource builds the page source selected by cfg.
func NewSource(cfg Config) (PageSource, error) {
	switch cfg.Source {
	case SourceFile:
		return &FileSource{Path: cfg.File}, nil
	case SourceHTTP:
		if cfg.URL == "" {
			return nil, fmt.Errorf("extract url is required for the http source")
		}
		return NewHTTPSource(cfg.URL, cfg.UserAgent, cfg.Cookie, cfg.Timeout()), nil
	case SourceChrome, "":
		return &ChromeSource{
			URL:          cfg.URL,
			WaitSelector: cfg.WaitSelector,
			Cookie:       cfg.Cookie,
			ExecPath:     cfg.ChromePath,
			Timeout:      cfg.Timeout(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown extract source %q", cfg.Source)
	}
}
