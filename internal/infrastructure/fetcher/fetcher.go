// Package fetcher turns a job posting URL into plain text for analysis.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"jdmatch/internal/config"
	"jdmatch/internal/pkg/logger"

	"github.com/chromedp/chromedp"
	"github.com/gocolly/colly/v2"
)

var (
	ErrInvalidURL = errors.New("invalid job description url")
	ErrNoContent  = errors.New("job description page has no text")
	// ErrBlockedHost is also an ErrInvalidURL.
	ErrBlockedHost = fmt.Errorf("%w: host is not a public address", ErrInvalidURL)
)

// PageFetcher returns the visible text of the page at rawURL.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// renderFunc loads a page in a browser and returns the body text.
type renderFunc func(ctx context.Context, pageURL string) (string, error)

type lookupFunc func(ctx context.Context, host string) ([]netip.Addr, error)

// Fetcher scrapes the static HTML with colly. Pages that only render through
// script fall back to headless Chrome when enabled.
type Fetcher struct {
	userAgent string
	maxChars  int
	timeout   time.Duration
	render    renderFunc
	lookup    lookupFunc
	log       logger.Logger

	allowPrivate bool
}

func New(cfg config.FetcherConfig, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.Nop()
	}
	f := &Fetcher{
		userAgent: cfg.UserAgent,
		maxChars:  cfg.MaxChars,
		timeout:   cfg.Timeout,
		log:       log.Named("fetcher"),
		lookup: func(ctx context.Context, host string) ([]netip.Addr, error) {
			return net.DefaultResolver.LookupNetIP(ctx, "ip", host)
		},
		allowPrivate: cfg.AllowPrivateHosts,
	}
	if cfg.Headless {
		f.render = f.renderHeadless
	}
	return f
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := parseURL(rawURL)
	if err != nil {
		return "", err
	}
	if err := f.checkHost(ctx, u.Hostname()); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := f.scrape(u)
	if err != nil && f.render == nil {
		return "", err
	}
	if err != nil {
		f.log.Warn(ctx, "static fetch failed, trying headless", logger.String("url", u.String()), logger.Error(err))
	}

	if text == "" && f.render != nil {
		text, err = f.render(ctx, u.String())
		if err != nil {
			return "", fmt.Errorf("headless fetch: %w", err)
		}
		text = CollapseWhitespace(text)
	}

	if text == "" {
		return "", ErrNoContent
	}
	return Truncate(text, f.maxChars), nil
}

func (f *Fetcher) scrape(u *url.URL) (string, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
		colly.MaxDepth(1),
	)
	if f.userAgent != "" {
		c.UserAgent = f.userAgent
	}
	if !f.allowPrivate {
		c.WithTransport(guardedTransport())
	}
	if f.timeout > 0 {
		c.SetRequestTimeout(f.timeout)
	}

	var text string
	var reqErr error

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	c.OnHTML("body", func(e *colly.HTMLElement) {
		e.DOM.Find("script, style, noscript, template").Remove()
		text = CollapseWhitespace(e.DOM.Text())
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			reqErr = fmt.Errorf("fetch %s: status %d: %w", u, r.StatusCode, err)
			return
		}
		reqErr = fmt.Errorf("fetch %s: %w", u, err)
	})

	if err := c.Visit(u.String()); err != nil {
		return "", fmt.Errorf("fetch %s: %w", u, err)
	}
	c.Wait()

	if reqErr != nil {
		return "", reqErr
	}
	return text, nil
}

func (f *Fetcher) renderHeadless(ctx context.Context, pageURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if f.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.userAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	runCtx := browserCtx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(browserCtx, f.timeout)
		defer cancel()
	}

	var text string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return text, nil
}

func parseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u, nil
}

// checkHost resolves host and rejects it when any address is not public.
func (f *Fetcher) checkHost(ctx context.Context, host string) error {
	if f.allowPrivate {
		return nil
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return checkAddr(addr)
	}
	addrs, err := f.lookup(ctx, host)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", host, err)
	}
	for _, addr := range addrs {
		if err := checkAddr(addr); err != nil {
			return err
		}
	}
	return nil
}

// guardedTransport re-checks every dialed address, so redirects and DNS
// answers that change after checkHost cannot reach internal hosts.
func guardedTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   guardDial,
	}
	return &http.Transport{
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}

func guardDial(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedHost, host)
	}
	return checkAddr(addr)
}

var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

func checkAddr(addr netip.Addr) error {
	addr = addr.Unmap()
	switch {
	case !addr.IsValid(),
		addr.IsLoopback(),
		addr.IsPrivate(),
		addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(),
		addr.IsMulticast(),
		addr.IsUnspecified(),
		sharedAddressSpace.Contains(addr):
		return fmt.Errorf("%w: %s", ErrBlockedHost, addr)
	}
	return nil
}

// CollapseWhitespace joins all whitespace runs into single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate keeps at most maxChars runes of s.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i]
		}
		n++
	}
	return s
}
