package rod

import (
	"context"
	"fmt"
	"strings"
	"time"

	"formwalker/internal/application/port/output"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.PagePort = (*PageAdapter)(nil)

const defaultTimeout = 10 * time.Second

// PageAdapter implements the page-session port on top of go-rod.
type PageAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher // важно! чтобы корректно убить процесс Chrome
	page     *rod.Page
	timeout  time.Duration
}

type Config struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
}

func DefaultConfig() Config {
	return Config{
		Headless:   true,
		SlowMotion: 0,
		Timeout:    defaultTimeout,
		NoSandbox:  true,
		DevTools:   false,
	}
}

func NewPageAdapter(ctx context.Context, cfg Config) (*PageAdapter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-setuid-sandbox")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		SlowMotion(cfg.SlowMotion).
		MustConnect()

	page := browser.MustPage("about:blank")

	return &PageAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
	}, nil
}

func (a *PageAdapter) Navigate(ctx context.Context, url string) error {
	if err := a.page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	a.page.MustWaitLoad()
	a.page.WaitIdle(5 * time.Second)
	return nil
}

func (a *PageAdapter) Click(ctx context.Context, selector string) error {
	el, err := a.element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	a.page.WaitIdle(2 * time.Second)
	return nil
}

// ElementText probes selectors without waiting and returns the first visible
// match's text.
func (a *PageAdapter) ElementText(ctx context.Context, selectors []string) (string, bool) {
	for _, sel := range selectors {
		has, el, err := a.page.Has(sel)
		if err != nil || !has {
			continue
		}
		if visible, err := el.Visible(); err != nil || !visible {
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text, true
		}
	}
	return "", false
}

func (a *PageAdapter) PageText(ctx context.Context) (string, error) {
	body, err := a.page.Timeout(a.timeout).Element("body")
	if err != nil {
		return "", fmt.Errorf("body not found: %w", err)
	}
	return body.Text()
}

func (a *PageAdapter) Headings(ctx context.Context) ([]string, error) {
	body, err := a.page.Timeout(a.timeout).Element("body")
	if err != nil {
		return nil, fmt.Errorf("body not found: %w", err)
	}
	html, err := body.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to get HTML: %w", err)
	}
	return ExtractHeadings(html), nil
}

// WaitFor polls cond twice a second until it holds or the timeout expires.
func (a *PageAdapter) WaitFor(ctx context.Context, timeout time.Duration, cond func(ctx context.Context) bool) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		if cond(ctx) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("condition not met within %s: %w", timeout, context.DeadlineExceeded)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (a *PageAdapter) CurrentURL() string {
	return a.page.MustInfo().URL
}

func (a *PageAdapter) Title() string {
	return a.page.MustInfo().Title
}

func (a *PageAdapter) Close() {
	if a.browser != nil {
		_ = a.browser.Close()
	}
	if a.launcher != nil {
		a.launcher.Kill()
		a.launcher.Cleanup()
	}
}

// element resolves either a CSS or an XPath selector, matching what
// Control.Selector carries.
func (a *PageAdapter) element(selector string) (*rod.Element, error) {
	if strings.HasPrefix(selector, "/") {
		return a.page.Timeout(a.timeout).ElementX(selector)
	}
	return a.page.Timeout(a.timeout).Element(selector)
}
