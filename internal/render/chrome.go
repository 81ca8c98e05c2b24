package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/schooldocs/internal/domain"
)

// A4 in inches, with fixed margins on every side.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
	marginInches   = 0.4
)

// requestIdle is how long the network must stay quiet before printing.
const requestIdle = 300 * time.Millisecond

// ChromeOptions configures ChromeRasterizer.
type ChromeOptions struct {
	BrowserBin    string        // empty: let rod find or download Chromium
	NoSandbox     bool          // required in most containers
	Timeout       time.Duration // per document, when ctx has no earlier deadline
	MaxConcurrent int           // browsers alive at once
}

var _ Rasterizer = (*ChromeRasterizer)(nil)

// ChromeRasterizer launches a fresh headless Chrome for every document and
// tears it down before returning.
type ChromeRasterizer struct {
	opts    ChromeOptions
	limiter *Limiter
}

func NewChromeRasterizer(opts ChromeOptions) *ChromeRasterizer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	return &ChromeRasterizer{opts: opts, limiter: NewLimiter(opts.MaxConcurrent)}
}

func (c *ChromeRasterizer) Rasterize(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	release, err := c.limiter.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: waiting for a browser slot: %v", domain.ErrRender, err)
	}
	defer release()

	l := launcher.New().Headless(true)
	if c.opts.BrowserBin != "" {
		l = l.Bin(c.opts.BrowserBin)
	}
	if c.opts.NoSandbox {
		l = l.NoSandbox(true)
	}
	l = l.Context(ctx)

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: launch browser: %v", domain.ErrRender, err)
	}
	defer teardown(l)

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect browser: %v", domain.ErrRender, err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil && !errors.Is(closeErr, context.Canceled) {
			log.Debug().Err(closeErr).Msg("render: browser close failed")
		}
	}()

	return printPage(browser, html)
}

func printPage(browser *rod.Browser, html string) ([]byte, error) {
	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: create page: %v", domain.ErrRender, err)
	}
	defer func() { _ = page.Close() }()

	waitIdle := page.WaitRequestIdle(requestIdle, nil, nil, nil)
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("%w: load document: %v", domain.ErrRender, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: wait load: %v", domain.ErrRender, err)
	}
	waitIdle()

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(a4WidthInches),
		PaperHeight:     floatPtr(a4HeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: print to pdf: %v", domain.ErrRender, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading pdf stream: %v", domain.ErrRender, err)
	}

	return pdf, nil
}

// teardown kills the browser and its helpers and removes the profile dir.
func teardown(l *launcher.Launcher) {
	if pid := l.PID(); pid > 0 {
		killProcessGroup(pid)
	}
	l.Kill()
	l.Cleanup()
}

func floatPtr(v float64) *float64 {
	return &v
}
