package pdf

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-codex/internal/process"
)

// DefaultTimeout bounds the page load when the context has no deadline.
const DefaultTimeout = 60 * time.Second

// Page dimensions in inches (A4).
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 0.6
)

// ChromePrinter prints an HTML file to PDF with headless Chrome via go-rod.
// The browser is started on first use and reused until Close.
type ChromePrinter struct {
	timeout time.Duration
	getenv  func(string) string

	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewChromePrinter returns a printer. getenv supplies ROD_BROWSER_BIN, which
// selects the browser binary, and CI or ROD_NO_SANDBOX, which disable the
// sandbox.
func NewChromePrinter(timeout time.Duration, getenv func(string) string) *ChromePrinter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ChromePrinter{timeout: timeout, getenv: getenv}
}

// ensureBrowser lazily launches and connects to the browser.
func (p *ChromePrinter) ensureBrowser() error {
	if p.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := p.getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	// NoSandbox required for CI and containerized environments
	if p.getenv("CI") == "true" || p.getenv("ROD_NO_SANDBOX") == "1" || p.getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	p.launcher, p.browser = l, browser
	return nil
}

// Close stops the browser and every process it started.
func (p *ChromePrinter) Close() error {
	if p.browser == nil {
		return nil
	}
	err := p.browser.Close()
	process.KillProcessGroup(p.launcher.PID())
	p.launcher.Kill()
	p.browser, p.launcher = nil, nil
	return err
}

// Print opens htmlPath in the browser and renders it to PDF bytes.
func (p *ChromePrinter) Print(ctx context.Context, htmlPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.ensureBrowser(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	page, err := p.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: fileURL(abs)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer func() { _ = page.Close() }()

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(printOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return buf, nil
}

// printOptions describes an A4 page with a page number footer.
func printOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:          floatPtr(paperWidthInches),
		PaperHeight:         floatPtr(paperHeightInches),
		MarginTop:           floatPtr(marginInches),
		MarginBottom:        floatPtr(marginInches),
		MarginLeft:          floatPtr(marginInches),
		MarginRight:         floatPtr(marginInches),
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		HeaderTemplate:      "<span></span>",
		FooterTemplate:      `<div style="font-size: 9px; width: 100%; text-align: center;"><span class="pageNumber"></span>/<span class="totalPages"></span></div>`,
	}
}

// fileURL converts an absolute path to a file:// URL.
// Handles both Unix and Windows paths correctly.
func fileURL(abs string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
