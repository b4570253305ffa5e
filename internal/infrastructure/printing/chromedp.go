package printing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultMaxTabs       = 2
	// footerMinMargin keeps Chrome's footer template from overlapping content
	footerMinMargin = 10.0
)

type ChromedpConfig struct {
	DefaultTimeout time.Duration
	// ExecPath is the Chrome or Chromium binary, empty searches PATH
	ExecPath string
	// RemoteURL connects to a running browser's DevTools websocket instead
	// of launching one
	RemoteURL string
	// NoSandbox is needed when Chrome runs as root in a container
	NoSandbox bool
	// MaxConcurrent caps the tabs rendering at the same time
	MaxConcurrent int
	Scale         float64
	Logger        *zap.Logger
}

func ChromedpConfigFromConfig(cfg config.PrintingConfig, logger *zap.Logger) *ChromedpConfig {
	return &ChromedpConfig{
		DefaultTimeout: cfg.Timeout,
		ExecPath:       cfg.ChromePath,
		RemoteURL:      cfg.RemoteURL,
		NoSandbox:      true,
		MaxConcurrent:  cfg.MaxConcurrent,
		Logger:         logger,
	}
}

// ChromedpRenderer prints HTML through headless Chrome. All requests share
// one browser, each in its own tab. The browser process starts with the
// first render.
type ChromedpRenderer struct {
	config      ChromedpConfig
	logger      *zap.Logger
	tabs        *semaphore.Weighted
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewChromedpRenderer(cfg *ChromedpConfig) (*ChromedpRenderer, error) {
	c := ChromedpConfig{}
	if cfg != nil {
		c = *cfg
	}
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = defaultChromeTimeout
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = defaultMaxTabs
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	r := &ChromedpRenderer{
		config: c,
		logger: c.Logger,
		tabs:   semaphore.NewWeighted(int64(c.MaxConcurrent)),
	}
	r.allocCtx, r.allocCancel = newAllocator(c)
	return r, nil
}

func newAllocator(c ChromedpConfig) (context.Context, context.CancelFunc) {
	if c.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), c.RemoteURL)
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		// /dev/shm is tiny in most containers
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}
	if c.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return chromedp.NewExecAllocator(context.Background(), opts...)
}

func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := r.tabs.Acquire(ctx, 1); err != nil {
		return nil, NewRenderError(ErrCodeRenderTimeout, "no browser tab became free in time", err)
	}
	defer r.tabs.Release(1)

	start := time.Now()
	pdf, err := r.print(ctx, wrapDocument(req), r.pdfParams(req))
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("rendering exceeded %v", timeout), err)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, NewRenderError(ErrCodeRenderTimeout, "rendering was cancelled", err)
		}
		r.logger.Error("Chrome failed to print", zap.String("title", req.Title), zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chrome print failed", err)
	}
	if len(pdf) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "chrome returned an empty PDF", nil)
	}

	res := &RenderResult{PDFData: pdf, PageCount: estimatePageCount(pdf), RenderDuration: time.Since(start)}
	r.logger.Debug("PDF rendered",
		zap.String("title", req.Title),
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", res.PageCount),
		zap.Duration("duration", res.RenderDuration))
	return res, nil
}

func validateRequest(req *RenderRequest) error {
	if req == nil || strings.TrimSpace(req.HTML) == "" {
		return NewRenderError(ErrCodeInvalidHTML, "nothing to render", nil)
	}
	if req.PaperSize == "" {
		req.PaperSize = PaperSizeA4
	}
	if !req.PaperSize.IsValid() {
		return NewRenderError(ErrCodeInvalidPaperSize, "unsupported paper size "+string(req.PaperSize), nil)
	}
	return nil
}

// print loads doc into a fresh tab and prints it. The tab is closed when
// ctx ends even if Chrome is still busy.
func (r *ChromedpRenderer) print(ctx context.Context, doc string, params *page.PrintToPDFParams) ([]byte, error) {
	tabCtx, closeTab := chromedp.NewContext(r.allocCtx, chromedp.WithLogf(r.logger.Sugar().Debugf))
	defer closeTab()
	defer context.AfterFunc(ctx, closeTab)()

	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) (err error) {
			pdf, _, err = params.Do(ctx)
			return err
		}),
	)
	return pdf, err
}

// pdfParams converts the request to Chrome's print settings, which are in inches
func (r *ChromedpRenderer) pdfParams(req *RenderRequest) *page.PrintToPDFParams {
	width, height := req.PaperSize.Dimensions()
	m := req.Margins
	p := page.PrintToPDF().
		WithPrintBackground(true).
		WithScale(r.config.Scale).
		WithLandscape(req.Landscape).
		WithPaperWidth(mmToInches(width)).
		WithPaperHeight(mmToInches(height)).
		WithMarginTop(mmToInches(m.Top)).
		WithMarginRight(mmToInches(m.Right)).
		WithMarginLeft(mmToInches(m.Left))

	if req.FooterHTML == "" {
		return p.WithMarginBottom(mmToInches(m.Bottom))
	}
	// an empty header would make Chrome print its own title and date line
	return p.WithDisplayHeaderFooter(true).
		WithHeaderTemplate("<span></span>").
		WithFooterTemplate(req.FooterHTML).
		WithMarginBottom(mmToInches(max(m.Bottom, footerMinMargin)))
}

// wrapDocument turns a fragment into a UTF-8 document. Full documents pass
// through unchanged.
func wrapDocument(req *RenderRequest) string {
	head := strings.ToLower(req.HTML[:min(len(req.HTML), 512)])
	if strings.Contains(head, "<!doctype") || strings.Contains(head, "<html") {
		return req.HTML
	}
	var title string
	if req.Title != "" {
		title = "<title>" + html.EscapeString(req.Title) + "</title>"
	}
	return `<!DOCTYPE html><html><head><meta charset="UTF-8">` + title + "</head><body>" + req.HTML + "</body></html>"
}

func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func mmToInches(mm float64) float64 { return mm / 25.4 }

var _ PDFRenderer = (*ChromedpRenderer)(nil)
