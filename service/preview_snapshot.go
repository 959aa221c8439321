package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"fightcards/models"
)

// snapshotTimeout bounds one headless browser run
const snapshotTimeout = 30 * time.Second

// waitForImagesJS resolves once fonts are ready and every image has loaded or failed
const waitForImagesJS = `
	(function() {
		return Promise.all([
			document.fonts.ready,
			Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
				return new Promise((resolve) => {
					if (img.complete && img.naturalWidth > 0 && img.naturalHeight > 0) {
						resolve();
						return;
					}
					const timeout = setTimeout(() => resolve(), 5000);
					img.onload = () => { clearTimeout(timeout); resolve(); };
					img.onerror = () => { clearTimeout(timeout); resolve(); };
				});
			}))
		]);
	})();
`

// PreviewSnapshotter turns a preview document into a PNG with headless Chrome
type PreviewSnapshotter struct {
	chromePath string
	scale      float64
}

// NewPreviewSnapshotter creates a snapshotter. chromePath may be empty to auto-detect.
func NewPreviewSnapshotter(chromePath string, scale float64) *PreviewSnapshotter {
	if scale <= 0 {
		scale = 2
	}
	return &PreviewSnapshotter{chromePath: detectChromePath(chromePath), scale: scale}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Snapshot renders the HTML and captures the card element
func (s *PreviewSnapshotter) Snapshot(ctx context.Context, html string) ([]byte, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if s.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(s.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctxTimeout, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	log.Printf("📸 Snapshot: rendering preview (%d bytes of HTML)", len(html))

	var buf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(models.CanvasWidth, models.CanvasHeight, chromedp.EmulateScale(s.scale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady(".card", chromedp.ByQuery),
		chromedp.Evaluate(waitForImagesJS, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.Screenshot(".card", &buf, chromedp.ByQuery),
	)
	if err != nil {
		log.Printf("❌ Snapshot: %v", err)
		return nil, fmt.Errorf("%w: %v", models.ErrSnapshot, err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: empty screenshot", models.ErrSnapshot)
	}

	log.Printf("✓ Snapshot captured (%d bytes)", len(buf))
	return buf, nil
}
