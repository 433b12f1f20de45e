package headless

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/JakeFAU/company-scraper/internal/scraper"
)

// document is a live DOM inside a browser tab.
type document struct {
	tabCtx    context.Context
	release   func()
	closeOnce sync.Once
	closeErr  error
}

func newDocument(tabCtx context.Context, release func()) *document {
	return &document{tabCtx: tabCtx, release: release}
}

// QueryAll returns the elements currently matching selector without waiting.
func (d *document) QueryAll(ctx context.Context, selector string) ([]scraper.Element, error) {
	var nodes []*cdp.Node
	if err := d.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	out := make([]scraper.Element, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, &element{doc: d, node: node})
	}
	return out, nil
}

// Close shuts the tab and the browser process. Only the first call does work.
func (d *document) Close() error {
	d.closeOnce.Do(func() {
		if c := chromedp.FromContext(d.tabCtx); c != nil && c.Browser != nil {
			if err := chromedp.Cancel(d.tabCtx); err != nil && !errors.Is(err, context.Canceled) {
				d.closeErr = fmt.Errorf("close browser: %w", err)
			}
		}
		if d.release != nil {
			d.release()
		}
	})
	return d.closeErr
}

// run executes actions on the tab, bounded by ctx's deadline and cancellation.
// A deadline hit is reported as context.DeadlineExceeded.
func (d *document) run(ctx context.Context, actions ...chromedp.Action) error {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if deadline, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(d.tabCtx, deadline)
	} else {
		runCtx, cancel = context.WithCancel(d.tabCtx)
	}
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return context.DeadlineExceeded
		}
		return err
	}
	return nil
}

type element struct {
	doc  *document
	node *cdp.Node
}

func (e *element) Query(ctx context.Context, selector string) (scraper.Element, error) {
	var nodes []*cdp.Node
	err := e.doc.run(ctx, chromedp.Nodes(selector, &nodes,
		chromedp.ByQuery, chromedp.FromNode(e.node), chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", scraper.ErrElementNotFound, selector)
	}
	return &element{doc: e.doc, node: nodes[0]}, nil
}

// WaitFor polls until selector matches under this element.
func (e *element) WaitFor(ctx context.Context, selector string) (scraper.Element, error) {
	var nodes []*cdp.Node
	err := e.doc.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.FromNode(e.node)))
	if err != nil {
		return nil, fmt.Errorf("wait for %q: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", scraper.ErrElementNotFound, selector)
	}
	return &element{doc: e.doc, node: nodes[0]}, nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	var text string
	err := e.doc.run(ctx, chromedp.JavascriptAttribute(
		[]cdp.NodeID{e.node.NodeID}, "innerText", &text, chromedp.ByNodeID))
	if err != nil {
		return "", fmt.Errorf("inner text: %w", err)
	}
	return text, nil
}

// Attr reads name under the node's lock; chromedp rewrites attributes as the page mutates.
func (e *element) Attr(name string) (string, bool) {
	if e.node == nil {
		return "", false
	}
	return e.node.Attribute(name)
}
