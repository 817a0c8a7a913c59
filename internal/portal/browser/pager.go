package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Pager is the small capability surface the login machine and the
// extractors need from a live page. Keeping them behind this interface
// lets the whole SSO sequence run against a fake in tests.
type Pager interface {
	// Navigate loads the URL and waits for the load event.
	Navigate(url string, timeout time.Duration) error
	// WaitVisible waits until an element matching the selector is
	// visible, up to the timeout.
	WaitVisible(selector string, timeout time.Duration) error
	// Click finds the selector and clicks it.
	Click(selector string, timeout time.Duration) error
	// ClickByText clicks the first element matching the selector whose
	// visible text matches the regex pattern. Used where element ids are
	// not stable across portal deployments.
	ClickByText(selector, pattern string, timeout time.Duration) error
	// Input types text into the element matching the selector.
	Input(selector, text string, timeout time.Duration) error
	// HTML returns the current document HTML.
	HTML() (string, error)
	// URL returns the current page URL, or "" if it cannot be read.
	URL() string
}

type rodPager struct {
	page *rod.Page
}

// NewPager wraps a rod page in the Pager interface.
func NewPager(page *rod.Page) Pager {
	return &rodPager{page: page}
}

func (p *rodPager) Navigate(url string, timeout time.Duration) error {
	page := p.page.Timeout(timeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

func (p *rodPager) WaitVisible(selector string, timeout time.Duration) error {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element %s: %w", selector, err)
	}
	if err := el.Timeout(timeout).WaitVisible(); err != nil {
		return fmt.Errorf("wait visible %s: %w", selector, err)
	}
	return nil
}

func (p *rodPager) Click(selector string, timeout time.Duration) error {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element %s: %w", selector, err)
	}
	if err := el.Timeout(timeout).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (p *rodPager) ClickByText(selector, pattern string, timeout time.Duration) error {
	el, err := p.page.Timeout(timeout).ElementR(selector, pattern)
	if err != nil {
		return fmt.Errorf("element %s %q: %w", selector, pattern, err)
	}
	if err := el.Timeout(timeout).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s %q: %w", selector, pattern, err)
	}
	return nil
}

func (p *rodPager) Input(selector, text string, timeout time.Duration) error {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element %s: %w", selector, err)
	}
	if err := el.Timeout(timeout).Input(text); err != nil {
		return fmt.Errorf("input %s: %w", selector, err)
	}
	return nil
}

func (p *rodPager) HTML() (string, error) {
	return p.page.HTML()
}

func (p *rodPager) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}
