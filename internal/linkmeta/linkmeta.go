// Package linkmeta fetches a job posting's page title and description so the
// UI can preview a saved link. Best effort: the tracker works fine when a
// posting has been taken down.
package linkmeta

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type Preview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Fetcher struct {
	hc      *http.Client
	limiter *hostLimiter
}

func New(timeout time.Duration, reqPerSec float64, burst int) *Fetcher {
	return &Fetcher{
		hc:      &http.Client{Timeout: timeout},
		limiter: newHostLimiter(reqPerSec, burst),
	}
}

func (f *Fetcher) Fetch(ctx context.Context, raw string) (Preview, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Preview{}, fmt.Errorf("link preview: not a fetchable URL: %q", raw)
	}

	if err := f.limiter.waitURL(ctx, u.String()); err != nil {
		return Preview{}, err
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	req.Header.Set("User-Agent", "JobTrack/1.0 (+local)")

	res, err := f.hc.Do(req)
	if err != nil {
		return Preview{}, fmt.Errorf("link preview get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return Preview{}, fmt.Errorf("link preview status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return Preview{}, fmt.Errorf("link preview parse html: %w", err)
	}

	p := Preview{URL: u.String()}

	// og:title tends to carry the clean posting title; <title> is the fallback.
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		p.Title = strings.TrimSpace(og)
	} else {
		p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		p.Description = strings.TrimSpace(desc)
	}
	if p.Description == "" {
		if og, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
			p.Description = strings.TrimSpace(og)
		}
	}

	if p.Title == "" {
		return Preview{}, fmt.Errorf("link preview: no title found at %s", u.Host)
	}
	return p, nil
}
