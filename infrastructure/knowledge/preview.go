package knowledge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgError "github.com/AzielCF/az-console/pkg/error"
	"github.com/PuerkitoBio/goquery"
)

const maxPreviewBody = 2 << 20

// Preview is what the knowledge step shows next to a URL before it is added.
type Preview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

type Previewer struct {
	client *http.Client
}

func NewPreviewer(timeout time.Duration) *Previewer {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Previewer{client: &http.Client{Timeout: timeout}}
}

func checkURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, pkgError.ValidationError("url: must be an absolute http(s) URL.")
	}
	return u, nil
}

// Fetch downloads raw and extracts its title and meta description. Non-HTML
// documents get their last path segment as title.
func (p *Previewer) Fetch(ctx context.Context, raw string) (Preview, error) {
	u, err := checkURL(raw)
	if err != nil {
		return Preview{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Preview{}, err
	}
	req.Header.Set("User-Agent", "az-console-knowledge-preview/1.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		return Preview{}, fmt.Errorf("fetch %s: %w", u.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Preview{}, pkgError.ValidationError(fmt.Sprintf("url: responded with status %d.", resp.StatusCode))
	}

	out := Preview{URL: u.String(), ContentType: resp.Header.Get("Content-Type")}
	if !strings.Contains(out.ContentType, "html") {
		out.Title = fallbackTitle(u)
		return out, nil
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPreviewBody))
	if err != nil {
		return Preview{}, fmt.Errorf("parse %s: %w", u.Host, err)
	}

	out.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if out.Title == "" {
		out.Title, _ = doc.Find(`meta[property="og:title"]`).Attr("content")
	}
	if out.Title == "" {
		out.Title = fallbackTitle(u)
	}
	desc, ok := doc.Find(`meta[name="description"]`).Attr("content")
	if !ok {
		desc, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
	}
	out.Description = strings.TrimSpace(desc)
	return out, nil
}

func fallbackTitle(u *url.URL) string {
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return u.Host
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
