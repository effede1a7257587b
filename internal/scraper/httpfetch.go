package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// FallbackText fetches a page over plain HTTP and extracts the body text
// with goquery. It is the rescue path for server-rendered pages when the
// browser path fails; JavaScript-rendered content will not appear here.
func FallbackText(ctx context.Context, url, userAgent string) (string, error) {
	log.Printf("🪂 Falling back to plain HTTP fetch: %s", url)

	client := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")

	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("http fetch failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("http fetch returned status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", fmt.Errorf("could not parse html: %w", err)
	}

	//drop the nodes whose text is not page content
	doc.Find("script, style, noscript, template").Remove()

	normalized := NormalizeText(doc.Find("body").Text())
	if normalized == "" {
		return "", fmt.Errorf("page has empty body: %s", url)
	}
	return normalized, nil
}
