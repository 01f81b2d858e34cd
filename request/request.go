// Package request holds the HTTP plumbing shared by the MusicBrainz client
// and the handle resolver.
package request

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"
)

// StatusError is a non-2xx response. Callers use Code to decide whether a
// failure is worth retrying.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http status code %d", e.Code)
	}
	return fmt.Sprintf("http status code %d: %s", e.Code, e.Body)
}

// Transient reports whether the status is the kind that tends to clear up on
// its own: server errors and rate limiting.
func (e *StatusError) Transient() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// Error checks the given http response for an error code, and, if one is
// present, reads (some of) the body into a StatusError.
func Error(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Code: resp.StatusCode, Body: string(body)}
}

// Get does an HTTP GET with the given User-Agent. The caller owns the
// response body on success.
func Get(ctx context.Context, client *http.Client, url, userAgent string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching '%s': %w", url, err)
	}
	return resp, nil
}

// FetchHTML does an HTTP GET on the given URL, then parses the response as
// HTML.
func FetchHTML(ctx context.Context, client *http.Client, url, userAgent string) (*goquery.Document, error) {
	resp, err := Get(ctx, client, url, userAgent)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := Error(resp); err != nil {
		return nil, fmt.Errorf("unexpected status from '%s': %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error parsing html from '%s': %w", url, err)
	}
	return doc, nil
}
