package discord

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// downloadTimeout bounds a single attachment fetch from Discord's CDN.
const downloadTimeout = 2 * time.Minute

// httpSource fetches attachment bytes from a CDN URL when the pipeline's
// acquisition stage asks for them.
type httpSource struct {
	url    string
	client *http.Client
}

func newHTTPSource(url string) httpSource {
	return httpSource{
		url:    url,
		client: &http.Client{Timeout: downloadTimeout},
	}
}

// Open issues the download request. The caller owns the returned body.
func (s httpSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download attachment: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download attachment: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}
