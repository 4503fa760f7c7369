package changelog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultRemoteTimeout is the default timeout for remote document fetches.
const DefaultRemoteTimeout = 5 * time.Second

// RemoteChangelogURL is the URL for fetching the canonical changelog
// document. Can be overridden for testing.
var RemoteChangelogURL = "https://raw.githubusercontent.com/relog-cli/relog/main/internal/changelog/changelog.relog"

// FetchRemote fetches the changelog document from the remote
// repository. The context controls timeout and cancellation.
func FetchRemote(ctx context.Context) (*Document, error) {
	doc, err := fetchFromURL(ctx, RemoteChangelogURL)
	if err != nil {
		return nil, fmt.Errorf("fetching remote changelog: %w", err)
	}
	return doc, nil
}

// FetchRemoteWithFallback fetches the remote document, falling back to
// the embedded one on failure. The boolean reports whether the result
// came from the remote.
func FetchRemoteWithFallback(ctx context.Context) (*Document, bool, error) {
	doc, err := FetchRemote(ctx)
	if err == nil {
		return doc, true, nil
	}

	embedded, embErr := LoadEmbedded()
	if embErr != nil {
		return nil, false, fmt.Errorf("remote failed (%v) and embedded failed: %w", err, embErr)
	}

	return embedded, false, nil
}

func fetchFromURL(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return LoadFromReader(bytes.NewReader(body))
}
