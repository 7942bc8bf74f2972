// Package ianadist obtains tzdb source files: from a directory, from a release
// archive, or by downloading the latest release from the [IANA data server].
//
// Downloads are conditional on an [ETag]. Callers that keep the ETag of the
// previous download and pass it back avoid fetching an unchanged release.
//
// [ETag]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/ETag
// [IANA data server]: https://www.iana.org/time-zones
package ianadist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	baseURL        = "https://data.iana.org/time-zones/"
	latestDataPath = "tzdata-latest.tar.gz"
	emptyEtag      = ""
)

// DefaultClient is used by the package-level Latest and Download.
var DefaultClient = &Client{}

// Client downloads releases. The zero value is ready to use.
type Client struct {
	// HTTPClient sends the requests; http.DefaultClient if nil.
	// Tests replace its transport to serve canned responses.
	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// Latest calls DefaultClient.Latest.
func Latest(ctx context.Context, etag string) (*Release, string, error) {
	return DefaultClient.Latest(ctx, etag)
}

// Latest downloads and unpacks the latest release.
//
// If the release still matches etag, Latest returns a nil Release together with
// the same etag and a nil error. On error the returned etag is empty.
func (c *Client) Latest(ctx context.Context, etag string) (*Release, string, error) {
	body, newEtag, err := c.Download(ctx, latestDataPath, etag)
	if err != nil {
		return nil, emptyEtag, err
	}
	if body == nil {
		return nil, etag, nil
	}
	defer func() {
		_, _ = io.Copy(io.Discard, body)
		_ = body.Close()
	}()

	release, err := ReadArchive(body)
	if err != nil {
		return nil, emptyEtag, err
	}
	return release, newEtag, nil
}

// Download calls DefaultClient.Download.
func Download(ctx context.Context, path, etag string) (io.ReadCloser, string, error) {
	return DefaultClient.Download(ctx, path, etag)
}

// Download fetches path relative to the data server root.
//
// The returned body must be read and closed by the caller. A nil body with a nil
// error means the resource still matches etag, which is then returned unchanged.
// Status codes other than 200 and 304 are errors. ctx governs the request.
func (c *Client) Download(ctx context.Context, path, etag string) (io.ReadCloser, string, error) {
	u, err := url.JoinPath(baseURL, path)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("join URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("create request for %q: %w", u, err)
	}
	if etag != emptyEtag {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, emptyEtag, fmt.Errorf("GET %q: %w", u, err)
	}
	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusNotModified {
			return nil, etag, nil
		}
		return nil, emptyEtag, fmt.Errorf("response for %q: unexpected status: %s", u, resp.Status)
	}
	return resp.Body, resp.Header.Get("etag"), nil
}
