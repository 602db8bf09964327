package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-prompter/internal/imagex"
	"github.com/aliskhannn/image-prompter/internal/model"
)

var (
	ErrInvalidURL  = errors.New("invalid image url")
	ErrNotAnImage  = errors.New("url does not point to an image")
	ErrRemoteFetch = errors.New("failed to fetch remote image")
)

// Some origins refuse requests without a browser-like User-Agent.
const userAgent = "Mozilla/5.0"

// Fetcher proxies arbitrary user-supplied image URLs. It is the trust
// boundary for remote content: the response is treated as untrusted binary
// data, validated by declared type and recompressed when it exceeds the
// canonical budget.
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher whose outbound calls are bounded by timeout.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// NewWithClient creates a Fetcher around an existing HTTP client.
func NewWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch downloads the image at rawURL and returns canonical bytes together
// with their content type. Bodies over the budget are fitted into a
// 2000x2000 box and re-encoded as JPEG; smaller bodies pass through
// untouched with their original content type.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRemoteFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: status %d", ErrRemoteFetch, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("%w: content type %q", ErrNotAnImage, contentType)
	}

	// Cap the read: anything beyond the source ceiling is refused rather
	// than buffered.
	body, err := io.ReadAll(io.LimitReader(resp.Body, imagex.MaxSourceBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read body: %v", ErrRemoteFetch, err)
	}
	if len(body) > imagex.MaxSourceBytes {
		return nil, "", fmt.Errorf("%w: body exceeds %d bytes", ErrRemoteFetch, imagex.MaxSourceBytes)
	}

	if len(body) > imagex.MaxImageBytes {
		zlog.Logger.Info().
			Int("size", len(body)).
			Str("url", u.String()).
			Msg("remote image over budget, recompressing")

		compressed, err := imagex.FitBounds(body)
		if err != nil {
			return nil, "", err
		}

		return compressed, model.MIMEJPEG, nil
	}

	return body, contentType, nil
}
