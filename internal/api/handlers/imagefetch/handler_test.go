package imagefetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/ginext"

	"github.com/aliskhannn/image-prompter/internal/fetcher"
)

type fakeFetcher struct {
	calls       int
	gotURL      string
	data        []byte
	contentType string
	err         error
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	f.calls++
	f.gotURL = rawURL
	return f.data, f.contentType, f.err
}

func newTestRouter(f imageFetcher) *ginext.Engine {
	h := NewHandler(f)

	r := ginext.New()
	r.POST("/api/fetch-image", h.Fetch)

	return r
}

func postJSON(r *ginext.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/fetch-image", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestFetch_MissingURL(t *testing.T) {
	f := &fakeFetcher{}
	rec := postJSON(newTestRouter(f), `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, f.calls)
}

func TestFetch_InvalidBody(t *testing.T) {
	f := &fakeFetcher{}
	rec := postJSON(newTestRouter(f), `not json`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, f.calls)
}

func TestFetch_InvalidURLIsCallersFault(t *testing.T) {
	f := &fakeFetcher{err: fmt.Errorf("%w: ftp", fetcher.ErrInvalidURL)}
	rec := postJSON(newTestRouter(f), `{"url":"ftp://example.com/a.jpg"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotEmpty(t, resp.Error)
}

func TestFetch_NonImageIsCallersFault(t *testing.T) {
	f := &fakeFetcher{err: fmt.Errorf("%w: text/html", fetcher.ErrNotAnImage)}
	rec := postJSON(newTestRouter(f), `{"url":"https://example.com/page"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetch_UpstreamFailureIsServerError(t *testing.T) {
	f := &fakeFetcher{err: fmt.Errorf("%w: connection refused", fetcher.ErrRemoteFetch)}
	rec := postJSON(newTestRouter(f), `{"url":"https://example.com/a.jpg"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFetch_ReturnsImageBytes(t *testing.T) {
	f := &fakeFetcher{data: []byte{0x89, 0x50}, contentType: "image/png"}
	rec := postJSON(newTestRouter(f), `{"url":"https://example.com/a.png"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, []byte{0x89, 0x50}, rec.Body.Bytes())
	require.Equal(t, "https://example.com/a.png", f.gotURL)
}
