package imagefetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-prompter/internal/api/respond"
	"github.com/aliskhannn/image-prompter/internal/fetcher"
)

// imageFetcher defines the interface for the remote image proxy.
type imageFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, string, error)
}

// Handler provides the HTTP handler for the remote image proxy endpoint.
type Handler struct {
	fetcher imageFetcher
}

// NewHandler creates a new Handler with the given fetcher.
func NewHandler(f imageFetcher) *Handler {
	return &Handler{fetcher: f}
}

// FetchRequest is the JSON body of a fetch-image call.
type FetchRequest struct {
	URL string `json:"url"`
}

// Fetch handles POST /api/fetch-image. The browser cannot load arbitrary
// cross-origin URLs itself, so the server fetches on its behalf and streams
// canonical image bytes back.
func (h *Handler) Fetch(c *ginext.Context) {
	var req FetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}
	if req.URL == "" {
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("missing url parameter"))
		return
	}

	data, contentType, err := h.fetcher.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		zlog.Logger.Err(err).Str("url", req.URL).Msg("failed to fetch remote image")
		respond.Fail(c, statusFor(err), err)
		return
	}

	respond.Image(c, http.StatusOK, contentType, data)
}

// statusFor maps fetch errors to HTTP classes: a bad URL or non-image
// content is the caller's fault, an unreachable origin is not.
func statusFor(err error) int {
	switch {
	case errors.Is(err, fetcher.ErrInvalidURL), errors.Is(err, fetcher.ErrNotAnImage):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
