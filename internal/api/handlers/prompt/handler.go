package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-prompter/internal/api/respond"
	"github.com/aliskhannn/image-prompter/internal/imagex"
	"github.com/aliskhannn/image-prompter/internal/model"
	promptsvc "github.com/aliskhannn/image-prompter/internal/service/prompt"
)

// service defines the interface for prompt generation.
type service interface {
	Generate(ctx context.Context, req model.GenerationRequest) (string, error)
}

// Handler provides HTTP handlers for prompt generation endpoints.
type Handler struct {
	service service
}

// NewHandler creates a new Handler with the given service.
func NewHandler(s service) *Handler {
	return &Handler{service: s}
}

// Generate handles POST /api/generate-prompt. It reads the multipart form,
// normalizes the uploaded image to the canonical budget, and hands the
// request to the orchestrator. All validation happens here, before any
// external call is made.
func (h *Handler) Generate(c *ginext.Context) {
	if err := c.Request.ParseMultipartForm(imagex.MaxSourceBytes); err != nil {
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("parse multipart form failed: %v", err))
		return
	}

	file, header, err := c.Request.FormFile("img")
	if err != nil {
		zlog.Logger.Warn().Msg("generate request without image file")
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("missing image file"))
		return
	}
	defer file.Close()

	promptType := model.PromptType(c.PostForm("promptType"))
	if promptType == "" {
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("missing promptType parameter"))
		return
	}
	if !promptType.Valid() {
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("invalid promptType: %q", promptType))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		zlog.Logger.Err(err).Msg("failed to read uploaded file")
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("failed to read image file"))
		return
	}

	payload, err := imagex.Normalize(data, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		zlog.Logger.Err(err).Str("filename", header.Filename).Msg("failed to normalize image")
		respond.Fail(c, statusFor(err), err)
		return
	}

	result, err := h.service.Generate(c.Request.Context(), model.GenerationRequest{
		Image:      payload,
		PromptType: promptType,
		UserQuery:  c.PostForm("userQuery"),
	})
	if err != nil {
		zlog.Logger.Err(err).Msg("prompt generation failed")
		respond.Fail(c, statusFor(err), err)
		return
	}

	respond.OK(c, result)
}

// Health handles GET /api/health.
func (h *Handler) Health(c *ginext.Context) {
	respond.Healthy(c, "API is running")
}

// statusFor maps pipeline errors to HTTP classes: the caller's fault is
// 400, everything else is 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, imagex.ErrUnsupportedType),
		errors.Is(err, imagex.ErrTooLarge),
		errors.Is(err, imagex.ErrProcessing),
		errors.Is(err, promptsvc.ErrInvalidPromptType):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
