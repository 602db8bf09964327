package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-prompter/internal/model"
)

var ErrInvalidPromptType = errors.New("invalid promptType")

// DefaultUserQuery is sent to the workflow when the caller provides none.
const DefaultUserQuery = "请描述一下这个图片"

// workflowClient defines the interface for the external workflow service.
type workflowClient interface {
	UploadFile(ctx context.Context, img model.ImagePayload) (string, error)
	RunWorkflow(ctx context.Context, fileID string, promptType model.PromptType, userQuery string) (string, error)
}

// Service orchestrates prompt generation: it validates the request, uploads
// the image bytes, then invokes the workflow with the asset reference. One
// request yields at most one asset reference and one result; nothing is
// cached or reused across requests.
type Service struct {
	coze workflowClient
}

// NewService creates a new Service with the given workflow client.
func NewService(c workflowClient) *Service {
	return &Service{coze: c}
}

// Generate runs the two-step protocol for one request. The prompt style is
// validated before any external call. Upload failure is fatal for the whole
// request: the orchestrator only holds bytes, so there is no URL fallback
// to offer the workflow.
func (s *Service) Generate(ctx context.Context, req model.GenerationRequest) (string, error) {
	if !req.PromptType.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPromptType, req.PromptType)
	}

	query := req.UserQuery
	if query == "" {
		query = DefaultUserQuery
	}

	img := req.Image
	if img.Filename == "" {
		img.Filename = uuid.New().String() + ".jpg"
	}

	requestID := uuid.New().String()
	zlog.Logger.Info().
		Str("request_id", requestID).
		Str("prompt_type", string(req.PromptType)).
		Int("image_bytes", img.Size()).
		Msg("starting prompt generation")

	fileID, err := s.coze.UploadFile(ctx, img)
	if err != nil {
		zlog.Logger.Err(err).Str("request_id", requestID).Msg("no asset id obtained")
		return "", fmt.Errorf("generate: upload image: %w", err)
	}

	result, err := s.coze.RunWorkflow(ctx, fileID, req.PromptType, query)
	if err != nil {
		zlog.Logger.Err(err).Str("request_id", requestID).Msg("workflow invocation failed")
		return "", fmt.Errorf("generate: run workflow: %w", err)
	}

	zlog.Logger.Info().Str("request_id", requestID).Msg("prompt generated")

	return result, nil
}
