package coze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-prompter/internal/config"
	"github.com/aliskhannn/image-prompter/internal/model"
)

var (
	ErrNoToken   = errors.New("coze api token is not configured")
	ErrNoAssetID = errors.New("upload response carries no asset id")
	ErrUpload    = errors.New("file upload failed")
	ErrWorkflow  = errors.New("workflow invocation failed")
)

const (
	uploadPath   = "/v1/files/upload"
	workflowPath = "/v1/workflow/run"

	uploadTimeout   = 30 * time.Second
	workflowTimeout = 120 * time.Second
)

// Client drives the two-step workflow protocol: upload the image bytes,
// then invoke the workflow with the returned asset reference.
type Client struct {
	cfg      config.Coze
	client   *http.Client
	strategy retry.Strategy
}

// NewClient creates a Client. The retry strategy applies to the upload leg
// only; the workflow invocation is always a single attempt.
func NewClient(cfg config.Coze, s retry.Strategy) *Client {
	return &Client{
		cfg:      cfg,
		client:   &http.Client{},
		strategy: s,
	}
}

// uploadResponse covers the asset-id locations observed across service
// versions. The id is probed in a fixed order; see assetID.
type uploadResponse struct {
	Data struct {
		ID     string `json:"id"`
		FileID string `json:"file_id"`
	} `json:"data"`
	ID     string `json:"id"`
	FileID string `json:"file_id"`
}

// assetID returns the first asset id present, probing data.id, data.file_id,
// id, file_id in that order. Empty means the upload did not yield an asset.
func (r uploadResponse) assetID() string {
	switch {
	case r.Data.ID != "":
		return r.Data.ID
	case r.Data.FileID != "":
		return r.Data.FileID
	case r.ID != "":
		return r.ID
	case r.FileID != "":
		return r.FileID
	}
	return ""
}

// UploadFile sends the image to the file-upload endpoint and returns the
// asset reference. The call is retried per the configured strategy since
// uploading the same bytes twice is harmless.
func (c *Client) UploadFile(ctx context.Context, img model.ImagePayload) (string, error) {
	if c.cfg.APIToken == "" {
		return "", ErrNoToken
	}

	var fileID string
	err := retry.Do(func() error {
		id, err := c.uploadOnce(ctx, img)
		if err != nil {
			return err
		}
		fileID = id
		return nil
	}, c.strategy)
	if err != nil {
		return "", err
	}

	return fileID, nil
}

func (c *Client) uploadOnce(ctx context.Context, img model.ImagePayload) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	body := bytes.NewBuffer(nil)
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, img.Filename))
	header.Set("Content-Type", img.MIME)

	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("%w: create form part: %v", ErrUpload, err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return "", fmt.Errorf("%w: write form part: %v", ErrUpload, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: close form: %v", ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+uploadPath, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUpload, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d: %s", ErrUpload, resp.StatusCode, raw)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpload, err)
	}

	id := parsed.assetID()
	if id == "" {
		return "", ErrNoAssetID
	}

	zlog.Logger.Debug().Str("file_id", id).Msg("image uploaded to coze")

	return id, nil
}

// workflowRequest is the run call payload. Parameters.Img is a JSON-encoded
// string, not a raw object: the protocol requires double encoding.
type workflowRequest struct {
	WorkflowID string             `json:"workflow_id"`
	Parameters workflowParameters `json:"parameters"`
}

type workflowParameters struct {
	UserQuery  string `json:"userQuery"`
	Img        string `json:"img"`
	PromptType string `json:"promptType"`
}

type workflowResponse struct {
	Code     int             `json:"code"`
	Msg      string          `json:"msg"`
	Data     json.RawMessage `json:"data"`
	DebugURL string          `json:"debug_url"`
}

// RunWorkflow invokes the workflow with the uploaded asset reference and
// returns the normalized prompt text. Single attempt: the upstream is not
// known to be idempotent.
func (c *Client) RunWorkflow(ctx context.Context, fileID string, promptType model.PromptType, userQuery string) (string, error) {
	if c.cfg.APIToken == "" {
		return "", ErrNoToken
	}

	ctx, cancel := context.WithTimeout(ctx, workflowTimeout)
	defer cancel()

	imgParam, err := json.Marshal(map[string]string{"file_id": fileID})
	if err != nil {
		return "", fmt.Errorf("%w: encode img parameter: %v", ErrWorkflow, err)
	}

	payload := workflowRequest{
		WorkflowID: c.cfg.WorkflowID,
		Parameters: workflowParameters{
			UserQuery:  userQuery,
			Img:        string(imgParam),
			PromptType: string(promptType),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrWorkflow, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+workflowPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWorkflow, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWorkflow, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrWorkflow, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		zlog.Logger.Error().Int("status", resp.StatusCode).Bytes("body", raw).Msg("workflow call failed")
		return "", fmt.Errorf("%w: status %d", ErrWorkflow, resp.StatusCode)
	}

	var parsed workflowResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrWorkflow, err)
	}

	if parsed.DebugURL != "" {
		zlog.Logger.Debug().Str("debug_url", parsed.DebugURL).Msg("workflow executed")
	}

	if parsed.Code != 0 {
		if parsed.Msg != "" {
			return "", fmt.Errorf("%w: %s", ErrWorkflow, parsed.Msg)
		}
		return "", fmt.Errorf("%w: code %d", ErrWorkflow, parsed.Code)
	}

	return normalizeData(parsed.Data), nil
}
