package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/image-prompter/internal/model"
)

type fakeClient struct {
	uploadCalls   int
	workflowCalls int

	uploadedImage model.ImagePayload
	gotFileID     string
	gotPromptType model.PromptType
	gotQuery      string

	uploadID    string
	uploadErr   error
	workflowOut string
	workflowErr error
}

func (f *fakeClient) UploadFile(ctx context.Context, img model.ImagePayload) (string, error) {
	f.uploadCalls++
	f.uploadedImage = img
	return f.uploadID, f.uploadErr
}

func (f *fakeClient) RunWorkflow(ctx context.Context, fileID string, promptType model.PromptType, userQuery string) (string, error) {
	f.workflowCalls++
	f.gotFileID = fileID
	f.gotPromptType = promptType
	f.gotQuery = userQuery
	return f.workflowOut, f.workflowErr
}

func testRequest() model.GenerationRequest {
	return model.GenerationRequest{
		Image: model.ImagePayload{
			Data:     []byte{1, 2, 3},
			MIME:     model.MIMEJPEG,
			Filename: "cat.jpg",
		},
		PromptType: model.PromptMidjourney,
		UserQuery:  "describe this",
	}
}

func TestGenerate_RejectsInvalidPromptTypeBeforeAnyCall(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client)

	req := testRequest()
	req.PromptType = "watercolor"

	_, err := svc.Generate(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidPromptType)
	require.Zero(t, client.uploadCalls)
	require.Zero(t, client.workflowCalls)
}

func TestGenerate_RunsTwoStepProtocol(t *testing.T) {
	client := &fakeClient{uploadID: "file-9", workflowOut: "a cat on a roof"}
	svc := NewService(client)

	result, err := svc.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	require.Equal(t, "a cat on a roof", result)

	require.Equal(t, 1, client.uploadCalls)
	require.Equal(t, 1, client.workflowCalls)
	require.Equal(t, "file-9", client.gotFileID)
	require.Equal(t, model.PromptMidjourney, client.gotPromptType)
	require.Equal(t, "describe this", client.gotQuery)
}

func TestGenerate_DefaultsEmptyUserQuery(t *testing.T) {
	client := &fakeClient{uploadID: "file-9", workflowOut: "x"}
	svc := NewService(client)

	req := testRequest()
	req.UserQuery = ""

	_, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, DefaultUserQuery, client.gotQuery)
}

func TestGenerate_UploadFailureIsFatal(t *testing.T) {
	client := &fakeClient{uploadErr: errors.New("upstream down")}
	svc := NewService(client)

	_, err := svc.Generate(context.Background(), testRequest())
	require.Error(t, err)
	require.Zero(t, client.workflowCalls, "workflow must not run without an asset reference")
}

func TestGenerate_WorkflowFailureSurfaces(t *testing.T) {
	client := &fakeClient{uploadID: "file-9", workflowErr: errors.New("quota exceeded")}
	svc := NewService(client)

	_, err := svc.Generate(context.Background(), testRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerate_FillsMissingFilename(t *testing.T) {
	client := &fakeClient{uploadID: "file-9", workflowOut: "x"}
	svc := NewService(client)

	req := testRequest()
	req.Image.Filename = ""

	_, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(client.uploadedImage.Filename, ".jpg"))
	require.NotEqual(t, ".jpg", client.uploadedImage.Filename)
}
