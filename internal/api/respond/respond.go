package respond

import (
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"
)

// Prompt represents a successful generation response.
type Prompt struct {
	Success bool   `json:"success"`
	Prompt  string `json:"prompt"`
}

// Error represents a standard structure for error responses.
// Internal detail never leaks through it, only the message.
type Error struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Health represents the liveness probe body.
type Health struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// JSON sends a JSON response with the specified HTTP status code and data.
func JSON(c *ginext.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// OK sends a 200 OK response carrying the generated prompt.
func OK(c *ginext.Context, prompt string) {
	JSON(c, http.StatusOK, Prompt{Success: true, Prompt: prompt})
}

// Fail sends an error JSON response with the specified HTTP status code.
func Fail(c *ginext.Context, status int, err error) {
	JSON(c, status, Error{Success: false, Error: err.Error()})
}

// Healthy sends the liveness probe response.
func Healthy(c *ginext.Context, message string) {
	JSON(c, http.StatusOK, Health{
		Success:   true,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Image sends raw image bytes with the given content type.
func Image(c *ginext.Context, status int, contentType string, data []byte) {
	c.Data(status, contentType, data)
}
