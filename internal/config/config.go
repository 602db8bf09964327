package config

import (
	"os"
	"time"

	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/zlog"
)

// Config holds the main configuration for the application.
// It is built once at startup and read-only afterwards.
type Config struct {
	Server Server `mapstructure:"server"`
	Coze   Coze   `mapstructure:"coze"`
	Fetch  Fetch  `mapstructure:"fetch"`
	Retry  Retry  `mapstructure:"retry"`
}

// Server holds HTTP server-related configuration.
type Server struct {
	HTTPPort string `mapstructure:"http_port"` // HTTP port to listen on
}

// Coze holds configuration for the external workflow service.
// APIToken comes from the environment, never from the config file.
type Coze struct {
	BaseURL    string `mapstructure:"base_url"`    // API base, e.g. https://api.coze.cn
	WorkflowID string `mapstructure:"workflow_id"` // workflow to invoke
	APIToken   string `mapstructure:"-"`
}

// Fetch holds configuration for the remote image proxy.
type Fetch struct {
	Timeout time.Duration `mapstructure:"timeout"` // deadline for the outbound image fetch
}

// Retry defines retry policy configuration for the asset-upload call.
type Retry struct {
	Attempts int           `mapstructure:"attempts"` // Number of retry attempts
	Delay    time.Duration `mapstructure:"delay"`    // Initial delay between retries
	Backoff  float64       `mapstructure:"backoff"`  // Backoff multiplier for delays
}

// Defaults applied when the config file leaves a field empty.
const (
	DefaultBaseURL      = "https://api.coze.cn"
	DefaultWorkflowID   = "7569042190087159859"
	DefaultFetchTimeout = 10 * time.Second
)

// MustLoad loads the configuration from the specified file path.
// It panics if the configuration file cannot be loaded or unmarshaled.
func MustLoad(path string) *Config {
	c := config.New()

	if err := c.Load(path); err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to load config")
	}

	var cfg Config
	if err := c.Unmarshal(&cfg); err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to unmarshal config")
	}

	if cfg.Coze.BaseURL == "" {
		cfg.Coze.BaseURL = DefaultBaseURL
	}
	if cfg.Coze.WorkflowID == "" {
		cfg.Coze.WorkflowID = DefaultWorkflowID
	}
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = DefaultFetchTimeout
	}

	// The auth token is the only secret; it is read exactly once here.
	cfg.Coze.APIToken = os.Getenv("COZE_API_TOKEN")
	if cfg.Coze.APIToken == "" {
		zlog.Logger.Warn().Msg("COZE_API_TOKEN is not set, generation requests will fail")
	}

	return &cfg
}
