package markitdownmcp

import "time"

type ServerConfig struct {
	Name           string `env:"MCP_SERVER_NAME,default=markitdown-mcp"`
	Version        string `env:"MCP_SERVER_VERSION,default=0.1.0"`
	CallLogPath    string `env:"MCP_CALL_LOG_PATH"`
	CallLogWebhook string `env:"MCP_CALL_LOG_WEBHOOK"`
	OtelEnabled    bool   `env:"MCP_OTEL_ENABLED,default=false"`
	Debug          bool   `env:"MCP_DEBUG,default=false"`
}

type ConverterConfig struct {
	Backend        string        `env:"MARKITDOWN_BACKEND,default=cli"`
	Binary         string        `env:"MARKITDOWN_BIN,default=markitdown"`
	Image          string        `env:"MARKITDOWN_IMAGE,default=markitdown:latest"`
	HTTPTimeout    time.Duration `env:"MARKITDOWN_HTTP_TIMEOUT,default=60s"`
	UserAgent      string        `env:"MARKITDOWN_USER_AGENT,default=markitdown-mcp/0.1"`
	HTTPMaxRetries int           `env:"MARKITDOWN_HTTP_MAX_RETRIES,default=3"`
	S3Enabled      bool          `env:"MARKITDOWN_S3_ENABLED,default=false"`
}
