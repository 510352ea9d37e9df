package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Journal JournalConfig
	Client  ClientConfig
	MCP     MCPConfig `mapstructure:"mcp"`
}

// ServerConfig holds the relay listener configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// JournalConfig points at the optional SQLite audit trail. An empty path
// disables it.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// ClientConfig is used by the CLI subcommands and the MCP server to reach a
// running relay.
type ClientConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MCPConfig names the agent the MCP tools act as, and its default peer.
type MCPConfig struct {
	Agent string `mapstructure:"agent"`
	Peer  string `mapstructure:"peer"`
}

const envPrefix = "BRIDGE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 9999)
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("log.level", "info")
	v.SetDefault("journal.path", "")
	v.SetDefault("client.url", "http://localhost:9999")
	v.SetDefault("client.timeout", "10s")
	v.SetDefault("mcp.agent", "claude-code")
	v.SetDefault("mcp.peer", "browser")
}

// Load reads configuration from path, or from $CONFIG_PATH, or from
// ./config.yaml, in that order. Only an explicitly named file has to exist.
// BRIDGE_* environment variables override file values (BRIDGE_SERVER_PORT
// for server.port).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects values the relay cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Client.URL == "" {
		return errors.New("client.url must not be empty")
	}
	if c.MCP.Agent == "" {
		return errors.New("mcp.agent must not be empty")
	}
	return nil
}
