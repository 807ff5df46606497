package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	GRPC    GRPCConfig    `yaml:"grpc" json:"grpc"`
	HTTP    HTTPConfig    `yaml:"http" json:"http"`
	Client  ClientConfig  `yaml:"client" json:"client"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig holds the gRPC listener configuration
type ServerConfig struct {
	Address         string        `yaml:"address" json:"address"`
	Port            int           `yaml:"port" json:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" json:"shutdownTimeout"`
}

// StorageConfig controls where and how uploaded streams are written
type StorageConfig struct {
	Directory     string `yaml:"directory" json:"directory"`
	ChunkSize     int    `yaml:"chunkSize" json:"chunkSize"`
	FileExtension string `yaml:"fileExtension" json:"fileExtension"`
	IDGenerator   string `yaml:"idGenerator" json:"idGenerator"` // uuid or sequence
}

// GRPCConfig holds gRPC-specific configuration
type GRPCConfig struct {
	MaxRecvMsgSize   int32         `yaml:"maxRecvMsgSize" json:"maxRecvMsgSize"`
	MaxSendMsgSize   int32         `yaml:"maxSendMsgSize" json:"maxSendMsgSize"`
	KeepAliveTime    time.Duration `yaml:"keepAliveTime" json:"keepAliveTime"`
	KeepAliveTimeout time.Duration `yaml:"keepAliveTimeout" json:"keepAliveTimeout"`
}

// HTTPConfig holds the optional plain HTTP binding
type HTTPConfig struct {
	Enabled           bool          `yaml:"enabled" json:"enabled"`
	Address           string        `yaml:"address" json:"address"`
	Port              int           `yaml:"port" json:"port"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout" json:"readHeaderTimeout"`
}

// ClientConfig is used by the upcli command
type ClientConfig struct {
	ServerAddr string        `yaml:"serverAddr" json:"serverAddr"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	ChunkSize  int           `yaml:"chunkSize" json:"chunkSize"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// DefaultConfig Default configuration values
var DefaultConfig = Config{
	Server: ServerConfig{
		Address:         "0.0.0.0",
		Port:            50061,
		ShutdownTimeout: 10 * time.Second,
	},
	Storage: StorageConfig{
		Directory:     ".",
		ChunkSize:     2048,
		FileExtension: ".dat",
		IDGenerator:   "uuid",
	},
	GRPC: GRPCConfig{
		MaxRecvMsgSize:   4 * 1024 * 1024, // 4MB
		MaxSendMsgSize:   4 * 1024 * 1024, // 4MB
		KeepAliveTime:    30 * time.Second,
		KeepAliveTimeout: 5 * time.Second,
	},
	HTTP: HTTPConfig{
		Enabled:           true,
		Address:           "0.0.0.0",
		Port:              8061,
		ReadHeaderTimeout: 10 * time.Second,
	},
	Client: ClientConfig{
		ServerAddr: "localhost:50061",
		Timeout:    5 * time.Minute,
		ChunkSize:  64 * 1024,
	},
	Logging: LoggingConfig{
		Level:  "INFO",
		Format: "text",
		Output: "stdout",
	},
}

// LoadConfig loads configuration from multiple sources in order of precedence:
// 1. Environment variables (highest precedence)
// 2. Configuration file
// 3. Default values (lowest precedence)
func LoadConfig() (*Config, string, error) {
	config := DefaultConfig

	path, err := loadFromFile(&config)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config file: %w", err)
	}

	if e := loadFromEnv(&config); e != nil {
		return nil, "", fmt.Errorf("failed to load environment variables: %w", e)
	}

	if e := config.Validate(); e != nil {
		return nil, "", fmt.Errorf("configuration validation failed: %w", e)
	}

	return &config, path, nil
}

func loadFromFile(config *Config) (string, error) {
	configPaths := []string{
		os.Getenv("UPLOAD_CONFIG_PATH"),
		"./config.yaml",
		"./config/config.yaml",
		"/etc/fileupload/config.yaml",
	}

	for _, path := range configPaths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return "", fmt.Errorf("failed to parse config file %s: %w", path, err)
		}

		return path, nil
	}

	return "built-in defaults (no config file found)", nil
}

func loadFromEnv(config *Config) error {
	// Server config
	if val := os.Getenv("UPLOAD_SERVER_ADDRESS"); val != "" {
		config.Server.Address = val
	}
	if val := os.Getenv("UPLOAD_SERVER_PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("UPLOAD_SERVER_PORT: %w", err)
		}
		config.Server.Port = port
	}
	if val := os.Getenv("UPLOAD_SHUTDOWN_TIMEOUT"); val != "" {
		if timeout, err := time.ParseDuration(val); err == nil {
			config.Server.ShutdownTimeout = timeout
		}
	}

	// Storage config
	if val := os.Getenv("UPLOAD_STORAGE_DIR"); val != "" {
		config.Storage.Directory = val
	}
	if val := os.Getenv("UPLOAD_CHUNK_SIZE"); val != "" {
		size, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("UPLOAD_CHUNK_SIZE: %w", err)
		}
		config.Storage.ChunkSize = size
	}
	if val := os.Getenv("UPLOAD_FILE_EXTENSION"); val != "" {
		config.Storage.FileExtension = val
	}
	if val := os.Getenv("UPLOAD_ID_GENERATOR"); val != "" {
		config.Storage.IDGenerator = val
	}

	// GRPC config
	if val := os.Getenv("UPLOAD_GRPC_MAX_RECV_MSG_SIZE"); val != "" {
		if size, err := strconv.ParseInt(val, 10, 32); err == nil {
			config.GRPC.MaxRecvMsgSize = int32(size)
		}
	}
	if val := os.Getenv("UPLOAD_GRPC_MAX_SEND_MSG_SIZE"); val != "" {
		if size, err := strconv.ParseInt(val, 10, 32); err == nil {
			config.GRPC.MaxSendMsgSize = int32(size)
		}
	}
	if val := os.Getenv("UPLOAD_GRPC_KEEPALIVE_TIME"); val != "" {
		if keepAlive, err := time.ParseDuration(val); err == nil {
			config.GRPC.KeepAliveTime = keepAlive
		}
	}
	if val := os.Getenv("UPLOAD_GRPC_KEEPALIVE_TIMEOUT"); val != "" {
		if timeout, err := time.ParseDuration(val); err == nil {
			config.GRPC.KeepAliveTimeout = timeout
		}
	}

	// HTTP config
	if val := os.Getenv("UPLOAD_HTTP_ENABLED"); val != "" {
		config.HTTP.Enabled = val == "true" || val == "1"
	}
	if val := os.Getenv("UPLOAD_HTTP_ADDRESS"); val != "" {
		config.HTTP.Address = val
	}
	if val := os.Getenv("UPLOAD_HTTP_PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("UPLOAD_HTTP_PORT: %w", err)
		}
		config.HTTP.Port = port
	}

	// Client config
	if val := os.Getenv("UPLOAD_CLIENT_SERVER_ADDR"); val != "" {
		config.Client.ServerAddr = val
	}

	// Logging config
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		config.Logging.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		config.Logging.Format = val
	}
	if val := os.Getenv("LOG_OUTPUT"); val != "" {
		config.Logging.Output = val
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.HTTP.Enabled && (c.HTTP.Port < 0 || c.HTTP.Port > 65535) {
		return fmt.Errorf("invalid http port: %d", c.HTTP.Port)
	}

	if c.Storage.ChunkSize <= 0 {
		return fmt.Errorf("invalid storage chunk size: %d", c.Storage.ChunkSize)
	}

	if strings.TrimSpace(c.Storage.Directory) == "" {
		return fmt.Errorf("storage directory must not be empty")
	}

	if c.Storage.FileExtension != "" && !strings.HasPrefix(c.Storage.FileExtension, ".") {
		return fmt.Errorf("file extension must start with a dot: %s", c.Storage.FileExtension)
	}

	switch strings.ToLower(c.Storage.IDGenerator) {
	case "", "uuid", "sequence":
	default:
		return fmt.Errorf("invalid id generator: %s", c.Storage.IDGenerator)
	}

	validLevels := map[string]bool{
		"DEBUG": true, "INFO": true, "WARN": true, "WARNING": true, "ERROR": true,
	}
	if !validLevels[strings.ToUpper(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

func (c *Config) GetHTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Address, c.HTTP.Port)
}

func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) SaveToFile(path string) error {
	data, err := c.ToYAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFromFile loads a specific configuration file
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// GenerateDefaultConfig creates a default configuration file
func GenerateDefaultConfig(path string) error {
	config := DefaultConfig
	return config.SaveToFile(path)
}
