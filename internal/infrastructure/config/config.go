package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the configuration for both services
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Comments  CommentsConfig  `mapstructure:"comments"`
	Detection DetectionConfig `mapstructure:"detection"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CommentsConfig holds the comment grouping service settings
type CommentsConfig struct {
	Server ServerConfig `mapstructure:"server"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

// LLMConfig holds the chat completion API settings
type LLMConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	Temperature       float32       `mapstructure:"temperature"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// RedisConfig holds the grouping cache settings
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Addr returns host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DetectionConfig holds the pothole detection service settings
type DetectionConfig struct {
	Server   ServerConfig   `mapstructure:"server"`
	Model    ModelConfig    `mapstructure:"model"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Database DatabaseConfig `mapstructure:"database"`
}

// ModelConfig selects and configures the classifier backend
type ModelConfig struct {
	Backend    string        `mapstructure:"backend"`
	ServingURL string        `mapstructure:"serving_url"`
	Name       string        `mapstructure:"name"`
	Timeout    time.Duration `mapstructure:"timeout"`
	SavedModel string        `mapstructure:"saved_model"`
	Tags       []string      `mapstructure:"tags"`
	InputOp    string        `mapstructure:"input_op"`
	OutputOp   string        `mapstructure:"output_op"`
	ImageSize  int           `mapstructure:"image_size"`
	MaxPixels  int           `mapstructure:"max_pixels"`
	Threshold  float64       `mapstructure:"threshold"`
}

// UploadConfig holds upload storage settings
type UploadConfig struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

// DatabaseConfig holds the detection history database settings
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Model backends
const (
	BackendServing    = "serving"
	BackendTensorFlow = "tensorflow"
	BackendNone       = "none"
)

// Load reads configuration from defaults, an optional config file and
// CIVIC_* environment variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CIVIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("comments.llm.api_key", "CIVIC_COMMENTS_LLM_API_KEY", "GROQ_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("comments.server.host", "0.0.0.0")
	v.SetDefault("comments.server.port", 5004)
	v.SetDefault("comments.server.mode", "release")
	v.SetDefault("comments.llm.api_key", "")
	v.SetDefault("comments.llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("comments.llm.model", "llama3-70b-8192")
	v.SetDefault("comments.llm.temperature", 0.3)
	v.SetDefault("comments.llm.max_tokens", 1500)
	v.SetDefault("comments.llm.timeout", 30*time.Second)
	v.SetDefault("comments.llm.requests_per_second", 0)
	v.SetDefault("comments.redis.enabled", false)
	v.SetDefault("comments.redis.host", "localhost")
	v.SetDefault("comments.redis.port", 6379)
	v.SetDefault("comments.redis.password", "")
	v.SetDefault("comments.redis.db", 0)
	v.SetDefault("comments.redis.ttl", time.Hour)

	v.SetDefault("detection.server.host", "0.0.0.0")
	v.SetDefault("detection.server.port", 5005)
	v.SetDefault("detection.server.mode", "release")
	v.SetDefault("detection.model.backend", BackendServing)
	v.SetDefault("detection.model.serving_url", "http://localhost:8501")
	v.SetDefault("detection.model.name", "pothole")
	v.SetDefault("detection.model.timeout", 10*time.Second)
	v.SetDefault("detection.model.saved_model", "model")
	v.SetDefault("detection.model.tags", []string{"serve"})
	v.SetDefault("detection.model.input_op", "serving_default_input_1")
	v.SetDefault("detection.model.output_op", "StatefulPartitionedCall")
	v.SetDefault("detection.model.image_size", 128)
	v.SetDefault("detection.model.max_pixels", 89_478_485)
	v.SetDefault("detection.model.threshold", 0.5)
	v.SetDefault("detection.upload.dir", "static/uploads")
	v.SetDefault("detection.upload.max_bytes", 10<<20)
	v.SetDefault("detection.database.enabled", false)
	v.SetDefault("detection.database.host", "localhost")
	v.SetDefault("detection.database.port", 5432)
	v.SetDefault("detection.database.user", "civic")
	v.SetDefault("detection.database.password", "civic")
	v.SetDefault("detection.database.dbname", "civic")
	v.SetDefault("detection.database.sslmode", "disable")
}
