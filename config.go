package passquiz

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all the configuration for the web server and tools
type Config struct {
	Port          string
	Env           string
	SessionSecret string
	Password      string
	QuestionsFile string
	DBPath        string
	Verbose       bool
	OpenAIAPIKey  string
	RateLimit     RateLimitConfig
	Server        ServerConfig
}

// RateLimitConfig holds the login throttling settings
type RateLimitConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// ServerConfig holds HTTP server timeouts
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SessionKey returns the signing key for cookies
func (c *Config) SessionKey() []byte {
	return []byte(c.SessionSecret)
}

var envBindings = map[string]string{
	"port":                    "PORT",
	"env":                     "APP_ENV",
	"session_secret":          "SESSION_SECRET",
	"password":                "QUIZ_PASSWORD",
	"questions_file":          "QUESTIONS_FILE",
	"db_path":                 "DB_PATH",
	"verbose":                 "VERBOSE",
	"openai_api_key":          "OPENAI_API_KEY",
	"rate_limit.max_attempts": "RATE_LIMIT_MAX_ATTEMPTS",
	"rate_limit.window":       "RATE_LIMIT_WINDOW",
	"server.read_timeout":     "SERVER_READ_TIMEOUT",
	"server.write_timeout":    "SERVER_WRITE_TIMEOUT",
	"server.shutdown_timeout": "SERVER_SHUTDOWN_TIMEOUT",
}

// LoadConfig reads configuration from an optional file, a .env file in the
// working directory, and the environment, in increasing priority.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		VerboseLog("No .env file loaded: %v", err)
	}

	v := viper.New()
	v.SetDefault("port", "3000")
	v.SetDefault("env", "development")
	v.SetDefault("password", "80808")
	v.SetDefault("db_path", "./quiz.db")
	v.SetDefault("rate_limit.max_attempts", DefaultMaxAttempts)
	v.SetDefault("rate_limit.window", DefaultRateWindow)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Port:          v.GetString("port"),
		Env:           v.GetString("env"),
		SessionSecret: v.GetString("session_secret"),
		Password:      v.GetString("password"),
		QuestionsFile: v.GetString("questions_file"),
		DBPath:        v.GetString("db_path"),
		Verbose:       v.GetBool("verbose"),
		OpenAIAPIKey:  v.GetString("openai_api_key"),
		RateLimit: RateLimitConfig{
			MaxAttempts: v.GetInt("rate_limit.max_attempts"),
			Window:      v.GetDuration("rate_limit.window"),
		},
		Server: ServerConfig{
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Password == "" {
		return errors.New("quiz password is required (QUIZ_PASSWORD)")
	}
	if c.RateLimit.MaxAttempts <= 0 {
		return fmt.Errorf("rate_limit.max_attempts must be positive, got %d", c.RateLimit.MaxAttempts)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window)
	}

	if c.SessionSecret == "" {
		if c.IsProduction() {
			return errors.New("session secret is required in production (SESSION_SECRET)")
		}
		// Sessions will not survive a restart.
		c.SessionSecret = string(securecookie.GenerateRandomKey(32))
		log.Printf("SESSION_SECRET not set, using a random key for this process")
	}
	return nil
}
