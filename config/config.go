package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Cache    CacheConfig    `yaml:"cache"`
	Tracking TrackingConfig `yaml:"tracking"`
	Auth     AuthConfig     `yaml:"auth"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	SMS      SMSConfig      `yaml:"sms"`
	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	SwaggerDir     string   `yaml:"swagger_dir"`
	GinMode        string   `yaml:"gin_mode"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	// Migrate applies embedded migrations on startup.
	Migrate bool `yaml:"migrate"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	EventsTopic        string   `yaml:"events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type CacheConfig struct {
	TripsTTLSeconds int `yaml:"trips_ttl_seconds"`
}

func (c CacheConfig) TripsTTL() time.Duration {
	return time.Duration(c.TripsTTLSeconds) * time.Second
}

type TrackingConfig struct {
	DefaultHub    string `yaml:"default_hub"`
	UnlockMinutes int    `yaml:"unlock_minutes"`
}

func (t TrackingConfig) UnlockWindow() time.Duration {
	return time.Duration(t.UnlockMinutes) * time.Minute
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	// Staff* seed an operations account on startup when all three are set.
	StaffUsername string `yaml:"staff_username"`
	StaffEmail    string `yaml:"staff_email"`
	StaffPassword string `yaml:"staff_password"`
}

func (a AuthConfig) SeedStaff() bool {
	return a.StaffUsername != "" && a.StaffEmail != "" && a.StaffPassword != ""
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// OpenAIConfig configures the optional text-generation backend. An empty
// APIKey disables it and the deterministic summary is served instead.
type OpenAIConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (o OpenAIConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

type SMSConfig struct {
	AccountSID     string `yaml:"account_sid"`
	AuthToken      string `yaml:"auth_token"`
	FromNumber     string `yaml:"from_number"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (s SMSConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (s SMSConfig) Enabled() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.FromNumber != ""
}

// EmailConfig points booking mail at an SMTP relay. Without a host the
// worker only logs what it would have sent.
type EmailConfig struct {
	SMTPHost       string `yaml:"smtp_host"`
	SMTPPort       int    `yaml:"smtp_port"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
	StartTLS       bool   `yaml:"starttls"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (e EmailConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

func (e EmailConfig) Enabled() bool {
	return e.SMTPHost != ""
}

type TelegramConfig struct {
	BotToken  string `yaml:"bot_token"`
	OpsChatID int64  `yaml:"ops_chat_id"`
	// APIEndpoint is a Bot API URL template with two %s verbs (token, method).
	APIEndpoint    string `yaml:"api_endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (t TelegramConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func LoadConfig(path string) (*Config, error) {
	// .env is optional; real deployments set the variables directly.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret (or JWT_SECRET) is required")
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	override(&c.Database.Password, "DATABASE_PASSWORD")
	override(&c.Auth.JWTSecret, "JWT_SECRET")
	override(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	override(&c.OpenAI.Model, "OPENAI_MODEL")
	override(&c.SMS.AccountSID, "TWILIO_ACCOUNT_SID")
	override(&c.SMS.AuthToken, "TWILIO_AUTH_TOKEN")
	override(&c.SMS.FromNumber, "TWILIO_FROM_NUMBER")
	override(&c.Email.Username, "SMTP_USERNAME")
	override(&c.Email.Password, "SMTP_PASSWORD")
	override(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	override(&c.Auth.StaffUsername, "STAFF_USERNAME")
	override(&c.Auth.StaffEmail, "STAFF_EMAIL")
	override(&c.Auth.StaffPassword, "STAFF_PASSWORD")
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.GinMode == "" {
		c.HTTP.GinMode = "release"
	}
	if c.Tracking.DefaultHub == "" {
		c.Tracking.DefaultHub = "DOH"
	}
	if c.Tracking.UnlockMinutes <= 0 {
		c.Tracking.UnlockMinutes = 45
	}
	if c.Cache.TripsTTLSeconds <= 0 {
		c.Cache.TripsTTLSeconds = 30
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		c.Auth.TokenTTLMinutes = 24 * 60
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4.1-mini"
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = 8
	}
	if c.SMS.TimeoutSeconds <= 0 {
		c.SMS.TimeoutSeconds = 8
	}
	if c.Email.SMTPPort <= 0 {
		c.Email.SMTPPort = 587
	}
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = c.Email.Username
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Airtrack"
	}
	if c.Email.TimeoutSeconds <= 0 {
		c.Email.TimeoutSeconds = 8
	}
	if c.Telegram.TimeoutSeconds <= 0 {
		c.Telegram.TimeoutSeconds = 8
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
