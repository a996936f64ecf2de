package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSL      bool   `yaml:"ssl"`
}

type EmailConfig struct {
	FromEmail string `yaml:"from_email"`
	// Transports are tried in order until one accepts the message
	// (primary SMTP first, then fallbacks such as a Gmail relay).
	Transports []SMTPConfig `yaml:"transports"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	// Dev-only switches: expose raw one-time codes in responses/logs
	// for local testing without SMTP. Never enable in production.
	DevCodeResponse bool `yaml:"dev_code_response"`
	DevCodeLog      bool `yaml:"dev_code_log"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"` // "postgres" or "sqlite3"
		DSN    string `yaml:"url"`
	} `yaml:"database"`
	Email EmailConfig `yaml:"email"`
	Auth  AuthConfig  `yaml:"auth"`
}

func LoadConfig() *Config {
	// .env is optional; real env vars still win below.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}

	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	applyEnvOverrides(&cfg)

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	return &cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("MAIL_FROM"); v != "" {
		cfg.Email.FromEmail = v
	}
	if host := os.Getenv("MAIL_HOST"); host != "" {
		port, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
		if port == 0 {
			port = 587
		}
		// env-provided transport takes priority over the yaml list
		cfg.Email.Transports = append([]SMTPConfig{{
			Host:     host,
			Port:     port,
			User:     os.Getenv("MAIL_USER"),
			Password: os.Getenv("MAIL_PASSWORD"),
			SSL:      os.Getenv("MAIL_SECURE") == "true",
		}}, cfg.Email.Transports...)
	}
	if os.Getenv("DEV_CODE_RESPONSE") == "true" {
		cfg.Auth.DevCodeResponse = true
	}
	if os.Getenv("DEV_CODE_LOG") == "true" {
		cfg.Auth.DevCodeLog = true
	}
}
