package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment. It is loaded
// once in main and handed to the components that need it; nothing else touches
// os.Getenv after startup.
type Config struct {
	Port string

	DatabaseURL string
	RedisURL    string

	AccessTokenSecret  string
	RefreshTokenSecret string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	// BaseURL is used to build password-reset links in outgoing mail.
	BaseURL string
}

// Load reads the environment into a Config. In development a .env file is
// loaded first; in production (RENDER set) the platform provides the vars.
func Load() Config {
	if os.Getenv("RENDER") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: could not load .env file (this is normal in production)")
		}
	}

	cfg := Config{
		Port:                getenv("PORT", "4000"),
		DatabaseURL:         os.Getenv("DB_CONNECTION_STRING"),
		RedisURL:            getenv("REDIS_URL", "localhost:6379"),
		AccessTokenSecret:   os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:  os.Getenv("REFRESH_TOKEN_SECRET"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    os.Getenv("CLOUDINARY_FOLDER"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getenv("SMTP_PORT", "587"),
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		MailFrom:            getenv("MAIL_FROM", "YelpCamp Community"),
		BaseURL:             getenv("BASE_URL", "http://localhost:4000"),
	}

	if cfg.DatabaseURL == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		log.Panic("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET environment variables are required")
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
