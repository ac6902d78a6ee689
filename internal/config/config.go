package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	AppPort string
	AppEnv  string

	// Base URL this server is reachable at; used to build the webhook
	// notification URL handed to Mercado Pago.
	PublicBaseURL string

	MPAccessToken   string
	MPWebhookSecret string

	CheckoutSuccessURL string
	CheckoutPendingURL string
	CheckoutFailureURL string

	JWTSecret string

	SMTPHost         string
	SMTPPort         string
	SMTPUser         string
	SMTPPassword     string
	ContactRecipient string

	YouTubeAPIKey    string
	YouTubeChannelID string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),

		AppPort: os.Getenv("APP_PORT"),
		AppEnv:  os.Getenv("APP_ENV"),

		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),

		MPAccessToken:   os.Getenv("MP_ACCESS_TOKEN"),
		MPWebhookSecret: os.Getenv("MP_WEBHOOK_SECRET"),

		CheckoutSuccessURL: os.Getenv("CHECKOUT_SUCCESS_URL"),
		CheckoutPendingURL: os.Getenv("CHECKOUT_PENDING_URL"),
		CheckoutFailureURL: os.Getenv("CHECKOUT_FAILURE_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         os.Getenv("SMTP_PORT"),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		ContactRecipient: os.Getenv("CONTACT_RECIPIENT"),

		YouTubeAPIKey:    os.Getenv("YOUTUBE_API_KEY"),
		YouTubeChannelID: os.Getenv("YOUTUBE_CHANNEL_ID"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}
