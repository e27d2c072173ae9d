// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定値です。
type Config struct {
	Port string

	DBDriver string
	DBUser   string
	DBPass   string
	DBHost   string
	DBPort   string
	DBName   string

	MemberJWTSecret string
	AdminJWTSecret  string
	CookieSecure    bool

	FrontendURL string
	CORSOrigins []string

	StripeSecretKey      string
	StripePremiumPriceID string
	PremiumMonthlyFee    int

	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3PublicBaseURL string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

// required は起動に必須の環境変数です。
var required = []string{
	"MEMBER_JWT_SECRET",
	"ADMIN_JWT_SECRET",
}

// Load は .env を読み込み (存在しなくてもよい)、環境変数から Config を構築します。
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: Could not load .env file: %v", err)
		}
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			return nil, fmt.Errorf("missing env var: %s", k)
		}
	}

	if os.Getenv("MEMBER_JWT_SECRET") == os.Getenv("ADMIN_JWT_SECRET") {
		return nil, fmt.Errorf("MEMBER_JWT_SECRET and ADMIN_JWT_SECRET must differ")
	}

	fee, err := strconv.Atoi(getEnv("PREMIUM_MONTHLY_FEE", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid PREMIUM_MONTHLY_FEE: %w", err)
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBDriver: getEnv("DB_DRIVER", "mysql"),
		DBUser:   os.Getenv("DB_USER"),
		DBPass:   os.Getenv("DB_PASS"),
		DBHost:   getEnv("DB_HOST", "127.0.0.1"),
		DBPort:   getEnv("DB_PORT", "3306"),
		DBName:   os.Getenv("DB_NAME"),

		MemberJWTSecret: os.Getenv("MEMBER_JWT_SECRET"),
		AdminJWTSecret:  os.Getenv("ADMIN_JWT_SECRET"),
		CookieSecure:    os.Getenv("COOKIE_SECURE") == "true",

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripePremiumPriceID: os.Getenv("STRIPE_PREMIUM_PRICE_ID"),
		PremiumMonthlyFee:    fee,

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        getEnv("S3_REGION", "auto"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),

		SMTPHost:     getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:     getEnv("SMTP_PORT", "2525"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "noreply@nagoyameshi.example.com"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
