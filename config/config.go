package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	AppName     string
	Environment string // "production" enables secure cookies
	ClientURL   string // frontend base URL, used in reset-password links
	PublicURL   string // public base URL of this API, used in certificate links

	DBDriver   string // postgres, mysql or sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBDSN      string // overrides the composed DSN when set

	JWTKey      string
	JWTTTLHours int
	SaltRound   int

	CacheURL string

	SendgridAPIKey string
	EmailSender    string
	ContactEmail   string

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayAPIURL    string

	YoutubeAPIKey   string
	DriveAPIKey     string
	YoutubeAPIURL   string
	DriveAPIURL     string
	UploadDir       string
	ReconcileCron   string
	PassPercentage  float64 // final assignment pass mark
	MaxUploadSizeMB int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:        getEnv("PORT", "5000"),
		AppName:     getEnv("APP_NAME", "LMS"),
		Environment: getEnv("APP_ENV", "development"),
		ClientURL:   getEnv("CLIENT_URL", "http://localhost:5173"),
		PublicURL:   getEnv("PUBLIC_URL", "http://localhost:5000"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "lms"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBDSN:      getEnv("DB_DSN", ""),

		JWTKey:      getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 24*7),
		SaltRound:   getEnvInt("SALT_ROUND", 10),

		CacheURL: getEnv("CACHE_URL", ""),

		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@lms.local"),
		ContactEmail:   getEnv("CONTACT_EMAIL", "admin@lms.com"),

		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		RazorpayAPIURL:    getEnv("RAZORPAY_API_URL", "https://api.razorpay.com/v1"),

		YoutubeAPIKey:   getEnv("YOUTUBE_API_KEY", ""),
		DriveAPIKey:     getEnv("GOOGLE_DRIVE_API_KEY", ""),
		YoutubeAPIURL:   getEnv("YOUTUBE_API_URL", "https://www.googleapis.com/youtube/v3"),
		DriveAPIURL:     getEnv("GOOGLE_DRIVE_API_URL", "https://www.googleapis.com/drive/v3"),
		UploadDir:       getEnv("UPLOAD_DIR", "./public/uploads"),
		ReconcileCron:   getEnv("RECONCILE_CRON", "@hourly"),
		PassPercentage:  getEnvFloat("PASS_PERCENTAGE", 65),
		MaxUploadSizeMB: getEnvInt("MAX_UPLOAD_SIZE_MB", 200),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.RazorpayKeyID == "" || AppConfig.RazorpayKeySecret == "" {
		log.Println("Warning: Razorpay keys missing. Payments disabled.")
	}
	if AppConfig.SendgridAPIKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Emails will be logged to the console.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to float: %v", key, err)
		return defaultValue
	}
	return floatValue
}
