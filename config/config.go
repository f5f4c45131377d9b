package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTAccessSecret   string
	JWTAccessTTLHours int

	// Redis (password-reset tokens, export-limit counters)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka (outbound email queue)
	KafkaBrokers    string
	KafkaEmailTopic string

	// SMTP
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	// S3 blob storage (announcement images, ID-card scans)
	S3Bucket    string
	S3Region    string
	S3PublicURL string

	FrontendURL string

	// Monthly masterlist export quota per barangay admin
	ExportLimitPerMonth int

	// Seeded MSWDO account. Password is only applied on first boot.
	SuperadminEmail    string
	SuperadminPassword string
	SuperadminName     string
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	accessTTL, _ := strconv.Atoi(os.Getenv("JWT_ACCESS_TTL_HOURS"))
	if accessTTL == 0 {
		accessTTL = 24
	}
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	exportLimit, _ := strconv.Atoi(os.Getenv("EXPORT_LIMIT_PER_MONTH"))
	if exportLimit == 0 {
		exportLimit = 5
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "soloparent"),

		JWTAccessSecret:   os.Getenv("JWT_ACCESS_SECRET"),
		JWTAccessTTLHours: accessTTL,

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers:    getEnv("KAFKA_BROKERS", "127.0.0.1:9092"),
		KafkaEmailTopic: getEnv("KAFKA_EMAIL_TOPIC", "soloparent.emails"),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  getEnv("SMTP_FROM_NAME", "MSWDO Solo Parent Office"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),

		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    getEnv("S3_REGION", "ap-southeast-1"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		ExportLimitPerMonth: exportLimit,

		SuperadminEmail:    getEnv("SUPERADMIN_EMAIL", "mswdo@soloparent.local"),
		SuperadminPassword: os.Getenv("SUPERADMIN_PASSWORD"),
		SuperadminName:     getEnv("SUPERADMIN_NAME", "MSWDO Office"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
