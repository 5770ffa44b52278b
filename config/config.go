package config

import (
	"strings"
	"time"

	"storefront-service/helper"
)

type Config struct {
	Port string

	DatabaseDSN string
	RedisAddr   string
	RedisDB     int

	// Base URL of the order/payment/catalog backend, including any /api prefix.
	BackendURL     string
	BackendTimeout time.Duration

	UsersFile string

	CORSAllowOrigins []string

	PaymentHoldTTL time.Duration

	BankName          string
	BankAccountNumber string
	BankAccountHolder string

	VNPayHashSecret string
	MoMoAccessKey   string
	MoMoSecretKey   string
}

func Load() Config {
	return Config{
		Port: helper.GetEnv("PORT", "8080"),

		DatabaseDSN: helper.GetEnv("DATABASE_DSN", "postgres://admin:nimda@db:5432/storefront?sslmode=disable"),
		RedisAddr:   helper.GetEnv("REDIS_ADDR", "redis:6379"),
		RedisDB:     helper.GetEnvInt("REDIS_DB", 0),

		BackendURL:     helper.GetEnv("BACKEND_URL", "http://backend:5000/api"),
		BackendTimeout: helper.GetEnvDuration("BACKEND_TIMEOUT", 10*time.Second),

		UsersFile: helper.GetEnv("USERS_FILE", "data/users.json"),

		CORSAllowOrigins: splitCSV(helper.GetEnv("CORS_ALLOW_ORIGINS", "*")),

		PaymentHoldTTL: helper.GetEnvDuration("PAYMENT_HOLD_TTL", 15*time.Minute),

		BankName:          helper.GetEnv("BANK_NAME", "Vietcombank"),
		BankAccountNumber: helper.GetEnv("BANK_ACCOUNT_NUMBER", "0123456789"),
		BankAccountHolder: helper.GetEnv("BANK_ACCOUNT_HOLDER", "CONG TY TNHH STOREFRONT"),

		// empty secrets disable signature verification on the return pages
		VNPayHashSecret: helper.GetEnv("VNPAY_HASH_SECRET", ""),
		MoMoAccessKey:   helper.GetEnv("MOMO_ACCESS_KEY", ""),
		MoMoSecretKey:   helper.GetEnv("MOMO_SECRET_KEY", ""),
	}
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
