package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"

	pkgconfig "github.com/Skotchmaster/qr_cart/pkg/config"
)

const DefaultQRURL = "https://merchantapi.fonepay.com/api/merchant/merchantDetailsForThirdParty/thirdPartyDynamicQrDownload"

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	KafkaBrokers []string

	Payment Payment
}

// Payment holds the merchant credentials used to sign and authenticate QR
// requests. It is read once at startup and never mutated.
type Payment struct {
	QRURL         string
	MerchantCode  string
	Secret        string
	Username      string
	Password      string
	HTTPTimeout   time.Duration
	ListenTimeout time.Duration
}

var required = []string{"DATABASE_URL", "SECRET", "MERCHANT_CODE", "USERNAME", "PASSWORD"}

func FromEnv(env pkgconfig.Env) (*Config, error) {
	if err := env.Require(required...); err != nil {
		return nil, err
	}

	return &Config{
		ServiceName: env.Default("SERVICE_NAME", "cart"),
		ServerPort:  env.Int("SERVER_PORT", 8080),
		LogLevel:    env.Default("LOG_LEVEL", "info"),

		DatabaseURL: env("DATABASE_URL"),

		KafkaBrokers: env.CSV("KAFKA_BROKERS"),

		Payment: Payment{
			QRURL:         env.Default("FONEPAY_QR_URL", DefaultQRURL),
			MerchantCode:  env("MERCHANT_CODE"),
			Secret:        env("SECRET"),
			Username:      env("USERNAME"),
			Password:      env("PASSWORD"),
			HTTPTimeout:   env.Duration("PAYMENT_HTTP_TIMEOUT", 15*time.Second),
			ListenTimeout: env.Duration("PAYMENT_LISTEN_TIMEOUT", 5*time.Minute),
		},
	}, nil
}

// Load reads .env (if present) and the process environment. Missing required
// values are fatal.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg, err := FromEnv(pkgconfig.OS())
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}
