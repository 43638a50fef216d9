package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgconfig "github.com/Skotchmaster/qr_cart/pkg/config"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":  "postgres://u:p@localhost:5432/cart?sslmode=disable",
		"SECRET":        "s",
		"MERCHANT_CODE": "M1",
		"USERNAME":      "merchant",
		"PASSWORD":      "hunter2",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := FromEnv(pkgconfig.FromMap(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "cart", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.Equal(t, DefaultQRURL, cfg.Payment.QRURL)
	assert.Equal(t, "M1", cfg.Payment.MerchantCode)
	assert.Equal(t, "s", cfg.Payment.Secret)
	assert.Equal(t, 15*time.Second, cfg.Payment.HTTPTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Payment.ListenTimeout)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Parallel()

	env := baseEnv()
	env["SERVER_PORT"] = "9000"
	env["KAFKA_BROKERS"] = "k1:9092,k2:9092"
	env["FONEPAY_QR_URL"] = "https://dev-merchantapi.fonepay.com/qr"
	env["PAYMENT_LISTEN_TIMEOUT"] = "90s"

	cfg, err := FromEnv(pkgconfig.FromMap(env))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "https://dev-merchantapi.fonepay.com/qr", cfg.Payment.QRURL)
	assert.Equal(t, 90*time.Second, cfg.Payment.ListenTimeout)
}

func TestFromEnv_MissingMerchantSecrets(t *testing.T) {
	t.Parallel()

	env := baseEnv()
	delete(env, "SECRET")
	delete(env, "PASSWORD")

	cfg, err := FromEnv(pkgconfig.FromMap(env))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "SECRET")
	assert.Contains(t, err.Error(), "PASSWORD")
}
