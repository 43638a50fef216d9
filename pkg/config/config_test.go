package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnv_Defaults(t *testing.T) {
	t.Parallel()

	env := FromMap(map[string]string{
		"NAME":     "cart",
		"PORT":     "9090",
		"BAD_PORT": "ninety",
		"TIMEOUT":  "3s",
		"NEGATIVE": "-1s",
	})

	assert.Equal(t, "cart", env.Default("NAME", "x"))
	assert.Equal(t, "x", env.Default("MISSING", "x"))
	assert.Equal(t, 9090, env.Int("PORT", 8080))
	assert.Equal(t, 8080, env.Int("BAD_PORT", 8080))
	assert.Equal(t, 3*time.Second, env.Duration("TIMEOUT", time.Minute))
	assert.Equal(t, time.Minute, env.Duration("NEGATIVE", time.Minute))
	assert.Equal(t, time.Minute, env.Duration("MISSING", time.Minute))
}

func TestEnv_CSV(t *testing.T) {
	t.Parallel()

	env := FromMap(map[string]string{
		"BROKERS": " kafka-1:9092, ,kafka-2:9092 ",
	})

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, env.CSV("BROKERS"))
	assert.Nil(t, env.CSV("MISSING"))
}

func TestEnv_Require(t *testing.T) {
	t.Parallel()

	env := FromMap(map[string]string{"A": "1"})

	require.NoError(t, env.Require("A"))

	err := env.Require("A", "B", "C")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "B, C")
}
