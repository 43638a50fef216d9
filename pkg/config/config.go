package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Env reads configuration values by key. os.Getenv is the production source;
// tests pass a map lookup.
type Env func(key string) string

func OS() Env {
	return os.Getenv
}

func FromMap(m map[string]string) Env {
	return func(key string) string { return m[key] }
}

func (env Env) Default(key, def string) string {
	if v := env(key); v != "" {
		return v
	}
	return def
}

func (env Env) Int(key string, def int) int {
	v := env(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (env Env) Duration(key string, def time.Duration) time.Duration {
	v := env(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func (env Env) CSV(key string) []string {
	v := env(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Require reports every key in keys that has no value.
func (env Env) Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if env(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env %s", strings.Join(missing, ", "))
	}
	return nil
}
