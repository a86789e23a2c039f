package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Lookup resolves a configuration key; it mirrors os.LookupEnv.
type Lookup func(key string) (string, bool)

// OSLookup reads the process environment.
var OSLookup Lookup = os.LookupEnv

// MapLookup serves keys from a fixed map. Intended for tests and embedding.
func MapLookup(m map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// isTruthy accepts 1/true/yes/on, case-insensitive, ignoring surrounding
// whitespace and quotes.
func isTruthy(s string) bool {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func readFlag(get Lookup, key string, def bool) bool {
	v, ok := get(key)
	if !ok {
		return def
	}
	return isTruthy(v)
}

func readString(get Lookup, key, def string) string {
	if v, ok := get(key); ok {
		return v
	}
	return def
}

// readUint returns def when key is missing or not a non-negative integer.
func readUint(get Lookup, key string, def uint64) uint64 {
	v, ok := get(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return def
	}
	return n
}

// splitList splits a comma list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadDotEnv populates the process environment from .env files outside
// production. Missing files are ignored and existing variables win.
func loadDotEnv(get Lookup) {
	env := readString(get, "APP_ENV", EnvDevelopment)
	if env == EnvProduction {
		return
	}
	if path, ok := get("DOTENV_FILE"); ok {
		_ = godotenv.Load(path)
		return
	}
	if err := godotenv.Load(".env." + env); err != nil {
		_ = godotenv.Load()
	}
}
