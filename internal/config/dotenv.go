package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env files, .env.local taking priority over .env.
// godotenv.Load never overwrites variables that are already set, so real
// OS environment always wins. Returns the files actually found.
func LoadDotEnv() []string {
	var loaded []string
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
