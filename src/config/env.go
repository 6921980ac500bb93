package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv returns the process environment overlaid with the given dotenv
// files. Later files win over earlier ones and over the process environment.
// The result is the explicit mapping handed to the build descriptor.
func LoadEnv(files ...string) (map[string]string, error) {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[k] = v
	}

	for _, f := range files {
		if f == "" {
			continue
		}
		vars, err := godotenv.Read(f)
		if err != nil {
			return nil, fmt.Errorf("reading env file %s: %w", f, err)
		}
		for k, v := range vars {
			env[k] = v
		}
	}
	return env, nil
}
