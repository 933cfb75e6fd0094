package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads dotenv files into the process environment. Variables that
// are already set win over the files. Every path must exist.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		vars, err := godotenv.Read(p)
		if err != nil {
			return fmt.Errorf("read env file: %w", err)
		}
		for key, val := range vars {
			if _, set := os.LookupEnv(key); set {
				continue
			}
			if err := os.Setenv(key, val); err != nil {
				return fmt.Errorf("set %s from %s: %w", key, p, err)
			}
		}
	}
	return nil
}

// LoadDefaultEnv loads CBB_ENV, ~/.cbb.env and ./.env in that order.
// A CBB_ENV that names a missing file is an error; the other two are optional.
func LoadDefaultEnv() error {
	if p := strings.TrimSpace(os.Getenv("CBB_ENV")); p != "" {
		if err := LoadEnv(p); err != nil {
			return err
		}
	}

	var optional []string
	if home, err := os.UserHomeDir(); err == nil {
		optional = append(optional, filepath.Join(home, ".cbb.env"))
	}
	optional = append(optional, ".env")

	for _, p := range optional {
		if err := LoadEnv(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
