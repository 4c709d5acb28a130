package config

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`

	// Base64-encoded 32-byte keys for field encryption and blind indexing.
	EncryptionKeyB64 string `env:"ENCRYPTION_KEY,required"`
	BlindIndexKeyB64 string `env:"BLIND_INDEX_KEY,required"`
}

// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the server runs in development mode.
func (c Config) IsDev() bool { return c.AppEnv != "production" }

// EncryptionKey decodes ENCRYPTION_KEY and checks its length.
func (c Config) EncryptionKey() ([]byte, error) {
	return decodeKey(c.EncryptionKeyB64, "ENCRYPTION_KEY")
}

// BlindIndexKey decodes BLIND_INDEX_KEY and checks its length.
func (c Config) BlindIndexKey() ([]byte, error) {
	return decodeKey(c.BlindIndexKeyB64, "BLIND_INDEX_KEY")
}

func decodeKey(b64, name string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(key) != 32 {
		return nil, errors.New(name + " must decode to 32 bytes")
	}
	return key, nil
}
