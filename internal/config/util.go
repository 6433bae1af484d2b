package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// MinSecretLength is the shortest HS256 secret accepted.
const MinSecretLength = 32

var errConfigFileIsDir = errors.New("config file is dir")

type envOverrides struct {
	Env        string `envconfig:"APP_ENV"`
	Addr       string `envconfig:"APP_ADDR"`
	JWTSecret  string `envconfig:"JWT_SECRET"`
	RepoDriver string `envconfig:"REPOSITORY_DRIVER"`
	RedisAddr  string `envconfig:"REDIS_ADDR"`

	RazorpayKeyID     string `envconfig:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `envconfig:"RAZORPAY_KEY_SECRET"`

	StorageDriver string `envconfig:"STORAGE_DRIVER"`
	S3Endpoint    string `envconfig:"S3_ENDPOINT"`
	S3Region      string `envconfig:"S3_REGION"`
	S3Bucket      string `envconfig:"S3_BUCKET"`
	S3AccessKey   string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey   string `envconfig:"S3_SECRET_KEY"`
}

// readFile decodes the YAML file at path over cfg. A missing file leaves the
// defaults untouched.
func readFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	filename, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	finfo, err := os.Stat(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if finfo.IsDir() {
		return errConfigFileIsDir
	}

	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return err
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.Env, env.Env)
	set(&cfg.Server.Addr, env.Addr)
	set(&cfg.Auth.JWTSecret, env.JWTSecret)
	set(&cfg.Repository.Driver, env.RepoDriver)
	set(&cfg.Redis.Addr, env.RedisAddr)
	set(&cfg.Payment.KeyID, env.RazorpayKeyID)
	set(&cfg.Payment.KeySecret, env.RazorpayKeySecret)
	set(&cfg.Storage.Driver, env.StorageDriver)
	set(&cfg.Storage.S3.Endpoint, env.S3Endpoint)
	set(&cfg.Storage.S3.Region, env.S3Region)
	set(&cfg.Storage.S3.Bucket, env.S3Bucket)
	set(&cfg.Storage.S3.AccessKey, env.S3AccessKey)
	set(&cfg.Storage.S3.SecretKey, env.S3SecretKey)

	return nil
}

// RandomSecret returns a fresh secret for development runs where none is
// configured. Tokens signed with it do not survive a restart.
func RandomSecret() (string, error) {
	b := make([]byte, MinSecretLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
