package config

import (
	"errors"
	"fmt"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	DefaultPath = "./config/config.yaml"
)

// Path is the location of the YAML config file. It is provided to fx by the
// CLI so that New can be used as a plain constructor.
type Path string

type Config struct {
	Env        string     `yaml:"env"`
	Server     Server     `yaml:"server"`
	Auth       Auth       `yaml:"auth"`
	Repository Repository `yaml:"repository"`
	Redis      Redis      `yaml:"redis"`
	Payment    Payment    `yaml:"payment"`
	Storage    Storage    `yaml:"storage"`
	Seed       []SeedUser `yaml:"seed"`
}

type Server struct {
	Addr string `yaml:"addr"`
	// AuthRateLimit is the number of login/register attempts allowed per IP
	// per minute.
	AuthRateLimit int `yaml:"authRateLimit"`
}

type Auth struct {
	JWTSecret string `yaml:"jwtSecret"`
	Issuer    string `yaml:"issuer"`
}

type Repository struct {
	// Driver is "json" or "redis".
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type Redis struct {
	Addr string `yaml:"addr"`
}

type Payment struct {
	KeyID     string `yaml:"keyId"`
	KeySecret string `yaml:"keySecret"`
}

type Storage struct {
	// Driver is "local" or "s3".
	Driver string `yaml:"driver"`
	Dir    string `yaml:"dir"`
	S3     S3     `yaml:"s3"`
}

type S3 struct {
	Endpoint       string `yaml:"endpoint"`
	Region         string `yaml:"region"`
	Bucket         string `yaml:"bucket"`
	AccessKey      string `yaml:"accessKey"`
	SecretKey      string `yaml:"secretKey"`
	ForcePathStyle bool   `yaml:"forcePathStyle"`
}

type SeedUser struct {
	Email        string `yaml:"email"`
	Name         string `yaml:"name"`
	Password     string `yaml:"password"`
	Role         string `yaml:"role"`
	Subscription string `yaml:"subscription"`
}

func New(path Path) (*Config, error) {
	cfg := defaults()

	if err := readFile(string(path), cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c != nil && c.Env == EnvProduction
}

func defaults() *Config {
	return &Config{
		Env: EnvDevelopment,
		Server: Server{
			Addr:          "localhost:8123",
			AuthRateLimit: 20,
		},
		Auth: Auth{
			Issuer: "eduarchive",
		},
		Repository: Repository{
			Driver: "json",
			Path:   "./data/users.json",
		},
		Redis: Redis{
			Addr: "127.0.0.1:6379",
		},
		Storage: Storage{
			Driver: "local",
			Dir:    "./data/uploads",
			S3: S3{
				Region:         "us-east-1",
				ForcePathStyle: true,
			},
		},
	}
}

func (c *Config) validate() error {
	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return errors.New("jwt secret must be provided in production")
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < MinSecretLength {
		return fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
	}

	switch c.Repository.Driver {
	case "json", "redis":
	default:
		return fmt.Errorf("unknown repository driver %q", c.Repository.Driver)
	}

	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return errors.New("s3 storage requires a bucket")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	return nil
}
