package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Bcrypt    BcryptConfig
	Argon2    Argon2Config
	S3        S3Config
	RateLimit RateLimitConfig
	Secure    SecureConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  int64 // seconds
	RefreshExpiry int64 // seconds
}

type BcryptConfig struct {
	Cost int
}

type Argon2Config struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
}

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
}

type RateLimitConfig struct {
	// Rate per IP ("100-M" = 100/min). Empty disables.
	RatePerIP string
}

type SecureConfig struct {
	IsDevelopment bool
}

// Load reads configuration. Misconfigured signing secrets are a startup
// error; they are never recoverable per request.
func Load() (*Config, error) {
	viper.AutomaticEnv()
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		viper.SetConfigFile(p)
		_ = viper.ReadInConfig()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		JWT: JWTConfig{
			AccessSecret:  os.Getenv("JWT_SECRET"),
			RefreshSecret: os.Getenv("REFRESH_JWT_SECRET"),
			AccessExpiry:  viper.GetInt64("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: viper.GetInt64("JWT_REFRESH_EXPIRY"),
		},
		Bcrypt: BcryptConfig{
			Cost: viper.GetInt("BCRYPT_COST"),
		},
		Argon2: Argon2Config{
			Memory:      uint32(viper.GetInt("ARGON2_MEMORY")),
			Iterations:  uint32(viper.GetInt("ARGON2_ITERATIONS")),
			Parallelism: uint8(viper.GetInt("ARGON2_PARALLELISM")),
		},
		S3: S3Config{
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			Region:          getEnvOrDefault("S3_REGION", "us-east-1"),
			Bucket:          os.Getenv("S3_BUCKET"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			ForcePathStyle:  viper.GetBool("S3_FORCE_PATH_STYLE"),
		},
		RateLimit: RateLimitConfig{
			RatePerIP: os.Getenv("RATE_LIMIT_PER_IP"),
		},
		Secure: SecureConfig{
			IsDevelopment: viper.GetBool("DEV_MODE"),
		},
	}
	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		return nil, errors.New("JWT_SECRET and REFRESH_JWT_SECRET are required")
	}
	if cfg.JWT.AccessExpiry <= 0 {
		cfg.JWT.AccessExpiry = 900 // 15 min
	}
	if cfg.JWT.RefreshExpiry <= 0 {
		cfg.JWT.RefreshExpiry = 604800 // 7 days
	}
	if cfg.Bcrypt.Cost == 0 {
		cfg.Bcrypt.Cost = 10
	}
	if cfg.Argon2.Memory == 0 {
		cfg.Argon2.Memory = 64 * 1024
	}
	if cfg.Argon2.Iterations == 0 {
		cfg.Argon2.Iterations = 3
	}
	if cfg.Argon2.Parallelism == 0 {
		cfg.Argon2.Parallelism = 2
	}
	return cfg, nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
