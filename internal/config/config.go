package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	DBHost     string `mapstructure:"DB_HOST"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBPort     string `mapstructure:"DB_PORT"`

	ServerPort string `mapstructure:"SERVER_PORT"`

	FilebaseAccessKey  string `mapstructure:"FILEBASE_ACCESS_KEY"`
	FilebaseSecretKey  string `mapstructure:"FILEBASE_SECRET_KEY"`
	FilebaseBucketName string `mapstructure:"FILEBASE_BUCKET_NAME"`
	FilebaseEndpoint   string `mapstructure:"FILEBASE_ENDPOINT"`
	FilebaseRegion     string `mapstructure:"FILEBASE_REGION"`
	IPFSGatewayHost    string `mapstructure:"IPFS_GATEWAY_HOST"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
}

func Load() (*Config, error) {
	viper.AddConfigPath("./")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("FILEBASE_ENDPOINT", "https://s3.filebase.com")
	viper.SetDefault("FILEBASE_REGION", "us-east-1")
	viper.SetDefault("IPFS_GATEWAY_HOST", "ipfs.filebase.io")
	viper.SetDefault("FILEBASE_BUCKET_NAME", "nft-minting-bucket")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}

	if cfg.DBPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if cfg.DBName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}

	if cfg.DBPort == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}

	if cfg.DBHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}

	if cfg.ServerPort == "" {
		return nil, fmt.Errorf("SERVER_PORT is required")
	}

	if cfg.FilebaseAccessKey == "" {
		return nil, fmt.Errorf("FILEBASE_ACCESS_KEY is required")
	}

	if cfg.FilebaseSecretKey == "" {
		return nil, fmt.Errorf("FILEBASE_SECRET_KEY is required")
	}

	return &cfg, nil
}

// DSN builds the postgres connection string from the DB_* settings.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// IPFSConfigured reports whether the object store credentials are present.
// Used by the health endpoint.
func (c *Config) IPFSConfigured() bool {
	return c.FilebaseAccessKey != "" && c.FilebaseSecretKey != "" && c.FilebaseBucketName != ""
}
