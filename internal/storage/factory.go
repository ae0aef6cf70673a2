package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/devgjhbj-wq/admin-nexus/internal/config"
)

type FactoryResult struct {
	Driver string
	KV     KV
}

// FromConfig builds the durable store selected by STORAGE_DRIVER.
// db may be nil unless the driver is mysql.
func FromConfig(ctx context.Context, cfg config.StorageConfig, db *gorm.DB) (FactoryResult, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "local"
	}

	switch driver {
	case "local":
		return FactoryResult{Driver: "local", KV: NewLocal(cfg.LocalDir)}, nil

	case "memory":
		return FactoryResult{Driver: "memory", KV: NewMemory()}, nil

	case "mysql":
		if db == nil {
			return FactoryResult{}, fmt.Errorf("mysql storage requires DB_DSN")
		}
		return FactoryResult{Driver: "mysql", KV: NewGorm(db)}, nil

	case "redis":
		if cfg.RedisAddr == "" {
			return FactoryResult{}, fmt.Errorf("redis storage requires REDIS_ADDR")
		}
		r := NewRedis(RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err := r.Ping(ctx); err != nil {
			return FactoryResult{}, fmt.Errorf("redis ping: %w", err)
		}
		return FactoryResult{Driver: "redis", KV: r}, nil

	case "s3":
		if cfg.S3Region == "" || cfg.S3Bucket == "" {
			return FactoryResult{}, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET required")
		}
		s, err := NewS3(ctx, S3Config{
			Region: cfg.S3Region,
			Bucket: cfg.S3Bucket,
			Prefix: cfg.S3Prefix,
		})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "s3", KV: s}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown STORAGE_DRIVER: %s", driver)
	}
}
