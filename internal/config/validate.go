package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	db := &c.Database
	if db.Host == "" {
		return errors.New("database.host is required")
	}
	if db.Database == "" {
		return errors.New("database.database is required")
	}
	if db.User == "" {
		return errors.New("database.user is required")
	}
	if db.Port < 1 || db.Port > 65535 {
		return fmt.Errorf("database.port must be between 1 and 65535, got %d", db.Port)
	}
	if db.MinPoolSize < 1 {
		return fmt.Errorf("database.min_pool_size must be >= 1, got %d", db.MinPoolSize)
	}
	if db.MinPoolSize > db.MaxPoolSize {
		return fmt.Errorf("database.min_pool_size (%d) cannot exceed max_pool_size (%d)",
			db.MinPoolSize, db.MaxPoolSize)
	}
	if db.ConnectTimeout < 0 || db.AcquireTimeout < 0 || db.QueryTimeout < 0 {
		return errors.New("database timeouts cannot be negative")
	}

	if c.Export.Enabled() {
		if c.Export.Bucket == "" {
			return errors.New("export.bucket is required when export.endpoint is set")
		}
		if c.Export.AccessKey == "" || c.Export.SecretKey == "" {
			return errors.New("export.access_key and export.secret_key are required when export.endpoint is set")
		}
	}

	return nil
}
