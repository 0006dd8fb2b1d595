package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TABLE_NAME", "")
	t.Setenv("DYNAMODB_TABLE", "cpm-table")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "cpm-table", cfg.TableName)
	assert.Equal(t, 100, cfg.TransactItemsMax)
	assert.Equal(t, 25, cfg.BatchWriteMax)
	assert.Equal(t, 5, cfg.BulkMaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.BulkBaseDelay)
	assert.Equal(t, 5*time.Second, cfg.BulkMaxDelay)
	assert.False(t, cfg.EnableMetrics)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TABLE_NAME", "cpm")
	t.Setenv("TRANSACT_ITEMS_MAX", "10")
	t.Setenv("BULK_BASE_DELAY", "250ms")
	t.Setenv("ENABLE_METRICS", "true")
	t.Setenv("EVENT_BUS_NAME", "cpm-bus")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "cpm", cfg.TableName)
	assert.Equal(t, 10, cfg.TransactItemsMax)
	assert.Equal(t, 250*time.Millisecond, cfg.BulkBaseDelay)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, "cpm-bus", cfg.EventBusName)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			TableName:        "cpm",
			TransactItemsMax: 100,
			BatchWriteMax:    25,
			BulkMaxRetries:   5,
			BulkBaseDelay:    time.Millisecond,
			BulkMaxDelay:     time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing table", func(c *Config) { c.TableName = "" }, "TABLE_NAME"},
		{"too many transact items", func(c *Config) { c.TransactItemsMax = 101 }, "TRANSACT_ITEMS_MAX"},
		{"too many batch items", func(c *Config) { c.BatchWriteMax = 26 }, "BATCH_WRITE_MAX"},
		{"negative retries", func(c *Config) { c.BulkMaxRetries = -1 }, "BULK_MAX_RETRIES"},
		{"delays inverted", func(c *Config) { c.BulkMaxDelay = 0 }, "BULK_MAX_DELAY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
