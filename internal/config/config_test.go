package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "STORE_DRIVER", "REDIS_ADDR", "KAFKA_BROKERS", "TAX_RATE", "STATUS_UPDATE_REQUIRES_ADMIN", "JWT_SECRET"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, ":8081", c.HTTPAddr)
	assert.Equal(t, "postgres", c.StoreDriver)
	assert.Empty(t, c.RedisAddr)
	assert.Empty(t, c.KafkaBrokers)
	assert.Equal(t, 0.10, c.TaxRate)
	assert.Equal(t, 0.01, c.TotalsTolerance)
	assert.True(t, c.StatusUpdateRequiresAdmin)
	assert.ErrorContains(t, c.Validate(), "JWT_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("TAX_RATE", "0.08")
	t.Setenv("STATUS_UPDATE_REQUIRES_ADMIN", "false")
	t.Setenv("JWT_SECRET", "s3cret")

	c := Load()
	assert.Equal(t, "mongo", c.StoreDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
	assert.Equal(t, 0.08, c.TaxRate)
	assert.False(t, c.StatusUpdateRequiresAdmin)
	require.NoError(t, c.Validate())
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	c := Config{JWTSecret: "x", StoreDriver: "sqlite", TaxRate: 0.1}
	assert.ErrorContains(t, c.Validate(), "STORE_DRIVER")
}

func TestBadNumbersFallBack(t *testing.T) {
	t.Setenv("TAX_RATE", "ten percent")
	t.Setenv("STATUS_UPDATE_REQUIRES_ADMIN", "maybe")
	c := Load()
	assert.Equal(t, 0.10, c.TaxRate)
	assert.True(t, c.StatusUpdateRequiresAdmin)
}

func TestValidateTracker(t *testing.T) {
	t.Setenv("TRACKER_WORKERS", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "memory")

	c := Load()
	assert.Equal(t, 4, c.TrackerWorkers)
	assert.ErrorContains(t, c.ValidateTracker(), "KAFKA_BROKERS")

	c.KafkaBrokers = []string{"k1:9092"}
	require.NoError(t, c.ValidateTracker())

	c.TrackerWorkers = 0
	assert.ErrorContains(t, c.ValidateTracker(), "TRACKER_WORKERS")
}

func TestZeroTaxAndToleranceAreKept(t *testing.T) {
	t.Setenv("TAX_RATE", "0")
	t.Setenv("TOTALS_TOLERANCE", "0")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")

	c := Load()
	assert.Zero(t, c.TaxRate)
	assert.Zero(t, c.TotalsTolerance)
	require.NoError(t, c.Validate())

	c.TotalsTolerance = -0.5
	assert.ErrorContains(t, c.Validate(), "TOTALS_TOLERANCE")
}
