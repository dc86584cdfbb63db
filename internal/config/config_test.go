package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("APP_PORT", "9090")
	t.Setenv("ANALYTICS_LOW_STOCK_THRESHOLD", "2")

	cfg := Load()

	assert.Equal(t, "dukahub-api", cfg.App.Name)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiryHours)
	assert.Equal(t, 2, cfg.Analytics.LowStockThreshold)
	assert.Equal(t, int64(500000), cfg.Analytics.MilestoneInterval)
	assert.Equal(t, 5, cfg.Analytics.TopProductsLimit)
	assert.Equal(t, 366, cfg.Analytics.MaxCustomDays)
	assert.False(t, cfg.Redis.Enabled())
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: "5432", Name: "duka", User: "u", Password: "p",
		SSLMode: "disable", Timezone: "UTC",
	}
	assert.Equal(t, "host=db user=u password=p dbname=duka port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}

func TestAnalyticsLocation(t *testing.T) {
	loc := AnalyticsConfig{Timezone: "Africa/Nairobi"}.Location()
	require.NotNil(t, loc)
	assert.Equal(t, "Africa/Nairobi", loc.String())

	assert.Equal(t, time.Local, AnalyticsConfig{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, time.Local, AnalyticsConfig{}.Location())
}
