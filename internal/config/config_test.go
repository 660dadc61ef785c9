package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DevDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/library.db", cfg.Database.SQLitePath)
	assert.Equal(t, "@every 15m", cfg.Jobs.OverdueSweepCron)
	assert.Equal(t, 60, cfg.JWT.AccessTokenMins)
	assert.Equal(t, 5, cfg.RateLimit.Auth)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoad_PostgresDefaultPort(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DEV_DB_DRIVER", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "5432", cfg.Database.Port)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DEV_DB_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("APP_MODE", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProdRequiresSecret(t *testing.T) {
	t.Setenv("APP_MODE", "prod")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PROD_JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "3306", cfg.Database.Port)
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("SOME_LIMIT", "0")
	assert.Equal(t, 0, getEnvInt("SOME_LIMIT", 9))

	t.Setenv("SOME_LIMIT", "-3")
	assert.Equal(t, 9, getEnvInt("SOME_LIMIT", 9))

	t.Setenv("SOME_LIMIT", "many")
	assert.Equal(t, 9, getEnvInt("SOME_LIMIT", 9))
}

func TestDSNs(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "3306", User: "u", Password: "p", DBName: "lib"}
	assert.Equal(t, "u:p@tcp(db:3306)/lib?charset=utf8mb4&parseTime=True&loc=UTC", buildMySQLDSN(d))

	d.Port = "5432"
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=lib sslmode=disable TimeZone=UTC", buildPostgresDSN(d))

	assert.Contains(t, SQLiteDSN("/tmp/x.db"), "_txlock=immediate")
}

func TestOpenDialector_Unsupported(t *testing.T) {
	_, err := OpenDialector(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
