package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("APP_CONFIG_NAME", "does-not-exist")

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvDev, c.Env)
	require.Equal(t, 6868, c.Server.Port)
	require.Equal(t, DBDriverSQLite, c.Database.Driver)
	require.Equal(t, "data/projections", c.Projection.Dir)
	require.Equal(t, 24*time.Hour, c.Auth.TokenTTL)
	require.Equal(t, "manager@tristar", c.Auth.SeedEmail)
}

func TestNew_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  port: 7000
projection:
  dir: /tmp/snapshots
auth:
  token_ttl: 2h
`), 0o644))
	t.Setenv("APP_CONFIG_FILE", file)
	t.Setenv("APP_SERVER_HOST", "127.0.0.1")

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, 7000, c.Server.Port)
	require.Equal(t, "127.0.0.1:7000", c.Addr())
	require.Equal(t, "/tmp/snapshots", c.Projection.Dir)
	require.Equal(t, 2*time.Hour, c.Auth.TokenTTL)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:        EnvDev,
			Database:   DBConfig{Driver: DBDriverSQLite, Path: ":memory:"},
			Projection: ProjectionConfig{Dir: "data"},
			Auth:       AuthConfig{JWTSecret: "s", TokenTTL: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Database.Driver = DBDriverPostgres }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "missing projection dir", mutate: func(c *Config) { c.Projection.Dir = "" }, wantErr: true},
		{name: "default secret in prod", mutate: func(c *Config) { c.Env = EnvProd; c.Auth.JWTSecret = defaultJWTSecret }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
