package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, cfg.Store.Backend)
	require.Equal(t, "questions.db", cfg.SQLite.Path)
	require.Equal(t, "s3cret", cfg.Admin.Password)
	require.Equal(t, "0.0.0.0:3000", cfg.Addr())
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.False(t, cfg.RateLimit.Enabled)
}

func TestLoadConfigBackends(t *testing.T) {
	t.Setenv("STORE_BACKEND", "LibSQL")
	t.Setenv("DATABASE_URL", "libsql://bank.turso.io")
	t.Setenv("DATABASE_AUTH_TOKEN", "tok")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendLibSQL, cfg.Store.Backend)
	require.Equal(t, "tok", cfg.LibSQL.AuthToken)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "memory", cfg: Config{Store: StoreConfig{Backend: BackendMemory}}},
		{name: "unknown backend", cfg: Config{Store: StoreConfig{Backend: "postgres"}}, wantErr: true},
		{name: "libsql without url", cfg: Config{Store: StoreConfig{Backend: BackendLibSQL}}, wantErr: true},
		{name: "mongo without uri", cfg: Config{Store: StoreConfig{Backend: BackendMongo}}, wantErr: true},
		{name: "csv dir", cfg: Config{Store: StoreConfig{Backend: BackendCSV}, CSV: CSVConfig{Source: CSVSourceDir, Dir: "data"}}},
		{name: "csv minio without endpoint", cfg: Config{Store: StoreConfig{Backend: BackendCSV}, CSV: CSVConfig{Source: CSVSourceMinIO}}, wantErr: true},
		{name: "csv unknown source", cfg: Config{Store: StoreConfig{Backend: BackendCSV}, CSV: CSVConfig{Source: "ftp"}}, wantErr: true},
		{
			name:    "redis limiter without redis",
			cfg:     Config{Store: StoreConfig{Backend: BackendMemory}, RateLimit: RateLimitConfig{Enabled: true, UseRedis: true}},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
