package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseDBConnString(t *testing.T) {
	testCases := []struct {
		name      string
		connStr   string
		expect    Database
		expectErr bool
	}{
		{name: "inmem", connStr: "inmem", expect: Database{Type: DatabaseInMemory}},
		{name: "sqlite with path", connStr: "sqlite:/var/data", expect: Database{Type: DatabaseSQLite, DataDir: "/var/data"}},
		{name: "sqlite without path", connStr: "sqlite", expectErr: true},
		{name: "inmem with params", connStr: "inmem:whoops", expectErr: true},
		{name: "unknown engine", connStr: "postgres:localhost", expectErr: true},
		{name: "explicit none", connStr: "none", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			db, err := ParseDBConnString(tc.connStr)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, db)
		})
	}
}

func Test_Config_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				TokenSecret: []byte("01234567890123456789012345678901"),
				AdminSecret: "hunter2",
				DB:          Database{Type: DatabaseInMemory},
			},
		},
		{
			name: "token secret too short",
			cfg: Config{
				TokenSecret: []byte("short"),
				AdminSecret: "hunter2",
				DB:          Database{Type: DatabaseInMemory},
			},
			expectErr: true,
		},
		{
			name: "missing admin secret",
			cfg: Config{
				TokenSecret: []byte("01234567890123456789012345678901"),
				DB:          Database{Type: DatabaseInMemory},
			},
			expectErr: true,
		},
		{
			name: "invalid db",
			cfg: Config{
				TokenSecret: []byte("01234567890123456789012345678901"),
				AdminSecret: "hunter2",
				DB:          Database{Type: DatabaseNone},
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.cfg.Validate()
			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Config_FillDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{}.FillDefaults()

	assert.NotEmpty(cfg.TokenSecret)
	assert.Equal(DatabaseInMemory, cfg.DB.Type)
	assert.Equal(1000, cfg.UnauthDelayMillis)
	assert.Equal("localhost:8080", cfg.ListenAddress)
}

func Test_Config_UnauthDelay(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(int64(0), Config{UnauthDelayMillis: -1}.UnauthDelay().Milliseconds())
	assert.Equal(int64(0), Config{}.UnauthDelay().Milliseconds())
	assert.Equal(int64(250), Config{UnauthDelayMillis: 250}.UnauthDelay().Milliseconds())
}

func Test_LoadConfigFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "diesel.toml")

	contents := `
listen = "0.0.0.0:9090"
token_secret = "01234567890123456789012345678901"
admin_secret = "hunter2"
db = "sqlite:/var/diesel"
unauth_delay_millis = 500
`
	if !assert.NoError(os.WriteFile(path, []byte(contents), 0644)) {
		return
	}

	cfg, err := LoadConfigFile(path)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("0.0.0.0:9090", cfg.ListenAddress)
	assert.Equal("01234567890123456789012345678901", string(cfg.TokenSecret))
	assert.Equal("hunter2", cfg.AdminSecret)
	assert.Equal(Database{Type: DatabaseSQLite, DataDir: "/var/diesel"}, cfg.DB)
	assert.Equal(500, cfg.UnauthDelayMillis)
}

func Test_LoadConfigFile_missingFile(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(err)
}
