package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func validConfig() Config {
    return Config{
        Env:  "test",
        Port: "4000",
        DB:   DBConfig{User: "root", Host: "127.0.0.1", Port: "3306", Name: "tailor"},
        Token: TokenConfig{
            AccessSecret:  "access",
            RefreshSecret: "refresh",
            AccessTTL:     time.Minute,
            RefreshTTL:    time.Hour,
            Issuer:        "tailor-api",
        },
        BcryptCost: 4,
    }
}

func TestLoadDefaults(t *testing.T) {
    t.Setenv("APP_ENV", "")
    t.Setenv("APP_PORT", "")
    t.Setenv("ACCESS_TOKEN_TTL", "")
    t.Setenv("REFRESH_TOKEN_TTL", "")
    t.Setenv("BCRYPT_COST", "")

    cfg := Load()
    assert.Equal(t, "development", cfg.Env)
    assert.Equal(t, "4000", cfg.Port)
    assert.Equal(t, 15*time.Minute, cfg.Token.AccessTTL)
    assert.Equal(t, 7*24*time.Hour, cfg.Token.RefreshTTL)
    assert.Equal(t, 10, cfg.BcryptCost)
    assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
    t.Setenv("APP_ENV", "Production")
    t.Setenv("APP_PORT", "8080")
    t.Setenv("ACCESS_TOKEN_SECRET", "a")
    t.Setenv("REFRESH_TOKEN_SECRET", "b")
    t.Setenv("ACCESS_TOKEN_TTL", "5m")
    t.Setenv("BCRYPT_COST", "not-a-number")

    cfg := Load()
    assert.Equal(t, "production", cfg.Env)
    assert.True(t, cfg.IsProduction())
    assert.Equal(t, "8080", cfg.Port)
    assert.Equal(t, "a", cfg.Token.AccessSecret)
    assert.Equal(t, "b", cfg.Token.RefreshSecret)
    assert.Equal(t, 5*time.Minute, cfg.Token.AccessTTL)
    assert.Equal(t, 10, cfg.BcryptCost, "unparsable values fall back to the default")
}

func TestValidate(t *testing.T) {
    tests := []struct {
        name    string
        mutate  func(*Config)
        wantErr string
    }{
        {"valid", func(*Config) {}, ""},
        {"missing access secret", func(c *Config) { c.Token.AccessSecret = "" }, "ACCESS_TOKEN_SECRET is required"},
        {"missing refresh secret", func(c *Config) { c.Token.RefreshSecret = "" }, "REFRESH_TOKEN_SECRET is required"},
        {"shared secret", func(c *Config) { c.Token.RefreshSecret = c.Token.AccessSecret }, "must differ"},
        {"zero ttl", func(c *Config) { c.Token.AccessTTL = 0 }, "TTLs must be positive"},
        {"missing db", func(c *Config) { c.DB.Name = "" }, "DB_NAME"},
        {"bcrypt too low", func(c *Config) { c.BcryptCost = 2 }, "BCRYPT_COST"},
        {"missing port", func(c *Config) { c.Port = "" }, "APP_PORT"},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            cfg := validConfig()
            tt.mutate(&cfg)
            err := Validate(cfg)
            if tt.wantErr == "" {
                assert.NoError(t, err)
                return
            }
            require.Error(t, err)
            assert.Contains(t, err.Error(), tt.wantErr)
        })
    }
}

func TestValidateReportsAllProblems(t *testing.T) {
    cfg := validConfig()
    cfg.Token.AccessSecret = ""
    cfg.Token.RefreshSecret = ""
    err := Validate(cfg)
    require.Error(t, err)
    assert.Contains(t, err.Error(), "ACCESS_TOKEN_SECRET")
    assert.Contains(t, err.Error(), "REFRESH_TOKEN_SECRET")
}

func TestLoadDotEnv(t *testing.T) {
    dir := t.TempDir()
    path := filepath.Join(dir, "test.env")
    require.NoError(t, os.WriteFile(path, []byte("TAILOR_DOTENV_PROBE=from-file\nTAILOR_DOTENV_KEEP=from-file\n"), 0o600))

    t.Setenv("TAILOR_DOTENV_KEEP", "from-env")
    // Register cleanup for the key the file sets.
    t.Setenv("TAILOR_DOTENV_PROBE", "")
    require.NoError(t, os.Unsetenv("TAILOR_DOTENV_PROBE"))

    require.NoError(t, LoadDotEnv(path))
    assert.Equal(t, "from-file", os.Getenv("TAILOR_DOTENV_PROBE"))
    assert.Equal(t, "from-env", os.Getenv("TAILOR_DOTENV_KEEP"), "existing variables are not overridden")
}

func TestLoadDotEnvMissingFile(t *testing.T) {
    assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}

func TestLoadCacheConfig(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head")
    t.Setenv("CACHE_TTL", "")
    cc := LoadCacheConfig()
    assert.True(t, cc.Methods["GET"])
    assert.True(t, cc.Methods["HEAD"])
    assert.False(t, cc.Methods["POST"])
    assert.Equal(t, 30*time.Second, cc.TTL)
    assert.Equal(t, "user_route_query", cc.KeyStrategy)
}

func TestLoadQueueConfig(t *testing.T) {
    t.Setenv("RABBITMQ_URL", "")
    t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")
    t.Setenv("AMQP_ENABLED", "true")
    qc := LoadQueueConfig()
    assert.True(t, qc.Enabled)
    assert.Equal(t, "amqp://u:p@broker:5672/", qc.URL)
    assert.Equal(t, "tailor.audit", qc.Name)
}
