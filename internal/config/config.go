package config // package config loads application configuration from environment variables

import (
    "errors"  // errors joins validation failures
    "fmt"     // fmt formats validation messages
    "strings" // strings normalises the environment name
    "time"    // time expresses token lifetimes
)

// Config holds all runtime configuration values.  It is built once at
// startup and passed by value to the components that need it; nothing in
// the business logic reads the process environment directly.
type Config struct {
    Env           string        // application environment (development, test, production)
    Port          string        // HTTP port to listen on
    LogLevel      string        // zerolog level name (debug, info, warn, error)
    DB            DBConfig      // MySQL connection settings
    Token         TokenConfig   // JWT signing secrets and lifetimes
    BcryptCost    int           // bcrypt cost for password hashing
    SweepInterval time.Duration // how often expired sessions are purged; 0 disables the sweeper
}

// DBConfig groups the MySQL connection parameters.
type DBConfig struct {
    User string
    Pass string // empty allowed
    Host string
    Port string
    Name string
}

// TokenConfig holds the two independent key families.  Access and refresh
// tokens are signed with different secrets so a leaked access key cannot
// mint refresh tokens and vice versa.
type TokenConfig struct {
    AccessSecret  string
    RefreshSecret string
    AccessTTL     time.Duration
    RefreshTTL    time.Duration
    Issuer        string
}

const (
    defaultAccessTTL  = 15 * time.Minute
    defaultRefreshTTL = 7 * 24 * time.Hour
)

// Load reads configuration values from environment variables and returns a
// Config.  Missing optional values fall back to defaults; call Validate
// before using the result.
func Load() Config {
    return Config{
        Env:      strings.ToLower(envStr("APP_ENV", "development")),
        Port:     envStr("APP_PORT", "4000"),
        LogLevel: envStr("LOG_LEVEL", "info"),
        DB: DBConfig{
            User: envStr("DB_USER", "root"),
            Pass: envStr("DB_PASS", ""),
            Host: envStr("DB_HOST", "127.0.0.1"),
            Port: envStr("DB_PORT", "3306"),
            Name: envStr("DB_NAME", "tailor"),
        },
        Token: TokenConfig{
            AccessSecret:  envStr("ACCESS_TOKEN_SECRET", ""),
            RefreshSecret: envStr("REFRESH_TOKEN_SECRET", ""),
            AccessTTL:     envDur("ACCESS_TOKEN_TTL", defaultAccessTTL),
            RefreshTTL:    envDur("REFRESH_TOKEN_TTL", defaultRefreshTTL),
            Issuer:        envStr("TOKEN_ISSUER", "tailor-api"),
        },
        BcryptCost:    envInt("BCRYPT_COST", 10),
        SweepInterval: envDur("SESSION_SWEEP_INTERVAL", time.Hour),
    }
}

// IsProduction reports whether the environment should hide error details
// from clients and log in JSON.
func (c Config) IsProduction() bool {
    switch c.Env {
    case "production", "prod":
        return true
    }
    return false
}

// Validate checks that the configuration is usable.  All problems are
// reported together.
func Validate(c Config) error {
    var errs []error
    if c.Port == "" {
        errs = append(errs, errors.New("APP_PORT is required"))
    }
    if c.DB.User == "" || c.DB.Host == "" || c.DB.Port == "" || c.DB.Name == "" {
        errs = append(errs, errors.New("DB_USER, DB_HOST, DB_PORT and DB_NAME are required"))
    }
    if c.Token.AccessSecret == "" {
        errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is required"))
    }
    if c.Token.RefreshSecret == "" {
        errs = append(errs, errors.New("REFRESH_TOKEN_SECRET is required"))
    }
    if c.Token.AccessSecret != "" && c.Token.AccessSecret == c.Token.RefreshSecret {
        errs = append(errs, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ"))
    }
    if c.Token.AccessTTL <= 0 || c.Token.RefreshTTL <= 0 {
        errs = append(errs, errors.New("token TTLs must be positive"))
    }
    if c.BcryptCost < 4 || c.BcryptCost > 31 {
        errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost))
    }
    return errors.Join(errs...)
}
