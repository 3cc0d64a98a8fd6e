package config

import (
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set.  With no
// paths it reads ".env".  A missing file is not an error; local development
// usually has one and containers usually don't.
func LoadDotEnv(paths ...string) error {
    files := make([]string, 0, len(paths))
    for _, p := range paths {
        if strings.TrimSpace(p) != "" {
            files = append(files, p)
        }
    }
    if len(files) == 0 {
        files = []string{".env"}
    }
    existing := files[:0]
    for _, f := range files {
        if _, err := os.Stat(f); err == nil {
            existing = append(existing, f)
        }
    }
    if len(existing) == 0 {
        return nil
    }
    return godotenv.Load(existing...)
}

func envStr(k, d string) string { if v := os.Getenv(k); v != "" { return v }; return d }
func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" { return d }
    switch v {
    case "1","true","TRUE","True","yes","YES","on","ON": return true
    case "0","false","FALSE","False","no","NO","off","OFF": return false
    }
    return d
}
func envInt(k string, d int) int {
    v := os.Getenv(k); if v == "" { return d }
    if n, err := strconv.Atoi(v); err == nil { return n }
    return d
}
func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k); if v == "" { return d }
    if dur, err := time.ParseDuration(v); err == nil { return dur }
    return d
}
