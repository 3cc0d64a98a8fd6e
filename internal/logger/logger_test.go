package logger

import (
    "testing"

    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"
)

func TestInitLevel(t *testing.T) {
    t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

    Init("production", "warn")
    assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

    Init("development", "bogus")
    assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

    Init("test", "")
    assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
