package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstance(t *testing.T) {
	clear1 := setEnv("ONEBOARD_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := setEnv("ONEBOARD_SERVER_NAME", "Env Casino")
	defer clear2()

	a := assert.New(t)
	cfg := Instance()

	// env beats file
	a.Equal("Env Casino", cfg.ServerName)

	// file beats defaults
	a.Equal(":9000", cfg.ListenAddr)
	a.Equal("session", cfg.Mode)
	a.Equal(14000, cfg.Discovery.Port)
	a.Equal(2, cfg.Discovery.IntervalSeconds)
	a.Equal("debug", cfg.Log.Level)
	a.True(cfg.Log.DisableAccessLogs)

	// ensure that it's only loaded once
	_ = os.Setenv("ONEBOARD_SERVER_NAME", "Other Casino")
	// ensure we aren't using a pointer
	cfg.ServerName = "bad"
	cfg = Instance()
	a.Equal("Env Casino", cfg.ServerName)
}

func TestDefaults(t *testing.T) {
	clear1 := setEnv("ONEBOARD_CONFIG_FILE", "testdata/does-not-exist.yaml")
	defer clear1()

	a := assert.New(t)
	a.NoError(Load())

	cfg := Instance()
	a.Equal("Bust & Furious", cfg.ServerName)
	a.Equal(":0", cfg.ListenAddr)
	a.Equal(":5000", cfg.StatusAddr)
	a.Equal("board", cfg.Mode)
	a.Equal(13122, cfg.Discovery.Port)
	a.Equal(1, cfg.Discovery.IntervalSeconds)
	a.False(cfg.Log.DisableAccessLogs)
}

func setEnv(key, val string) func() {
	orig := os.Getenv(key)
	_ = os.Setenv(key, val)
	return func() {
		if orig == "" {
			_ = os.Unsetenv(key)
		} else {
			_ = os.Setenv(key, orig)
		}
	}
}
