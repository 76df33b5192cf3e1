package observability

import (
	"context"
	"testing"

	"github.com/brasilscore/brasileirao-sync/internal/config"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "brasileirao-sync",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, nil)
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	cfg := config.Config{
		PyroscopeEnabled: false,
		ServiceName:      "brasileirao-sync",
		AppEnv:           config.EnvDev,
	}

	stop, err := InitPyroscope(cfg, nil)
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}
