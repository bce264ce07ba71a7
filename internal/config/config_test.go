package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_ScanDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.ScanLeagueIDs) != 0 {
		t.Fatalf("expected no configured league ids by default, got %v", cfg.ScanLeagueIDs)
	}
	if cfg.ScanDiscoverLeagues {
		t.Fatalf("expected discovery off by default")
	}
	if cfg.ScanLeagueWorkers != 5 || cfg.ScanFixtureWorkers != 5 {
		t.Fatalf("unexpected worker defaults: %d/%d", cfg.ScanLeagueWorkers, cfg.ScanFixtureWorkers)
	}
	if cfg.ScanFormSource != "embedded" {
		t.Fatalf("unexpected form source default: %q", cfg.ScanFormSource)
	}
	if cfg.ScanGoalAvgCutoff != 1.6 || cfg.ScanH2HAvgCutoff != 2.5 {
		t.Fatalf("unexpected cutoff defaults: %v/%v", cfg.ScanGoalAvgCutoff, cfg.ScanH2HAvgCutoff)
	}
	if !cfg.ScanEmptyH2HPass {
		t.Fatalf("expected empty h2h to pass by default")
	}
	if cfg.ScanCron != "0 7 * * *" {
		t.Fatalf("unexpected scan cron default: %q", cfg.ScanCron)
	}
}

func TestLoad_ScanLeagueIDsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SCAN_LEAGUE_IDS", "39, 140 ,61")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := []int64{39, 140, 61}
	if len(cfg.ScanLeagueIDs) != len(want) {
		t.Fatalf("unexpected league ids: %v", cfg.ScanLeagueIDs)
	}
	for i, id := range want {
		if cfg.ScanLeagueIDs[i] != id {
			t.Fatalf("unexpected league ids: %v", cfg.ScanLeagueIDs)
		}
	}
}

func TestLoad_ScanLeagueIDsRejectsGarbage(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SCAN_LEAGUE_IDS", "39,premier")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric league id")
	}
}

func TestLoad_ScanRuleValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SCAN_RULES", "goal-average,made-up-rule")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown rule name")
	}
}

func TestLoad_ScanEmptyH2HPolicy(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SCAN_EMPTY_H2H_POLICY", "fail")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ScanEmptyH2HPass {
		t.Fatalf("expected empty h2h pass=false for policy=fail")
	}

	t.Setenv("SCAN_EMPTY_H2H_POLICY", "sometimes")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid SCAN_EMPTY_H2H_POLICY")
	}
}

func TestLoad_FootballAPITimeoutValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FOOTBALL_API_TIMEOUT", "0s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive FOOTBALL_API_TIMEOUT")
	}
}

func TestLoad_CacheTTLs(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PREDICTIONS_CACHE_TTL", "2m")
	t.Setenv("LIVE_SCORES_CACHE_TTL", "30s")
	t.Setenv("NEWS_CACHE_TTL", "15m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PredictionsCacheTTL != 2*time.Minute {
		t.Fatalf("unexpected predictions ttl: %s", cfg.PredictionsCacheTTL)
	}
	if cfg.LiveScoresCacheTTL != 30*time.Second {
		t.Fatalf("unexpected live scores ttl: %s", cfg.LiveScoresCacheTTL)
	}
	if cfg.NewsCacheTTL != 15*time.Minute {
		t.Fatalf("unexpected news ttl: %s", cfg.NewsCacheTTL)
	}
}
