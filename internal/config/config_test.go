package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("storage.driver: got %q, want sqlite", cfg.Storage.Driver)
	}
	if cfg.Storage.SQLite.Path == "" {
		t.Error("storage.sqlite.path default missing")
	}
	if cfg.HTTP.ListLimit != 1000 {
		t.Errorf("http.list_limit: got %d, want 1000", cfg.HTTP.ListLimit)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults wrong: %+v", cfg.Logging)
	}
}
