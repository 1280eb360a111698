package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDBCmd_Help(t *testing.T) {
	out, err := runCLI(t, "db", "--help")
	if err != nil {
		t.Fatalf("db --help failed: %v", err)
	}
	if !strings.Contains(out, "Database management") {
		t.Errorf("expected help to mention 'Database management', got: %s", out)
	}
	if !strings.Contains(out, "init") || !strings.Contains(out, "reset") {
		t.Errorf("expected help to list subcommands, got: %s", out)
	}
}

func TestDBInitCmd_Help(t *testing.T) {
	out, err := runCLI(t, "db", "init", "--help")
	if err != nil {
		t.Fatalf("db init --help failed: %v", err)
	}
	if !strings.Contains(out, "--config") {
		t.Errorf("expected help to mention '--config' flag, got: %s", out)
	}
	if !strings.Contains(out, "slashforge.yaml") {
		t.Errorf("expected default config path 'slashforge.yaml', got: %s", out)
	}
}

func TestDBInitCmd_MissingConfig(t *testing.T) {
	_, err := runCLI(t, "db", "init", "--config", "/nonexistent/slashforge.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "load config")
	}
}

func TestDBInitCmd_InvalidConfig(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "slashforge.yaml")
	if err := os.WriteFile(path, []byte("database:\n  host: localhost\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := runCLI(t, "db", "init", "--config", path)
	if err == nil {
		t.Fatal("expected error for config missing required fields")
	}
	if !strings.Contains(err.Error(), "application_id is required") {
		t.Errorf("error = %q, want validation message", err.Error())
	}
}

func TestDBResetCmd_RequiresYes(t *testing.T) {
	_, err := runCLI(t, "db", "reset", "--config", "/nonexistent/slashforge.yaml")
	if err == nil {
		t.Fatal("expected error without --yes")
	}
	if !strings.Contains(err.Error(), "--yes") {
		t.Errorf("error = %q, want to mention --yes", err.Error())
	}
}
