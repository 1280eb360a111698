package main

import (
	"strings"
	"testing"
)

func TestSyncCmd_Help(t *testing.T) {
	out, err := runCLI(t, "sync", "--help")
	if err != nil {
		t.Fatalf("sync --help failed: %v", err)
	}
	if !strings.Contains(out, "reload event queue") {
		t.Errorf("expected help to describe the engine, got: %s", out)
	}
	if !strings.Contains(out, "--config") {
		t.Errorf("expected help to mention '--config', got: %s", out)
	}
}

func TestSyncCmd_MissingConfig(t *testing.T) {
	_, err := runCLI(t, "sync", "--config", "/nonexistent/slashforge.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %q, want to contain 'load config'", err.Error())
	}
}

func TestServeCmd_Help(t *testing.T) {
	out, err := runCLI(t, "serve", "--help")
	if err != nil {
		t.Fatalf("serve --help failed: %v", err)
	}
	if !strings.Contains(out, "--api-only") {
		t.Errorf("expected help to mention '--api-only', got: %s", out)
	}
}

func TestServeCmd_MissingConfig(t *testing.T) {
	_, err := runCLI(t, "serve", "--config", "/nonexistent/slashforge.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
