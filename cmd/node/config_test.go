package main

import (
	"crypto/ed25519"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}

	if cfg.DataPath != "./data" {
		t.Errorf("DataPath = %q", cfg.DataPath)
	}
	if cfg.HTTPAddress != ":8080" {
		t.Errorf("HTTPAddress = %q", cfg.HTTPAddress)
	}
	if cfg.Bootstrap {
		t.Error("bootstrap should be off by default")
	}
	if cfg.MaxAttestationAge != 0 || cfg.CollateralCap {
		t.Error("mint policies should be disabled by default")
	}
	if cfg.Decimals != 9 {
		t.Errorf("Decimals = %d", cfg.Decimals)
	}
	if len(cfg.Validators) != 0 {
		t.Errorf("expected no validators, got %d", len(cfg.Validators))
	}
}

func TestParseFlags(t *testing.T) {
	v1 := strings.Repeat("11", 32)
	v2 := strings.Repeat("ab", 32)

	cfg, err := parseFlags([]string{
		"-data", "/tmp/x",
		"-bootstrap",
		"-validators", v1 + ", " + v2,
		"-decimals", "6",
		"-max-attestation-age", "90s",
		"-collateral-cap",
		"-snapshot-interval", "5s",
	})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}

	if cfg.DataPath != "/tmp/x" || !cfg.Bootstrap || !cfg.CollateralCap {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Decimals != 6 {
		t.Errorf("Decimals = %d", cfg.Decimals)
	}
	if cfg.MaxAttestationAge != 90*time.Second {
		t.Errorf("MaxAttestationAge = %s", cfg.MaxAttestationAge)
	}
	if cfg.SnapshotInterval != 5*time.Second {
		t.Errorf("SnapshotInterval = %s", cfg.SnapshotInterval)
	}
	if len(cfg.Validators) != 2 || cfg.Validators[0][0] != 0x11 || cfg.Validators[1][0] != 0xab {
		t.Errorf("Validators = %v", cfg.Validators)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"decimals", []string{"-decimals", "300"}},
		{"negative age", []string{"-max-attestation-age", "-1s"}},
		{"bad validator", []string{"-validators", "zz"}},
		{"short validator", []string{"-validators", "abcd"}},
		{"unknown flag", []string{"-nope"}},
		{"restore and sync", []string{"-restore", "a.zst", "-sync-from", "127.0.0.1:9000"}},
		{"bad sync key", []string{"-sync-key", "00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFlagsSyncKey(t *testing.T) {
	cfg, err := parseFlags([]string{"-sync-from", "127.0.0.1:9000", "-sync-key", strings.Repeat("cd", 32)})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}

	if len(cfg.SyncKey) != ed25519.PublicKeySize || cfg.SyncKey[0] != 0xcd {
		t.Errorf("SyncKey = %x", cfg.SyncKey)
	}
}

func TestParseValidatorsEmpty(t *testing.T) {
	keys, err := parseValidators(" , ,")
	if err != nil {
		t.Fatalf("parseValidators failed: %v", err)
	}

	if len(keys) != 0 {
		t.Errorf("expected no keys, got %d", len(keys))
	}
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.key")

	first, err := loadOrGenerateKey(path)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	second, err := loadOrGenerateKey(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if !first.Equal(second) {
		t.Error("reloaded key differs from generated key")
	}

	if len(first) != ed25519.PrivateKeySize {
		t.Errorf("key size = %d", len(first))
	}
}

func TestLoadOrGenerateKeyInvalidSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.key")
	if err := os.WriteFile(path, []byte("short"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadOrGenerateKey(path); err == nil {
		t.Error("expected error for truncated key")
	}
}

func TestLoadOrGenerateKeyEphemeral(t *testing.T) {
	a, err := loadOrGenerateKey("")
	if err != nil {
		t.Fatal(err)
	}

	b, err := loadOrGenerateKey("")
	if err != nil {
		t.Fatal(err)
	}

	if a.Equal(b) {
		t.Error("ephemeral keys should differ")
	}
}
