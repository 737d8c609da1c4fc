package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-metaform/pkg/metaform"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metaform.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
listen: "127.0.0.1:9000"
logLevel: debug
palette: [text, number, select]
fetchTimeout: 3s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	want.Listen = "127.0.0.1:9000"
	want.LogLevel = "debug"
	want.Palette = []metaform.FieldType{metaform.FieldTypeText, metaform.FieldTypeNumber, metaform.FieldTypeSelect}
	want.FetchTimeout = 3 * time.Second
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	level, err := cfg.Level()
	if err != nil || level != zapcore.DebugLevel {
		t.Fatalf("unexpected level %v (%v)", level, err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("expected defaults (-want +got):\n%s", diff)
	}
	if len(cfg.PaletteTypes()) != len(metaform.FieldTypes()) {
		t.Fatalf("expected full palette by default")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad level":   "logLevel: loud\n",
		"bad palette": "palette: [text, hologram]\n",
		"bad yaml":    "listen: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
