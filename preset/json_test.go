package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-strum/strum"
)

func writePreset(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing preset: %v", err)
	}
	return path
}

func TestLoadJSONAppliesFields(t *testing.T) {
	path := writePreset(t, `{"damp": 0.95, "attack": 0.5, "sustain": true}`)
	p, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if p.Damp != 0.95 {
		t.Fatalf("damp: got %f want 0.95", p.Damp)
	}
	if p.Attack != 0.5 {
		t.Fatalf("attack: got %f want 0.5", p.Attack)
	}
	if !p.Sustain {
		t.Fatalf("sustain not applied")
	}

	defaults := strum.NewDefaultParams()
	if p.Damp2 != defaults.Damp2 || p.NoiseDamp != defaults.NoiseDamp {
		t.Fatalf("absent fields changed: %+v", p)
	}
}

func TestLoadJSONClampsOutOfRange(t *testing.T) {
	path := writePreset(t, `{"damp": 5, "release_rate": 1, "master_volume": -3}`)
	p, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if p.Damp != 1 {
		t.Fatalf("damp not clamped: %f", p.Damp)
	}
	if p.ReleaseRate != 0.01 {
		t.Fatalf("release rate not clamped: %f", p.ReleaseRate)
	}
	if p.MasterVolume != 0 {
		t.Fatalf("master volume not clamped: %f", p.MasterVolume)
	}
}

func TestLoadJSONRejectsBadFile(t *testing.T) {
	if _, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := writePreset(t, `{not json`)
	if _, err := LoadJSON(path); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}
