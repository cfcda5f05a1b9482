// Package preset loads synth parameter presets from JSON files.
package preset

import (
	"encoding/json"
	"os"

	"github.com/cwbudde/algo-strum/strum"
)

// File is the JSON schema for synth presets. Every field is optional;
// absent fields keep their default.
type File struct {
	Damp         *float32 `json:"damp"`
	Damp2        *float32 `json:"damp2"`
	NoiseDamp    *float32 `json:"noise_damp"`
	Attack       *float32 `json:"attack"`
	ReleaseRate  *float32 `json:"release_rate"`
	MasterVolume *float32 `json:"master_volume"`
	Sustain      *bool    `json:"sustain"`
}

// LoadJSON loads a preset file and applies it on top of the default
// params. Out-of-range values are clamped, never rejected.
func LoadJSON(path string) (strum.Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return strum.Params{}, err
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return strum.Params{}, err
	}
	p := strum.NewDefaultParams()
	ApplyFile(&p, &f)
	return p, nil
}

// ApplyFile applies a parsed preset onto existing params.
func ApplyFile(dst *strum.Params, f *File) {
	if f == nil {
		return
	}
	if f.Damp != nil {
		dst.Damp = *f.Damp
	}
	if f.Damp2 != nil {
		dst.Damp2 = *f.Damp2
	}
	if f.NoiseDamp != nil {
		dst.NoiseDamp = *f.NoiseDamp
	}
	if f.Attack != nil {
		dst.Attack = *f.Attack
	}
	if f.ReleaseRate != nil {
		dst.ReleaseRate = *f.ReleaseRate
	}
	if f.MasterVolume != nil {
		dst.MasterVolume = *f.MasterVolume
	}
	if f.Sustain != nil {
		dst.Sustain = *f.Sustain
	}
	dst.Clamp()
}
