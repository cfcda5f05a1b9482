package session

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// maxKeyIDLen bounds normalized key identifiers.
const maxKeyIDLen = 100

// Validate normalizes a decoded client frame into a NoteMessage. The
// input is the generic result of JSON decoding; the three intents are
// recognized by their top-level key ("play", "stop", "sustain"). An
// input that is not an object, or carries none of the intents, or
// fails a range check, reports ok=false.
func Validate(raw any) (NoteMessage, bool) {
	obj, isObj := raw.(map[string]any)
	if !isObj {
		return NoteMessage{}, false
	}
	if payload, ok := obj["play"]; ok {
		return validatePitched(KindPlay, payload)
	}
	if payload, ok := obj["stop"]; ok {
		return validateStop(payload)
	}
	if payload, ok := obj["sustain"]; ok {
		return validatePitched(KindSustain, payload)
	}
	return NoteMessage{}, false
}

func validatePitched(kind Kind, payload any) (NoteMessage, bool) {
	m, ok := payload.(map[string]any)
	if !ok {
		return NoteMessage{}, false
	}
	hz, ok := parseFinite(m["hz"])
	if !ok || hz < 20 || hz > 20000 {
		return NoteMessage{}, false
	}
	volume, ok := parseFinite(m["volume"])
	if !ok || volume < 0 || volume > 1 {
		return NoteMessage{}, false
	}
	// Defensive clamp even though the range was just checked.
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	return NoteMessage{
		Kind:   kind,
		KeyID:  normalizeKeyID(m["keyId"]),
		Hz:     hz,
		Volume: volume,
	}, true
}

func validateStop(payload any) (NoteMessage, bool) {
	m, ok := payload.(map[string]any)
	if !ok {
		return NoteMessage{}, false
	}
	return NoteMessage{Kind: KindStop, KeyID: normalizeKeyID(m["keyId"])}, true
}

// normalizeKeyID coerces any value to a string and truncates it to
// maxKeyIDLen runes. Length never causes rejection.
func normalizeKeyID(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		s = ""
	case string:
		s = t
	default:
		s = fmt.Sprint(t)
	}
	runes := []rune(s)
	if len(runes) > maxKeyIDLen {
		return string(runes[:maxKeyIDLen])
	}
	return s
}

// parseFinite accepts the numeric shapes a JSON decode can produce and
// rejects anything that is not a finite number.
func parseFinite(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
