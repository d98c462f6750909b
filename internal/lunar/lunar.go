package lunar

import (
	"time"
)

// Mean synodic month in days.
const Synodic = 29.530588853

// Reference new moon (Meeus), UTC.
var RefNewMoon = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

var PhaseNames = [8]string{
	"New Moon",
	"Waxing Crescent",
	"First Quarter",
	"Waxing Gibbous",
	"Full Moon",
	"Waning Gibbous",
	"Last Quarter",
	"Waning Crescent",
}

// Nudges maps mask levers to gentle multipliers around 1.0.
type Nudges map[string]float64

// Lever keys used by the nudge policy and threshold adjustment.
const (
	LeverSeverance           = "severance"
	LeverHarmonizers         = "harmonizers"
	LeverVoiceClarity        = "voice_clarity"
	LeverCoherence           = "coherence"
	LeverIntegration         = "integration"
	LeverTranslation         = "translation"
	LeverGrounding           = "grounding"
	LeverSealing             = "sealing"
	LeverCallHarmonizersBias = "call_harmonizers_bias"
)

// Caps bound every nudge multiplier to [Min, Max].
type Caps struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

var DefaultCaps = Caps{Min: 0.85, Max: 1.15}

// Fraction returns the mean synodic phase fraction in [0, 1).
// 0 is a new moon, 0.5 a full moon.
func Fraction(t time.Time) float64 {
	days := t.UTC().Sub(RefNewMoon).Seconds() / 86400.0
	frac := days / Synodic
	frac -= float64(int64(frac))
	if frac < 0 {
		frac += 1
	}
	return frac
}

// Name maps a phase fraction onto one of the eight phase names.
// Bins are centered on the exact phase points.
func Name(frac float64) string {
	i := int(frac*8.0+0.5) & 7
	return PhaseNames[i]
}

func clamp(x, lo, hi float64) float64 {
	if x > hi {
		return hi
	}
	if x < lo {
		return lo
	}
	return x
}

func nudgesFor(name string) Nudges {
	n := Nudges{
		LeverSeverance:           1.0,
		LeverHarmonizers:         1.0,
		LeverVoiceClarity:        1.0,
		LeverCoherence:           1.0,
		LeverIntegration:         1.0,
		LeverTranslation:         1.0,
		LeverGrounding:           1.0,
		LeverSealing:             1.0,
		LeverCallHarmonizersBias: 1.0,
	}
	// Per-phase micro-biases. Deltas stay small so stacking stays tame.
	switch name {
	case "New Moon":
		n[LeverSeverance] = 1.10
		n[LeverHarmonizers] = 0.95
		n[LeverGrounding] = 1.05
	case "Waxing Crescent":
		n[LeverVoiceClarity] = 1.05
		n[LeverTranslation] = 1.03
	case "First Quarter":
		n[LeverCoherence] = 1.05
		n[LeverGrounding] = 1.03
	case "Waxing Gibbous":
		n[LeverIntegration] = 1.05
		n[LeverCoherence] = 1.02
	case "Full Moon":
		n[LeverSeverance] = 0.90
		n[LeverHarmonizers] = 1.10
		n[LeverCallHarmonizersBias] = 1.12
	case "Waning Gibbous":
		n[LeverTranslation] = 1.05
		n[LeverIntegration] = 1.02
	case "Last Quarter":
		n[LeverGrounding] = 1.07
		n[LeverVoiceClarity] = 0.98
	default: // Waning Crescent
		n[LeverSealing] = 1.05
		n[LeverSeverance] = 1.03
	}
	return n
}

// ComputeNudges returns the nudge multipliers for a phase fraction,
// clamped to caps when provided.
func ComputeNudges(frac float64, caps *Caps) Nudges {
	n := nudgesFor(Name(frac))
	if caps != nil {
		for k, v := range n {
			n[k] = clamp(v, caps.Min, caps.Max)
		}
	}
	return n
}

// Sample is a point-in-time snapshot of the lunar state and its nudges.
type Sample struct {
	PhaseFraction float64   `json:"phase_fraction"`
	PhaseName     string    `json:"phase_name"`
	Nudges        Nudges    `json:"nudges"`
	Timestamp     time.Time `json:"timestamp"`
}

// Snapshot computes a Sample at t. A zero t means now.
func Snapshot(t time.Time, caps *Caps) *Sample {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	f := Fraction(t)
	return &Sample{
		PhaseFraction: f,
		PhaseName:     Name(f),
		Nudges:        ComputeNudges(f, caps),
		Timestamp:     t.UTC(),
	}
}
