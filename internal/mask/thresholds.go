package mask

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thoth-om/maskd/internal/lunar"
	"github.com/thoth-om/maskd/internal/utils"
)

// CoherenceGate holds the meta-gate coherence bands.
type CoherenceGate struct {
	WarnBelow      float64 `yaml:"warn_below" json:"warn_below"`
	SeverBelow     float64 `yaml:"sever_below" json:"sever_below"`
	StabilizeAbove float64 `yaml:"stabilize_above" json:"stabilize_above"`
}

// GateTriggers holds the gate trigger levels.
type GateTriggers struct {
	EarlySeveranceBelow  float64 `yaml:"early_severance_below" json:"early_severance_below"`
	CallHarmonizersBelow float64 `yaml:"call_harmonizers_below" json:"call_harmonizers_below"`
}

type MetaGate struct {
	Coherence CoherenceGate `yaml:"coherence" json:"coherence"`
}

type Gates struct {
	Triggers GateTriggers `yaml:"triggers" json:"triggers"`
}

// Thresholds is the tunable gate document of a mask workspace.
type Thresholds struct {
	MetaGate MetaGate `yaml:"meta_gate" json:"meta_gate"`
	Gates    Gates    `yaml:"gates" json:"gates"`
}

// LoadThresholds reads a thresholds document from a YAML file.
func LoadThresholds(path string) (*Thresholds, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return ReadThresholds(fd)
}

// ReadThresholds parses a thresholds document from a reader.
func ReadThresholds(r io.Reader) (*Thresholds, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var t Thresholds
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse thresholds: %w", err)
	}
	return &t, nil
}

// Save writes the thresholds document as YAML.
func (t *Thresholds) Save(path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}
	fd, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer fd.Close()

	enc := yaml.NewEncoder(fd)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode thresholds: %w", err)
	}
	return enc.Close()
}

// Adjusted returns a copy of t scaled by the lunar nudges.
//
// Coherence bands scale with the coherence lever, early severance with the
// severance lever, and the harmonizer call level is divided by the call
// bias so a stronger bias calls harmonizers sooner.
func (t *Thresholds) Adjusted(n lunar.Nudges) *Thresholds {
	out := *t
	if n == nil {
		return &out
	}

	coh := multiplier(n, lunar.LeverCoherence)
	out.MetaGate.Coherence.WarnBelow *= coh
	out.MetaGate.Coherence.SeverBelow *= coh
	out.MetaGate.Coherence.StabilizeAbove *= coh

	out.Gates.Triggers.EarlySeveranceBelow *= multiplier(n, lunar.LeverSeverance)

	bias := multiplier(n, lunar.LeverCallHarmonizersBias)
	if bias < 0.5 {
		bias = 0.5
	}
	out.Gates.Triggers.CallHarmonizersBelow /= bias

	return &out
}

func multiplier(n lunar.Nudges, lever string) float64 {
	if v, ok := n[lever]; ok {
		return v
	}
	return 1.0
}
