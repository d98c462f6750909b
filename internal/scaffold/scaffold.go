package scaffold

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/thoth-om/maskd/internal/utils"
)

const DefaultSpecFile = "scaffold_spec.yaml"

// ResidualTarget holds per-card mirror residual targets.
type ResidualTarget struct {
	Copy float64 `yaml:"copy"`
	Plan float64 `yaml:"plan"`
	Spec float64 `yaml:"spec"`
}

// Defaults carries the engine defaults baked into runtime.yaml.
type Defaults struct {
	ScK              int            `yaml:"sc_k"`
	ResidualTarget   ResidualTarget `yaml:"residual_target"`
	CrownVerify      bool           `yaml:"crown_verify"`
	TemplateRequired bool           `yaml:"template_required"`
}

// Paths are the workspace output locations.
type Paths struct {
	OutputsDir  string `yaml:"outputs_dir"`
	ReceiptsDir string `yaml:"receipts_dir"`
	LogsDir     string `yaml:"logs_dir"`
}

// MemoryPins are the pinned prose documents of the workspace.
type MemoryPins struct {
	BrandVoice  string `yaml:"brand_voice"`
	Glossary    string `yaml:"glossary"`
	Constraints string `yaml:"constraints"`
}

// Spec describes the mask workspace to build.
type Spec struct {
	Engine struct {
		Version string `yaml:"version"`
		Env     string `yaml:"env"`
	} `yaml:"engine"`
	Paths      Paths      `yaml:"paths"`
	Defaults   Defaults   `yaml:"defaults"`
	MemoryPins MemoryPins `yaml:"memory_pins"`
	Templates  struct {
		Include map[string]bool `yaml:"include"`
	} `yaml:"templates"`
}

// LoadSpec reads a scaffold spec from a YAML file.
func LoadSpec(path string) (*Spec, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return ReadSpec(fd)
}

// ReadSpec parses a scaffold spec from a reader.
func ReadSpec(r io.Reader) (*Spec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse scaffold spec: %w", err)
	}
	return &spec, nil
}

// runtimeDoc is the shape of the generated runtime.yaml.
type runtimeDoc struct {
	Version  string   `yaml:"version"`
	Env      string   `yaml:"env"`
	Receipts bool     `yaml:"receipts"`
	Paths    Paths    `yaml:"paths"`
	Defaults Defaults `yaml:"defaults"`
	Policies struct {
		OnFail   []string `yaml:"on_fail"`
		TieBreak []string `yaml:"tie_break"`
	} `yaml:"policies"`
}

// Build writes the workspace files described by spec under root and
// returns the relative paths written.
func Build(spec *Spec, root string) ([]string, error) {
	var written []string

	doc := runtimeDoc{
		Version:  spec.Engine.Version,
		Env:      spec.Engine.Env,
		Receipts: true,
		Paths:    spec.Paths,
		Defaults: spec.Defaults,
	}
	doc.Policies.OnFail = []string{"regenerate_once"}
	doc.Policies.TieBreak = []string{"constraints_score", "mirror_residual", "logic_score"}

	runtimeYAML, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("encode runtime.yaml: %w", err)
	}
	if err := write(root, "runtime.yaml", runtimeYAML, &written); err != nil {
		return nil, err
	}

	pins := map[string]string{
		"memory/brand_voice.md": spec.MemoryPins.BrandVoice,
		"memory/glossary.md":    spec.MemoryPins.Glossary,
		"memory/constraints.md": spec.MemoryPins.Constraints,
	}
	for rel, content := range pins {
		if err := write(root, rel, []byte(content), &written); err != nil {
			return nil, err
		}
	}

	for key, filename := range templateFiles {
		if !spec.Templates.Include[key] {
			continue
		}
		if err := write(root, filepath.Join("templates", filename), []byte(templates[key]), &written); err != nil {
			return nil, err
		}
	}

	return written, nil
}

func write(root, rel string, data []byte, written *[]string) error {
	path := filepath.Join(root, rel)
	if err := utils.EnsureParent(path); err != nil {
		return fmt.Errorf("ensure parent of %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	slog.Info("scaffold write", "path", rel, "size", humanize.Bytes(uint64(len(data))))
	*written = append(*written, rel)
	return nil
}
