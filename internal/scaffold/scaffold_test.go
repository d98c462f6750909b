package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleSpec = `
engine:
  version: "2.1"
  env: production
paths:
  outputs_dir: outputs
  receipts_dir: receipts
  logs_dir: logs
defaults:
  sc_k: 3
  residual_target:
    copy: 0.08
    plan: 0.06
    spec: 0.05
  crown_verify: true
  template_required: false
memory_pins:
  brand_voice: "Grounded, engineering-first voice."
  glossary: "mask: a prompt configuration bundle"
  constraints: "No hype words."
templates:
  include:
    tweet_thread: true
    product_overview: true
    plan10: false
    faq: false
    readme: true
`

func TestReadSpec_ParsesFields(t *testing.T) {
	spec, err := ReadSpec(strings.NewReader(sampleSpec))
	require.NoError(t, err)

	assert.Equal(t, "2.1", spec.Engine.Version)
	assert.Equal(t, "production", spec.Engine.Env)
	assert.Equal(t, 3, spec.Defaults.ScK)
	assert.InDelta(t, 0.06, spec.Defaults.ResidualTarget.Plan, 1e-9)
	assert.True(t, spec.Defaults.CrownVerify)
	assert.True(t, spec.Templates.Include["tweet_thread"])
	assert.False(t, spec.Templates.Include["plan10"])
}

func TestBuild_WritesWorkspace(t *testing.T) {
	spec, err := ReadSpec(strings.NewReader(sampleSpec))
	require.NoError(t, err)

	root := t.TempDir()
	written, err := Build(spec, root)
	require.NoError(t, err)

	// runtime.yaml + 3 pins + 3 selected templates
	assert.Len(t, written, 7)
	assert.FileExists(t, filepath.Join(root, "runtime.yaml"))
	assert.FileExists(t, filepath.Join(root, "memory", "brand_voice.md"))
	assert.FileExists(t, filepath.Join(root, "memory", "glossary.md"))
	assert.FileExists(t, filepath.Join(root, "memory", "constraints.md"))
	assert.FileExists(t, filepath.Join(root, "templates", "tweet_thread.yaml"))
	assert.FileExists(t, filepath.Join(root, "templates", "product_overview.yaml"))
	assert.FileExists(t, filepath.Join(root, "templates", "readme.yaml"))
	assert.NoFileExists(t, filepath.Join(root, "templates", "10_step_plan.yaml"))
	assert.NoFileExists(t, filepath.Join(root, "templates", "faq.yaml"))
}

func TestBuild_RuntimeDocContents(t *testing.T) {
	spec, err := ReadSpec(strings.NewReader(sampleSpec))
	require.NoError(t, err)

	root := t.TempDir()
	_, err = Build(spec, root)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "runtime.yaml"))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))

	assert.Equal(t, "2.1", doc["version"])
	assert.Equal(t, "production", doc["env"])
	assert.Equal(t, true, doc["receipts"])

	policies, ok := doc["policies"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"regenerate_once"}, policies["on_fail"])

	pin, err := os.ReadFile(filepath.Join(root, "memory", "glossary.md"))
	require.NoError(t, err)
	assert.Equal(t, "mask: a prompt configuration bundle", string(pin))
}

func TestBuild_TemplatesAreValidYAML(t *testing.T) {
	for key, content := range templates {
		var doc map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(content), &doc), "template %s", key)
		assert.Contains(t, doc, "id", "template %s", key)
		assert.Contains(t, doc, "schema", "template %s", key)
	}
}
