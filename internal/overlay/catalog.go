package overlay

import (
	"fmt"
	"io"
	"os"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"gopkg.in/yaml.v3"
)

// Agent is one overlay entry in the pantheon catalog.
type Agent struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Role string `yaml:"role,omitempty" json:"role,omitempty"`
}

// Catalog is the parsed pantheon catalog file.
type Catalog struct {
	Agents []Agent `yaml:"agents" json:"agents"`
}

// LoadCatalog reads an agent catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return ReadCatalog(fd)
}

// ReadCatalog parses an agent catalog from a reader.
func ReadCatalog(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	for i, a := range c.Agents {
		if a.ID == "" {
			return nil, fmt.Errorf("catalog agent %d has no id", i)
		}
	}
	return &c, nil
}

// IDs returns the agent ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Agents))
	for _, a := range c.Agents {
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)
	return ids
}

// IDSet returns the agent ids as a set for membership checks.
func (c *Catalog) IDSet() mapset.Set[string] {
	s := mapset.NewSet[string]()
	for _, a := range c.Agents {
		s.Add(a.ID)
	}
	return s
}
