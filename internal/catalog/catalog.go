package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/tools.json
var fixtures embed.FS

const defaultFixture = "data/tools.json"

// Catalog is the read-only list of tools offered by the calculator and the
// comparison table. It is safe for concurrent use once built.
type Catalog struct {
	tools []Tool
	byID  map[string]int
}

// New builds a catalog from already-normalized tools.
func New(tools []Tool) (*Catalog, error) {
	c := &Catalog{
		tools: make([]Tool, 0, len(tools)),
		byID:  make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		if t.ID == "" {
			return nil, fmt.Errorf("tool %q has no id", t.Name)
		}
		if len(t.Plans) == 0 {
			return nil, fmt.Errorf("tool %q has no plans", t.ID)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate tool id %q", t.ID)
		}
		c.byID[t.ID] = len(c.tools)
		c.tools = append(c.tools, t)
	}
	return c, nil
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	data, err := fixtures.ReadFile(defaultFixture)
	if err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}
	return Parse(data, ".json")
}

// Load reads a JSON or YAML fixture from disk. An empty path loads the
// embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes raw fixture bytes. ext selects the decoder (".yaml"/".yml"
// for YAML, anything else for JSON). The document is either a list of tool
// records or an object with a "tools" list.
func Parse(data []byte, ext string) (*Catalog, error) {
	var doc any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}

	if m, ok := doc.(map[string]any); ok {
		doc = m["tools"]
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("catalog must be a list of tools")
	}

	records := make([]map[string]any, 0, len(list))
	for i, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("tool record %d is not an object", i)
		}
		records = append(records, rec)
	}

	tools, err := Normalize(records)
	if err != nil {
		return nil, err
	}
	return New(tools)
}

// List returns every tool in catalog order.
func (c *Catalog) List() []Tool {
	out := make([]Tool, len(c.tools))
	copy(out, c.tools)
	return out
}

// Len reports the number of tools.
func (c *Catalog) Len() int {
	return len(c.tools)
}

// Get looks a tool up by id.
func (c *Catalog) Get(id string) (Tool, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Tool{}, false
	}
	return c.tools[i], true
}
