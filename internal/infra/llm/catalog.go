package llm

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Model is one selectable catalog entry.
type Model struct {
	Name     string `yaml:"name" json:"name"`
	Provider string `yaml:"provider" json:"provider"`
	Label    string `yaml:"label" json:"label"`
}

// catalogFile is the YAML layout of MODELS_FILE.
//
//	default: llama-3.1-8b-instant
//	models:
//	  - name: llama-3.1-8b-instant
//	    provider: groq
//	    label: Llama 3.1 8B Instant
type catalogFile struct {
	Default string  `yaml:"default"`
	Models  []Model `yaml:"models"`
}

// DefaultModels returns the built-in model list, in display order.
func DefaultModels() []Model {
	return []Model{
		{Name: "gemma-7b-it", Provider: ProviderGroq, Label: "Gemma 7B IT"},
		{Name: "llama-3.1-8b-instant", Provider: ProviderGroq, Label: "Llama 3.1 8B Instant"},
		{Name: "llama-3.1-70b-versatile", Provider: ProviderGroq, Label: "Llama 3.1 70B Versatile"},
	}
}

// Catalog is the ordered, swappable list of selectable models.
type Catalog struct {
	mu          sync.RWMutex
	models      []Model
	defaultName string
}

// NewCatalog validates models and returns a catalog. An empty defaultName
// selects the first model.
func NewCatalog(models []Model, defaultName string) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(models, defaultName); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultCatalog returns a catalog holding DefaultModels.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultModels(), "")
	if err != nil {
		panic(fmt.Sprintf("built-in model catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalogFile reads a YAML catalog from path.
func LoadCatalogFile(path string) (*Catalog, error) {
	models, def, err := readCatalogFile(path)
	if err != nil {
		return nil, err
	}
	return NewCatalog(models, def)
}

// Reload re-reads path and swaps the catalog contents. On error the current
// contents are kept.
func (c *Catalog) Reload(path string) error {
	models, def, err := readCatalogFile(path)
	if err != nil {
		return err
	}
	return c.Replace(models, def)
}

// Replace validates and swaps the catalog contents.
func (c *Catalog) Replace(models []Model, defaultName string) error {
	normalized, def, err := validateModels(models, defaultName)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.models = normalized
	c.defaultName = def
	c.mu.Unlock()
	return nil
}

// Models returns a copy of the catalog in display order.
func (c *Catalog) Models() []Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Model, len(c.models))
	copy(out, c.models)
	return out
}

// Lookup finds a model by name, ignoring case.
func (c *Catalog) Lookup(name string) (Model, bool) {
	name = strings.TrimSpace(name)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.models {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Model{}, false
}

// Default returns the model preselected in the UI and used when a request
// names none.
func (c *Catalog) Default() Model {
	m, _ := c.Lookup(c.defaultModelName())
	return m
}

func (c *Catalog) defaultModelName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultName
}

func readCatalogFile(path string) ([]Model, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read model catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("parse model catalog %s: %w", path, err)
	}
	return f.Models, f.Default, nil
}

func validateModels(models []Model, defaultName string) ([]Model, string, error) {
	if len(models) == 0 {
		return nil, "", fmt.Errorf("model catalog is empty")
	}

	seen := make(map[string]bool, len(models))
	out := make([]Model, 0, len(models))
	for i, m := range models {
		m.Name = strings.TrimSpace(m.Name)
		m.Provider = strings.ToLower(strings.TrimSpace(m.Provider))
		m.Label = strings.TrimSpace(m.Label)

		if m.Name == "" {
			return nil, "", fmt.Errorf("model %d: name is required", i)
		}
		switch m.Provider {
		case ProviderGroq, ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderNoop:
		default:
			return nil, "", fmt.Errorf("model %q: %w %q", m.Name, ErrUnsupportedProvider, m.Provider)
		}
		key := strings.ToLower(m.Name)
		if seen[key] {
			return nil, "", fmt.Errorf("model %q listed twice", m.Name)
		}
		seen[key] = true
		if m.Label == "" {
			m.Label = m.Name
		}
		out = append(out, m)
	}

	defaultName = strings.TrimSpace(defaultName)
	if defaultName == "" {
		return out, out[0].Name, nil
	}
	if !seen[strings.ToLower(defaultName)] {
		return nil, "", fmt.Errorf("default model %q is not in the catalog", defaultName)
	}
	return out, defaultName, nil
}
