// Package catalog describes the installer keys archconf understands.
// The key set is embedded as TOML and drives schema resolution, strict
// validation, the keys command, and wizard field metadata.
package catalog

import (
	"fmt"
	"sync"

	_ "embed"

	"github.com/BurntSushi/toml"

	"github.com/isoforge/archconf/internal/conf"
)

//go:embed catalog.toml
var catalogTOML []byte

// Key describes one known installer key.
type Key struct {
	Name        string   `toml:"name"`
	Group       string   `toml:"group"`
	Kind        string   `toml:"kind"` // scalar, collection, single, multiple
	Required    bool     `toml:"required"`
	Values      []string `toml:"values"` // allowed candidate values, empty means free-form
	Description string   `toml:"description"`
	Example     string   `toml:"example"`
}

// ConfKind maps the catalog kind string onto the interpreter's Kind.
func (k Key) ConfKind() conf.Kind {
	switch k.Kind {
	case "single":
		return conf.CandidateSingle
	case "multiple":
		return conf.CandidateMultiple
	case "collection":
		return conf.Collection
	default:
		return conf.Scalar
	}
}

// Catalog is an ordered set of known keys. It implements conf.Schema.
type Catalog struct {
	keys   []Key
	byName map[string]int
}

type catalogFile struct {
	Keys []Key `toml:"key"`
}

// Parse builds a catalog from TOML data.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{byName: make(map[string]int, len(file.Keys))}
	for _, k := range file.Keys {
		if k.Name == "" {
			return nil, fmt.Errorf("catalog key without a name")
		}
		if _, dup := c.byName[k.Name]; dup {
			return nil, fmt.Errorf("duplicate catalog key %s", k.Name)
		}
		switch k.Kind {
		case "scalar", "collection", "single", "multiple":
		default:
			return nil, fmt.Errorf("catalog key %s: unknown kind %q", k.Name, k.Kind)
		}
		c.byName[k.Name] = len(c.keys)
		c.keys = append(c.keys, k)
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. The embedded data is covered
// by tests, so a parse failure here is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(catalogTOML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Keys returns all keys in catalog order.
func (c *Catalog) Keys() []Key {
	return c.keys
}

// Get returns the key named name.
func (c *Catalog) Get(name string) (Key, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Key{}, false
	}
	return c.keys[i], true
}

// Has reports whether name is a known key.
func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// KindOf implements conf.Schema.
func (c *Catalog) KindOf(name string) (conf.Kind, bool) {
	k, ok := c.Get(name)
	if !ok {
		return conf.Scalar, false
	}
	return k.ConfKind(), true
}

// Groups returns the distinct group names in catalog order.
func (c *Catalog) Groups() []string {
	seen := make(map[string]bool)
	var out []string
	for _, k := range c.keys {
		if seen[k.Group] {
			continue
		}
		seen[k.Group] = true
		out = append(out, k.Group)
	}
	return out
}

// GroupKeys returns the keys of one group in catalog order.
func (c *Catalog) GroupKeys(group string) []Key {
	var out []Key
	for _, k := range c.keys {
		if k.Group == group {
			out = append(out, k)
		}
	}
	return out
}

// Required returns the keys every complete configuration must assign.
func (c *Catalog) Required() []Key {
	var out []Key
	for _, k := range c.keys {
		if k.Required {
			out = append(out, k)
		}
	}
	return out
}

// MissingRequired returns the required key names cfg does not resolve
// to a non-empty value.
func (c *Catalog) MissingRequired(cfg *conf.Config) []string {
	var missing []string
	for _, k := range c.Required() {
		v, ok := cfg.Get(k.Name)
		if !ok || v.Scalar() == "" && len(v.List()) == 0 {
			missing = append(missing, k.Name)
		}
	}
	return missing
}

// AllowedValue reports whether value is legal for the named key. Keys
// without a values list accept anything.
func (c *Catalog) AllowedValue(name, value string) bool {
	k, ok := c.Get(name)
	if !ok || len(k.Values) == 0 {
		return true
	}
	for _, v := range k.Values {
		if v == value {
			return true
		}
	}
	return false
}
