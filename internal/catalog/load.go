package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalogYAML []byte

// File is the on-disk shape of a catalog document.
type File struct {
	Constructions []ConstructionDoc `yaml:"constructions"`
	Patterns      []PatternDoc      `yaml:"patterns"`
}

// ConstructionDoc is a construction as written in a catalog file.
type ConstructionDoc struct {
	ID       string `yaml:"id"`
	Degree   string `yaml:"degree"`
	Order    string `yaml:"order"`
	Template string `yaml:"template"`
	Example  string `yaml:"example"`
}

// PatternDoc is a pattern as written in a catalog file.
type PatternDoc struct {
	Description   string   `yaml:"description"`
	Regex         string   `yaml:"regex"`
	Constructions []string `yaml:"constructions"`
	ParseMethod   string   `yaml:"parse_method,omitempty"`
	CaseSensitive bool     `yaml:"case_sensitive,omitempty"`
}

// LoadStats counts what a load registered and what it skipped.
type LoadStats struct {
	Constructions int `json:"constructions"`
	Patterns      int `json:"patterns"`
	Duplicates    int `json:"duplicates"`
}

// DefaultYAML returns the embedded reference catalog document.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultCatalogYAML...)
}

// Default builds a catalog from the embedded reference set.
func Default(opts ...Option) (*Catalog, LoadStats, error) {
	return Load(bytes.NewReader(defaultCatalogYAML), opts...)
}

// LoadFile validates the file against the catalog schema and loads it.
func LoadFile(path string, opts ...Option) (*Catalog, LoadStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("read catalog file: %w", err)
	}
	if err := ValidateSchema(data); err != nil {
		return nil, LoadStats{}, err
	}
	return Load(bytes.NewReader(data), opts...)
}

// Load parses a catalog document and registers its entries in order.
//
// Unknown fields are rejected so typos surface instead of silently dropping
// data. Duplicate keys are skipped with a warning and counted; bad enum
// values or regular expressions fail the whole load.
func Load(r io.Reader, opts ...Option) (*Catalog, LoadStats, error) {
	var doc File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, LoadStats{}, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	c := New(opts...)
	var stats LoadStats

	for i, cd := range doc.Constructions {
		con, err := cd.build()
		if err != nil {
			return nil, stats, fmt.Errorf("constructions[%d]: %w", i, err)
		}
		if err := c.AddConstruction(con); err != nil {
			if errors.Is(err, ErrDuplicate) {
				stats.Duplicates++
				continue
			}
			return nil, stats, err
		}
		stats.Constructions++
	}

	for i, pd := range doc.Patterns {
		p, err := pd.build()
		if err != nil {
			return nil, stats, fmt.Errorf("patterns[%d]: %w", i, err)
		}
		if err := c.AddPattern(p); err != nil {
			if errors.Is(err, ErrDuplicate) {
				stats.Duplicates++
				continue
			}
			return nil, stats, err
		}
		stats.Patterns++
	}

	return c, stats, nil
}

func (d ConstructionDoc) build() (Construction, error) {
	if d.ID == "" {
		return Construction{}, fmt.Errorf("id is required")
	}
	degree, err := parseOptional(d.Degree, ParseDegree, DegreeUnknown)
	if err != nil {
		return Construction{}, fmt.Errorf("construction %s: %w", d.ID, err)
	}
	order, err := parseOptional(d.Order, ParseOrder, OrderUnknown)
	if err != nil {
		return Construction{}, fmt.Errorf("construction %s: %w", d.ID, err)
	}
	return Construction{
		ID:       d.ID,
		Degree:   degree,
		Order:    order,
		Template: d.Template,
		Example:  d.Example,
	}, nil
}

func (d PatternDoc) build() (Pattern, error) {
	if d.Description == "" {
		return Pattern{}, fmt.Errorf("description is required")
	}
	if d.Regex == "" {
		return Pattern{}, fmt.Errorf("pattern %q: regex is required", d.Description)
	}
	method, err := parseOptional(d.ParseMethod, ParseParseMethod, ParseMethodUnknown)
	if err != nil {
		return Pattern{}, fmt.Errorf("pattern %q: %w", d.Description, err)
	}
	return NewPattern(d.Description, d.Regex, d.CaseSensitive, d.Constructions, method)
}

func parseOptional[T any](s string, parse func(string) (T, error), zero T) (T, error) {
	if s == "" {
		return zero, nil
	}
	return parse(s)
}
