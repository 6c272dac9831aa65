package catalog

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrDuplicate marks an insertion skipped because the key is already registered.
var ErrDuplicate = errors.New("duplicate catalog key")

// DuplicateError reports which key collided. It matches ErrDuplicate with errors.Is.
type DuplicateError struct {
	Kind string // "construction" or "pattern"
	Key  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Key)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// Catalog is the registry of causal constructions and patterns.
//
// It is append-only: entries keep insertion order and are never removed.
// A catalog is populated before a session starts and only read afterwards,
// so it carries no locking.
type Catalog struct {
	constructions []Construction
	patterns      []Pattern
	logger        *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger that receives duplicate-key warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddConstruction registers con unless a construction with the same ID exists.
// A duplicate is a no-op: the first registration wins, a warning is logged
// and a *DuplicateError is returned so callers may count it.
func (c *Catalog) AddConstruction(con Construction) error {
	if _, exists := c.FindConstruction(con.ID); exists {
		c.logger.Warn("construction already exists, skipping", "id", con.ID)
		return &DuplicateError{Kind: "construction", Key: con.ID}
	}
	c.constructions = append(c.constructions, con)
	return nil
}

// AddPattern registers p unless a pattern with the same description exists.
// Duplicates follow the AddConstruction policy.
func (c *Catalog) AddPattern(p Pattern) error {
	for _, existing := range c.patterns {
		if existing.Description == p.Description {
			c.logger.Warn("pattern already exists, skipping", "description", p.Description)
			return &DuplicateError{Kind: "pattern", Key: p.Description}
		}
	}
	c.patterns = append(c.patterns, p)
	return nil
}

// FindConstruction returns the construction with the given ID.
// The boolean is false when no such construction is registered.
func (c *Catalog) FindConstruction(id string) (Construction, bool) {
	for _, con := range c.constructions {
		if con.ID == id {
			return con, true
		}
	}
	return Construction{}, false
}

// Constructions returns all constructions in insertion order.
// The returned slice is a copy.
func (c *Catalog) Constructions() []Construction {
	return append([]Construction(nil), c.constructions...)
}

// Patterns returns all patterns in insertion order.
// The returned slice is a copy.
func (c *Catalog) Patterns() []Pattern {
	return append([]Pattern(nil), c.patterns...)
}

// Reference is a pattern's pointer to a construction id.
type Reference struct {
	Pattern        string `json:"pattern"`
	ConstructionID string `json:"construction_id"`
}

// UnresolvedReferences lists construction ids named by patterns that have
// no registered construction, in pattern order.
func (c *Catalog) UnresolvedReferences() []Reference {
	var refs []Reference
	for _, p := range c.patterns {
		for _, id := range p.ConstructionIDs {
			if _, ok := c.FindConstruction(id); !ok {
				refs = append(refs, Reference{Pattern: p.Description, ConstructionID: id})
			}
		}
	}
	return refs
}
