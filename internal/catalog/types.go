package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

// Degree is the polarity a construction applies to a causal relationship.
// Facilitate enables or assists an outcome; Inhibit disables or hinders it.
type Degree int

const (
	DegreeUnknown Degree = iota
	DegreeFacilitate
	DegreeInhibit
)

var degreeNames = map[Degree]string{
	DegreeUnknown:    "unknown",
	DegreeFacilitate: "facilitate",
	DegreeInhibit:    "inhibit",
}

func (d Degree) String() string {
	if name, ok := degreeNames[d]; ok {
		return name
	}
	return degreeNames[DegreeUnknown]
}

// MarshalText renders the degree by name for JSON output.
func (d Degree) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ParseDegree maps a catalog name to a Degree. Names are case-insensitive.
func ParseDegree(s string) (Degree, error) {
	for d, name := range degreeNames {
		if strings.EqualFold(name, s) {
			return d, nil
		}
	}
	return DegreeUnknown, fmt.Errorf("unknown degree %q", s)
}

// Order is the order in which cause and effect appear in text.
type Order int

const (
	OrderUnknown Order = iota
	OrderCauseEffect
	OrderEffectCause
)

var orderNames = map[Order]string{
	OrderUnknown:     "unknown",
	OrderCauseEffect: "cause_effect",
	OrderEffectCause: "effect_cause",
}

func (o Order) String() string {
	if name, ok := orderNames[o]; ok {
		return name
	}
	return orderNames[OrderUnknown]
}

// MarshalText renders the order by name for JSON output.
func (o Order) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// ParseOrder maps a catalog name to an Order. Names are case-insensitive.
func ParseOrder(s string) (Order, error) {
	for o, name := range orderNames {
		if strings.EqualFold(name, s) {
			return o, nil
		}
	}
	return OrderUnknown, fmt.Errorf("unknown order %q", s)
}

// ParseMethod describes how a trigger should be handled in future searches:
//   - FullAuto: always applies, searched and validated every time ("because")
//   - SemiAuto: typically applies, searched but needs human validation ("arises from")
//   - Manual: noisy, never searched, must be selected by hand ("for", "to")
type ParseMethod int

const (
	ParseMethodUnknown ParseMethod = iota
	ParseMethodFullAuto
	ParseMethodSemiAuto
	ParseMethodManual
)

var parseMethodNames = map[ParseMethod]string{
	ParseMethodUnknown:  "Unknown",
	ParseMethodFullAuto: "FullAuto",
	ParseMethodSemiAuto: "SemiAuto",
	ParseMethodManual:   "Manual",
}

// catalog files spell parse methods in snake case
var parseMethodKeys = map[string]ParseMethod{
	"unknown":   ParseMethodUnknown,
	"full_auto": ParseMethodFullAuto,
	"semi_auto": ParseMethodSemiAuto,
	"manual":    ParseMethodManual,
}

func (m ParseMethod) String() string {
	if name, ok := parseMethodNames[m]; ok {
		return name
	}
	return parseMethodNames[ParseMethodUnknown]
}

// MarshalText renders the parse method by name for JSON output.
func (m ParseMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseParseMethod accepts both the catalog key ("semi_auto") and the
// display name ("SemiAuto").
func ParseParseMethod(s string) (ParseMethod, error) {
	if m, ok := parseMethodKeys[strings.ToLower(s)]; ok {
		return m, nil
	}
	for m, name := range parseMethodNames {
		if strings.EqualFold(name, s) {
			return m, nil
		}
	}
	return ParseMethodUnknown, fmt.Errorf("unknown parse method %q", s)
}

// Construction is an abstract causal-language template such as
// "<cause> gives rise to <effect>". Immutable once registered.
type Construction struct {
	ID       string `json:"id"`
	Degree   Degree `json:"degree"`
	Order    Order  `json:"order"`
	Template string `json:"template"`
	Example  string `json:"example"`
}

// Pattern is a concrete surface matcher for one or more constructions.
// Identity is the Description.
type Pattern struct {
	Description     string         `json:"description"`
	Regexp          *regexp.Regexp `json:"-"`
	ConstructionIDs []string       `json:"constructions"`
	ParseMethod     ParseMethod    `json:"parse_method"`
}

// NewPattern compiles expr into a Pattern. Matching is case-insensitive
// unless caseSensitive is set.
func NewPattern(description, expr string, caseSensitive bool, ids []string, method ParseMethod) (Pattern, error) {
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("compile pattern %q: %w", description, err)
	}
	return Pattern{
		Description:     description,
		Regexp:          re,
		ConstructionIDs: append([]string(nil), ids...),
		ParseMethod:     method,
	}, nil
}

// MustPattern is NewPattern for fixtures; it panics on a bad expression.
func MustPattern(description, expr string, ids ...string) Pattern {
	p, err := NewPattern(description, expr, false, ids, ParseMethodUnknown)
	if err != nil {
		panic(err)
	}
	return p
}

// PrimaryConstructionID is the construction a match of this pattern is
// attributed to. Multi-construction patterns are not disambiguated: the
// first listed id always wins. Empty when the pattern lists none.
func (p Pattern) PrimaryConstructionID() string {
	if len(p.ConstructionIDs) == 0 {
		return ""
	}
	return p.ConstructionIDs[0]
}

// Expr returns the source of the compiled expression.
func (p Pattern) Expr() string {
	if p.Regexp == nil {
		return ""
	}
	return p.Regexp.String()
}
