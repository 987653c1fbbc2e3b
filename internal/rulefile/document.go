package rulefile

import (
	"errors"
	"fmt"
	"math"

	"github.com/roach88/stochrammar/internal/textgrammar"
)

// NormalizeNFC is the Document.Normalize value that normalizes literals to
// Unicode NFC.
const NormalizeNFC = "nfc"

// Document is a decoded rule table.
type Document struct {
	// Name identifies the grammar in CLI output and logs.
	Name string `yaml:"name" json:"name" toml:"name"`

	// Description is free text.
	Description string `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`

	// Normalize selects literal normalization: empty (verbatim) or "nfc".
	Normalize string `yaml:"normalize,omitempty" json:"normalize,omitempty" toml:"normalize,omitempty"`

	// Rules in declaration order. Order matters: alternatives are sampled
	// in this order, so a seeded run is reproducible only for a fixed order.
	Rules []Rule `yaml:"rules" json:"rules" toml:"rules"`
}

// Rule is one alternative of the rule named Key.
type Rule struct {
	Key string `yaml:"key" json:"key" toml:"key"`

	// Weight is the relative probability of this alternative. Zero means 1.
	Weight float64 `yaml:"weight,omitempty" json:"weight,omitempty" toml:"weight,omitempty"`

	RHS []Symbol `yaml:"rhs,omitempty" json:"rhs,omitempty" toml:"rhs,omitempty"`
}

// Symbol is a right-hand-side entry: exactly one of Lit or Ref is set.
type Symbol struct {
	Lit string `yaml:"lit,omitempty" json:"lit,omitempty" toml:"lit,omitempty"`
	Ref string `yaml:"ref,omitempty" json:"ref,omitempty" toml:"ref,omitempty"`
}

// Validate checks the document structure. Undefined references are not
// structural errors; see Unresolved.
func (d *Document) Validate() error {
	var errs []error

	switch d.Normalize {
	case "", NormalizeNFC:
	default:
		errs = append(errs, fmt.Errorf("normalize must be empty or %q, got %q", NormalizeNFC, d.Normalize))
	}
	if len(d.Rules) == 0 {
		errs = append(errs, fmt.Errorf("rules list is required and must be non-empty"))
	}
	for i, r := range d.Rules {
		if r.Key == "" {
			errs = append(errs, fmt.Errorf("rules[%d]: key is required", i))
		}
		if r.Weight < 0 || math.IsNaN(r.Weight) || math.IsInf(r.Weight, 0) {
			errs = append(errs, fmt.Errorf("rules[%d]: weight must be a non-negative finite number", i))
		}
		for j, s := range r.RHS {
			switch {
			case s.Lit == "" && s.Ref == "":
				errs = append(errs, fmt.Errorf("rules[%d].rhs[%d]: one of lit or ref is required", i, j))
			case s.Lit != "" && s.Ref != "":
				errs = append(errs, fmt.Errorf("rules[%d].rhs[%d]: lit and ref are mutually exclusive", i, j))
			}
		}
	}

	return errors.Join(errs...)
}

// Build registers every rule into a new text grammar.
func (d *Document) Build() (*textgrammar.Grammar, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var opts []textgrammar.Option
	if d.Normalize == NormalizeNFC {
		opts = append(opts, textgrammar.WithNFC())
	}

	g := textgrammar.New(opts...)
	for i, r := range d.Rules {
		tokens := make([]textgrammar.Token, 0, len(r.RHS))
		for _, s := range r.RHS {
			if s.Ref != "" {
				tokens = append(tokens, g.Ref(s.Ref))
			} else {
				tokens = append(tokens, g.Literal(s.Lit))
			}
		}

		weight := r.Weight
		if weight == 0 {
			weight = 1
		}
		if err := g.AddWeightedRule(r.Key, weight, tokens...); err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
	}
	return g, nil
}

// Unresolved returns the keys referenced by the document but never defined,
// in first-reference order.
func (d *Document) Unresolved() []string {
	defined := make(map[string]bool, len(d.Rules))
	for _, r := range d.Rules {
		defined[r.Key] = true
	}

	var missing []string
	seen := make(map[string]bool)
	for _, r := range d.Rules {
		for _, s := range r.RHS {
			if s.Ref == "" || defined[s.Ref] || seen[s.Ref] {
				continue
			}
			seen[s.Ref] = true
			missing = append(missing, s.Ref)
		}
	}
	return missing
}
