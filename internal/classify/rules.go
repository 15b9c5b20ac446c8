package classify

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OtherCategory is assigned when no keyword matches.
const OtherCategory = "Other"

//go:embed rules.yaml
var defaultRules []byte

// Rules is the vocabulary used by the heuristics. All matching is
// case-insensitive substring containment.
type Rules struct {
	Transfer struct {
		Categories        []string `yaml:"categories"`
		PairingCategories []string `yaml:"pairing_categories"`
		Descriptions      []string `yaml:"descriptions"`
	} `yaml:"transfer"`

	Refund struct {
		Descriptions []string `yaml:"descriptions"`
	} `yaml:"refund"`

	Categories []Category `yaml:"categories"`
}

type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// DefaultRules returns the embedded rule table.
func DefaultRules() *Rules {
	r, err := ParseRules(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("embedded rules: %v", err))
	}

	return r
}

// LoadRules reads a rule table from path. An empty path yields DefaultRules.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}

	return ParseRules(data)
}

func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}

	r.lower()

	return &r, nil
}

func (r *Rules) lower() {
	lowerAll(r.Transfer.Categories)
	lowerAll(r.Transfer.PairingCategories)
	lowerAll(r.Transfer.Descriptions)
	lowerAll(r.Refund.Descriptions)

	for i := range r.Categories {
		lowerAll(r.Categories[i].Keywords)
	}
}

// LooksLikeTransfer reports whether the category or description carries
// transfer vocabulary.
func (r *Rules) LooksLikeTransfer(description, category string) bool {
	return containsAny(strings.ToLower(category), r.Transfer.Categories) ||
		containsAny(strings.ToLower(description), r.Transfer.Descriptions)
}

// LooksLikeRefund reports whether the description carries refund vocabulary.
func (r *Rules) LooksLikeRefund(description string) bool {
	return containsAny(strings.ToLower(description), r.Refund.Descriptions)
}

// IsPairingCategory reports whether category alone lets two legs pair.
func (r *Rules) IsPairingCategory(category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return false
	}

	for _, p := range r.Transfer.PairingCategories {
		if c == p {
			return true
		}
	}

	return false
}

// Categorize returns the first category whose keyword appears in the
// description, or OtherCategory.
func (r *Rules) Categorize(description string) string {
	d := strings.ToLower(description)

	for _, c := range r.Categories {
		if containsAny(d, c.Keywords) {
			return c.Name
		}
	}

	return OtherCategory
}

func containsAny(s string, needles []string) bool {
	if s == "" {
		return false
	}

	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}

	return false
}

func lowerAll(ss []string) {
	for i, s := range ss {
		ss[i] = strings.ToLower(strings.TrimSpace(s))
	}
}
