// internal/catalog/catalog.go
//
// The catalog is the ordered, read-only list of reviewable units the
// artifact breaks down into — for a test-generation agent, the individual
// generated test cases. Review actions target the artifact as a whole;
// per-item approve/reject is an extension point and does not mutate
// catalog state.

package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Status is the closed taxonomy for catalog items. Extending it requires
// extending the style table below to match.
type Status string

const (
	StatusPendingReview   Status = "pending_review"
	StatusApproved        Status = "approved"
	StatusNeedsRevision   Status = "needs_revision"
	StatusPendingApproval Status = "pending_approval"
)

// Style is how a status renders: a human label and a foreground color.
// Colors are plain hex strings so the catalog stays free of UI imports.
type Style struct {
	Label string
	Color string
}

// statusStyles is the closed status lookup. Anything not listed renders
// through neutralStyle rather than failing.
var statusStyles = map[Status]Style{
	StatusPendingReview:   {Label: "pending review", Color: "#F7B801"},
	StatusApproved:        {Label: "approved", Color: "#4CAF50"},
	StatusNeedsRevision:   {Label: "needs revision", Color: "#FF6B6B"},
	StatusPendingApproval: {Label: "pending approval", Color: "#F7B801"},
}

var neutralStyle = Style{Label: "unknown", Color: "#999999"}

// StyleFor resolves a status to its display style, falling back to the
// neutral default for unrecognized values.
func StyleFor(s Status) Style {
	if style, ok := statusStyles[s]; ok {
		return style
	}
	return neutralStyle
}

// Item is one reviewable unit.
type Item struct {
	ID             string   `yaml:"id"`
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description,omitempty"`
	Complexity     string   `yaml:"complexity,omitempty"`
	Duration       string   `yaml:"duration,omitempty"`
	Status         Status   `yaml:"status"`
	Tags           []string `yaml:"tags,omitempty"`
	Preconditions  string   `yaml:"preconditions,omitempty"`
	Dependencies   string   `yaml:"dependencies,omitempty"`
	Steps          []string `yaml:"steps,omitempty"`
	ExpectedResult string   `yaml:"expected_result,omitempty"`
}

// Counts summarizes a catalog for the header line.
type Counts struct {
	Total    int
	ByStatus map[Status]int
}

// Catalog holds the ordered items. It is not mutated after construction.
type Catalog struct {
	items []Item
}

// New builds a catalog, enforcing that item identifiers are unique.
func New(items []Item) (*Catalog, error) {
	seen := map[string]struct{}{}
	for i, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: item %d has no id", i)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("catalog: duplicate item id %q", id)
		}
		seen[id] = struct{}{}
	}
	return &Catalog{items: items}, nil
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return New(items)
}

// Items returns the items in catalog order.
func (c *Catalog) Items() []Item { return c.items }

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Item looks up an item by identifier.
func (c *Catalog) Item(id string) (Item, bool) {
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Contains reports whether id names an item in this catalog.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.Item(id)
	return ok
}

// Counts derives the total and per-status counts for summary display.
func (c *Catalog) Counts() Counts {
	counts := Counts{Total: len(c.items), ByStatus: map[Status]int{}}
	for _, item := range c.items {
		counts.ByStatus[item.Status]++
	}
	return counts
}
