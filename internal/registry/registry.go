// Package registry exposes the fixed spending-category taxonomy. The
// taxonomy is embedded at build time and immutable for the process
// lifetime.
package registry

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"cashmentor/internal/core"
)

//go:embed categories.yaml
var taxonomyYAML []byte

var categories []core.Category

func init() {
	var doc struct {
		Categories []core.Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(taxonomyYAML, &doc); err != nil {
		panic(fmt.Sprintf("registry: parse embedded taxonomy: %v", err))
	}
	if len(doc.Categories) == 0 {
		panic("registry: embedded taxonomy is empty")
	}
	seen := make(map[string]struct{}, len(doc.Categories))
	for _, c := range doc.Categories {
		if c.Value == "" || c.Label == "" {
			panic(fmt.Sprintf("registry: category with empty value or label: %+v", c))
		}
		if _, dup := seen[c.Value]; dup {
			panic(fmt.Sprintf("registry: duplicate category value %q", c.Value))
		}
		seen[c.Value] = struct{}{}
	}
	categories = doc.Categories
}

// List returns the categories in declaration order. The returned slice is
// a copy; callers may not mutate the registry.
func List() []core.Category {
	out := make([]core.Category, len(categories))
	copy(out, categories)
	return out
}

// Contains reports whether value names a registered category.
func Contains(value string) bool {
	for _, c := range categories {
		if c.Value == value {
			return true
		}
	}
	return false
}

// Default returns the category preselected for new expenses.
func Default() string {
	return categories[0].Value
}
