// Package model defines the module catalog and insight data types.
package model

import "time"

// ModuleDefinition describes one configured module.
type ModuleDefinition struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Settings is the resolved runtime configuration.
type Settings struct {
	DataDir string             `json:"data_dir"`
	Modules []ModuleDefinition `json:"modules"`

	index map[string]int
}

// NewSettings builds Settings from an ordered list of definitions.
// Slugs are assumed unique.
func NewSettings(dataDir string, modules []ModuleDefinition) *Settings {
	s := &Settings{
		DataDir: dataDir,
		Modules: append([]ModuleDefinition(nil), modules...),
		index:   make(map[string]int, len(modules)),
	}
	for i, m := range s.Modules {
		s.index[m.Slug] = i
	}
	return s
}

// Module looks up a definition by slug.
func (s *Settings) Module(slug string) (ModuleDefinition, bool) {
	i, ok := s.index[slug]
	if !ok {
		return ModuleDefinition{}, false
	}
	return s.Modules[i], true
}

// Slugs returns the configured slugs in resolution order.
func (s *Settings) Slugs() []string {
	out := make([]string, len(s.Modules))
	for i, m := range s.Modules {
		out[i] = m.Slug
	}
	return out
}

// Insight is a key/value fact recorded against a module.
type Insight struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ModuleSummary is a module with its live record count.
type ModuleSummary struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Records     int    `json:"records"`
}

// ModuleDetail is a module together with all of its insights.
type ModuleDetail struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Insights    []Insight `json:"insights"`
}
