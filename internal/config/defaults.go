package config

import "github.com/rcliao/aurvo/internal/model"

// DefaultModules is the catalog used when no override is configured.
var DefaultModules = []model.ModuleDefinition{
	{
		Slug:        "santosecure",
		Title:       "SantoSecure",
		Description: "Quantum-grade security services and continuous monitoring for Aurvo's intelligent environments.",
	},
	{
		Slug:        "hoc-engine",
		Title:       "HOC Engine",
		Description: "Cognitive engine orchestrating data, AI and automation across the ecosystem's domains.",
	},
	{
		Slug:        "aurvocloud",
		Title:       "AurvoCloud",
		Description: "Distributed modular infrastructure hosting services, AI pipelines and immersive experiences.",
	},
	{
		Slug:        "aurvoui",
		Title:       "AurvoUI",
		Description: "Golden user interface for premium experiences on devices and connected vehicles.",
	},
	{
		Slug:        "aurvo-vehicles",
		Title:       "Aurvo Vehicles",
		Description: "Integration of the cognitive ecosystem into mobility platforms and smart vehicles.",
	},
}
