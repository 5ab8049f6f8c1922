// Package store provides per-module SQLite insight storage.
//
// Every module owns one database file, <data_dir>/<slug>.db, holding a
// single project_insights table. Connections are opened per call and never
// shared between requests.
package store

import (
	"github.com/rcliao/aurvo/internal/model"
)

// TableName is the insight table inside every module database.
const TableName = "project_insights"

// Resolver supplies settings and module lookups. *config.Registry
// satisfies it.
type Resolver interface {
	Settings() (*model.Settings, error)
	List() ([]model.ModuleDefinition, error)
	Module(slug string) (model.ModuleDefinition, error)
}

// Record is a key/value pair to be written.
type Record struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
