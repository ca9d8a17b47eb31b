// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records and configuration shared across stages.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single request attempt.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxAttempts is the number of attempts made when a request times out
	// (default 2). Other failures are never retried.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// CatalogConfig holds settings for the family catalog stage.
type CatalogConfig struct {
	// BaseURL is the plant list site root (e.g. "http://www.theplantlist.org").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Groups lists the major-group letters whose browse pages are read.
	Groups []string `json:"groups" yaml:"groups"`

	// GroupDelay is the delay between consecutive group fetches (default 2s).
	GroupDelay time.Duration `json:"group_delay" yaml:"group_delay"`
}

// HarvestConfig holds settings for the per-family detail stage.
type HarvestConfig struct {
	// BaseURL is the seed information database root (e.g. "https://data.kew.org").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// FamilyDelay is the delay after each family request (default 10s).
	FamilyDelay time.Duration `json:"family_delay" yaml:"family_delay"`
}

// OutputConfig holds settings for the written table.
type OutputConfig struct {
	// Directory is where the table is written; it must already exist.
	Directory string `json:"directory" yaml:"directory"`

	// FileName is the base name of the table, without extension.
	FileName string `json:"filename" yaml:"filename"`

	// DBPath, when set, also exports the table into a SQLite database.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// RunConfig groups all stage configurations for one run.
type RunConfig struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Harvest HarvestConfig `json:"harvest" yaml:"harvest"`
	Output  OutputConfig  `json:"output" yaml:"output"`
}
