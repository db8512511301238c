package deps

import (
	"context"
	"sort"
)

// DefaultWorkers bounds the number of concurrent registry queries issued
// for one resolution round.
const DefaultWorkers = 8

// Options configures dependency resolution behavior.
type Options struct {
	Workers int                  // Concurrent registry queries per round (default: 8)
	Logger  func(string, ...any) // Progress/error callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Package holds the metadata resolved for one installed package. A record
// is built once by a Describer and not mutated afterwards; an empty string
// means the registry reported no value for that field.
type Package struct {
	ID         string `json:"id"`                    // Canonical installed-package identifier
	Name       string `json:"name,omitempty"`        // Package name
	Version    string `json:"version,omitempty"`     // Installed version
	Summary    string `json:"summary,omitempty"`     // One-line synopsis
	Homepage   string `json:"homepage,omitempty"`    // Sanitized homepage URL
	DocDir     string `json:"doc_dir,omitempty"`     // Shipped documentation directory
	SearchRoot string `json:"search_root,omitempty"` // Root for locating license/doc files
}

// ManifestScanner extracts declared top-level dependency names from
// manifest files in a project root. Implementations are best-effort:
// unreadable or empty manifests contribute nothing rather than failing
// the scan.
type ManifestScanner interface {
	// Scan returns the deduplicated set of declared dependency names.
	Scan(root string) ([]string, error)
	// Type returns the manifest type identifier (e.g., "cabal").
	Type() string
}

// Describer builds a package record for one resolved id. Fields the
// registry cannot report stay empty; a describe never fails outright.
type Describer interface {
	Describe(ctx context.Context, id string) *Package
}

// sortPackages orders records by name, falling back to id for packages
// the registry reported no name for.
func sortPackages(pkgs []*Package) {
	sort.Slice(pkgs, func(i, j int) bool {
		if pkgs[i].Name != pkgs[j].Name {
			return pkgs[i].Name < pkgs[j].Name
		}
		return pkgs[i].ID < pkgs[j].ID
	})
}
