package haskell

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/depledger/pkg/execx"
)

// tool is the external package-database query command.
const tool = "ghc-pkg"

// versionPlaceholder is substituted in configured package-db path templates
// with the output of `ghc-pkg --numeric-version`.
const versionPlaceholder = "{version}"

// fieldCacheSize bounds the per-run memoization of field queries. Entries
// never outlive the client, so resolution is still recomputed per run.
const fieldCacheSize = 1024

// Config is the adapter configuration surface.
type Config struct {
	// TargetKinds lists the cabal stanza kinds scanned for build-depends.
	TargetKinds []string
	// PackageDBs lists package-database selectors: the literal tokens
	// "global" and "user" pass through as flags, anything else is a path
	// template resolved against the project root.
	PackageDBs []string
}

// WithDefaults returns a copy of Config with empty lists replaced by the
// defaults ({executable, library} and {global, user}).
func (c Config) WithDefaults() Config {
	cfg := c
	if len(cfg.TargetKinds) == 0 {
		cfg.TargetKinds = DefaultTargetKinds
	}
	if len(cfg.PackageDBs) == 0 {
		cfg.PackageDBs = []string{"global", "user"}
	}
	return cfg
}

// Client wraps ghc-pkg queries for one project root.
//
// Every query spawns one external process through the runner, with no
// retries: a failed invocation degrades to an empty result, which callers
// treat as "field unknown" rather than a hard error. Distinct field
// queries are memoized for the lifetime of the client so one run asks
// ghc-pkg each question at most once.
type Client struct {
	runner execx.Runner
	root   string
	dbs    []string

	probeOnce sync.Once
	version   string
	available bool

	fields *lru.Cache[string, map[string]string]
}

// NewClient creates a ghc-pkg client for the given project root.
func NewClient(runner execx.Runner, root string, cfg Config) (*Client, error) {
	fields, err := lru.New[string, map[string]string](fieldCacheSize)
	if err != nil {
		return nil, err
	}
	return &Client{
		runner: runner,
		root:   root,
		dbs:    cfg.WithDefaults().PackageDBs,
		fields: fields,
	}, nil
}

// Available reports whether ghc-pkg can be invoked on this host. The probe
// runs once per client; later calls return the cached result.
func (c *Client) Available(ctx context.Context) bool {
	c.probe(ctx)
	return c.available
}

// Version returns the numeric ghc-pkg version, or "" when the tool is
// unavailable.
func (c *Client) Version(ctx context.Context) string {
	c.probe(ctx)
	return c.version
}

func (c *Client) probe(ctx context.Context) {
	c.probeOnce.Do(func() {
		out, err := c.runner.Run(ctx, tool, "--numeric-version")
		if err != nil {
			return
		}
		c.version = strings.TrimSpace(out)
		c.available = c.version != ""
	})
}

// ResolveID maps a declared package name to its canonical installed id.
// ok is false when the tool invocation fails or reports no id; the caller
// drops the name and resolution continues without it.
func (c *Client) ResolveID(ctx context.Context, name string) (string, bool) {
	id := c.Fields(ctx, name, []string{"id"}, false)["id"]
	return id, id != ""
}

// Depends returns the direct dependency ids recorded for id. The values
// are full installed-package identifiers, not bare names.
func (c *Client) Depends(ctx context.Context, id string) []string {
	return strings.Fields(c.Fields(ctx, id, []string{"depends"}, true)["depends"])
}

// Fields queries one or more named fields for id and returns whatever the
// tool reported. Missing fields are simply absent from the map. When
// installedID is true the id is passed with --ipid, annotating it as a
// full installed-package identifier rather than a bare name.
func (c *Client) Fields(ctx context.Context, id string, names []string, installedID bool) map[string]string {
	key := id + "\x00" + strings.Join(names, ",")
	if installedID {
		key += "\x00ipid"
	}
	if cached, ok := c.fields.Get(key); ok {
		return cached
	}

	args := []string{"field", id, strings.Join(names, ",")}
	if installedID {
		args = append(args, "--ipid")
	}
	args = append(args, c.DatabaseFlags(ctx)...)

	result := make(map[string]string)
	if out, err := c.runner.Run(ctx, tool, args...); err == nil {
		result = parseFields(out)
	}
	c.fields.Add(key, result)
	return result
}

// DatabaseFlags renders the configured package-db selectors as ghc-pkg
// arguments. The global/user tokens pass through as flags; path templates
// have the version placeholder substituted, resolve against the project
// root, and are dropped silently when the path does not exist.
func (c *Client) DatabaseFlags(ctx context.Context) []string {
	flags := make([]string, 0, len(c.dbs))
	for _, db := range c.dbs {
		switch db {
		case "global", "user":
			flags = append(flags, "--"+db)
		default:
			path := strings.ReplaceAll(db, versionPlaceholder, c.Version(ctx))
			if !filepath.IsAbs(path) {
				path = filepath.Join(c.root, path)
			}
			if _, err := os.Stat(path); err != nil {
				continue
			}
			flags = append(flags, "--package-db="+path)
		}
	}
	return flags
}

// parseFields reads `field: value` lines, splitting at the first colon
// only. Wrapped continuation lines (leading whitespace) fold into the
// preceding field. Malformed lines are skipped and empty values parse as
// absent.
func parseFields(out string) map[string]string {
	fields := make(map[string]string)
	last := ""
	for _, line := range strings.Split(out, "\n") {
		if trimmed := strings.TrimLeft(line, " \t"); trimmed != line {
			if last == "" {
				continue
			}
			if cont := strings.TrimSpace(trimmed); cont != "" {
				if fields[last] != "" {
					fields[last] += " " + cont
				} else {
					fields[last] = cont
				}
			}
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) == "" {
			last = ""
			continue
		}
		last = strings.TrimSpace(key)
		if value = strings.TrimSpace(value); value != "" {
			fields[last] = value
		}
	}
	return fields
}
