// Package haskell implements the Haskell ecosystem adapter: cabal manifest
// scanning, ghc-pkg registry queries, and transitive dependency-closure
// resolution for license inventory reports.
package haskell

import (
	"context"

	"github.com/matzehuels/depledger/pkg/deps"
	"github.com/matzehuels/depledger/pkg/execx"
	"github.com/matzehuels/depledger/pkg/observability"
)

// Name is the adapter identifier used in logs and CLI output.
const Name = "haskell"

// Adapter ties the cabal manifest scanner, the ghc-pkg client and the
// closure resolver together for one project root.
type Adapter struct {
	root     string
	scanner  deps.ManifestScanner
	client   *Client
	resolver *deps.Resolver
}

// NewAdapter creates the adapter for a project root.
func NewAdapter(runner execx.Runner, root string, cfg Config) (*Adapter, error) {
	cfg = cfg.WithDefaults()
	client, err := NewClient(runner, root, cfg)
	if err != nil {
		return nil, err
	}
	return &Adapter{
		root:     root,
		scanner:  NewCabalScanner(cfg.TargetKinds),
		client:   client,
		resolver: deps.NewResolver(tool, client),
	}, nil
}

// Client exposes the underlying registry client (used by diagnostics).
func (a *Adapter) Client() *Client { return a.client }

// Enabled reports whether the adapter is active for this project: at least
// one declared dependency must be found across the manifests and ghc-pkg
// must be invocable on the host. The gate short-circuits resolution; a
// disabled adapter reports no packages rather than an error.
func (a *Adapter) Enabled(ctx context.Context) bool {
	names, err := a.scanner.Scan(a.root)
	if err != nil || len(names) == 0 {
		return false
	}
	return a.client.Available(ctx)
}

// CurrentPackages resolves the full transitive package set for the project
// and describes every resolved id. When the adapter gate is closed (no
// declared dependencies, or ghc-pkg unavailable) the result is empty.
func (a *Adapter) CurrentPackages(ctx context.Context, opts deps.Options) ([]*deps.Package, error) {
	opts = opts.WithDefaults()

	names, err := a.scanner.Scan(a.root)
	if err != nil {
		return nil, err
	}
	observability.Scan().OnScanComplete(ctx, Name, len(names))

	if len(names) == 0 {
		return nil, nil
	}
	if !a.client.Available(ctx) {
		opts.Logger("%s not found, disabling %s adapter", tool, Name)
		return nil, nil
	}

	ids := a.resolver.Resolve(ctx, names, opts)
	describer := NewDescriber(a.client, a.root)
	return deps.DescribeAll(ctx, describer, ids, opts), nil
}
