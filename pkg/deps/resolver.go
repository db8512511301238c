package deps

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/depledger/pkg/observability"
)

// Fetcher answers the registry queries the resolver needs. Both operations
// tolerate per-query failure: an unresolvable name or a failed depends
// lookup narrows the result instead of aborting resolution.
//
// Implementations must be safe for concurrent use; the resolver issues all
// queries of one round from a bounded worker pool.
type Fetcher interface {
	// ResolveID maps a declared dependency name to the canonical installed
	// package id. ok is false when the registry cannot resolve the name.
	ResolveID(ctx context.Context, name string) (id string, ok bool)

	// Depends returns the ids the given package directly depends on. The
	// returned values are already canonical ids and are never passed back
	// through ResolveID. A failed query yields an empty slice.
	Depends(ctx context.Context, id string) []string
}

// Resolver computes the transitive closure of the depends relation starting
// from declared top-level dependency names.
//
// The computation is an iterative fixed point over a frontier and a seen
// set: each round queries the depends field for every id added in the
// previous round, and the next frontier is whatever those queries surface
// minus everything already seen. The seen set only grows and the universe
// of ids is finite, so the loop terminates even when the registry declares
// circular depends relations. Only set membership is part of the contract;
// traversal order never affects the result.
type Resolver struct {
	name    string
	fetcher Fetcher
}

// NewResolver creates a Resolver that expands dependencies using the given
// Fetcher. The name identifies the backing registry in logs.
func NewResolver(name string, fetcher Fetcher) *Resolver {
	return &Resolver{name: name, fetcher: fetcher}
}

// Name returns the backing registry identifier.
func (r *Resolver) Name() string { return r.name }

// Resolve expands the depends relation to a fixed point and returns the
// sorted set of reachable package ids, roots included. Names the registry
// cannot resolve are dropped. An empty name set resolves to nil without
// touching the registry.
func (r *Resolver) Resolve(ctx context.Context, names []string, opts Options) []string {
	opts = opts.WithDefaults()
	if len(names) == 0 {
		return nil
	}

	observability.Resolve().OnResolveStart(ctx, r.name, len(names))

	frontier := r.mapRound(ctx, names, opts, func(name string) []string {
		id, ok := r.fetcher.ResolveID(ctx, name)
		if !ok {
			opts.Logger("cannot resolve %q, dropping", name)
			return nil
		}
		return []string{id}
	})

	seen := make(map[string]bool)
	rounds := 0
	for len(frontier) > 0 {
		fresh := frontier[:0]
		for _, id := range frontier {
			if !seen[id] {
				seen[id] = true
				fresh = append(fresh, id)
			}
		}
		if len(fresh) == 0 {
			break
		}
		rounds++
		observability.Resolve().OnRound(ctx, r.name, rounds, len(fresh))

		// The next frontier is computed only after every query of this
		// round has completed; rounds never observe partial results.
		frontier = r.mapRound(ctx, fresh, opts, func(id string) []string {
			return r.fetcher.Depends(ctx, id)
		})
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	observability.Resolve().OnResolveComplete(ctx, r.name, len(ids), rounds)
	return ids
}

// mapRound applies fn to every item using a bounded worker pool and returns
// the concatenated results. Order of the output is not meaningful; callers
// deduplicate against the seen set.
func (r *Resolver) mapRound(ctx context.Context, items []string, opts Options, fn func(string) []string) []string {
	workers := opts.Workers
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan string)
	var (
		mu  sync.Mutex
		out []string
		wg  sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				if ctx.Err() != nil {
					continue
				}
				found := fn(item)
				mu.Lock()
				out = append(out, found...)
				mu.Unlock()
			}
		}()
	}
	for _, item := range items {
		jobs <- item
	}
	close(jobs)
	wg.Wait()
	return out
}

// DescribeAll builds records for every id using the same bounded pool the
// resolver uses for closure rounds. Records come back sorted by package
// name so output is deterministic regardless of query completion order.
func DescribeAll(ctx context.Context, d Describer, ids []string, opts Options) []*Package {
	opts = opts.WithDefaults()
	if len(ids) == 0 {
		return nil
	}

	workers := opts.Workers
	if workers > len(ids) {
		workers = len(ids)
	}

	jobs := make(chan string)
	var (
		mu   sync.Mutex
		pkgs []*Package
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				if ctx.Err() != nil {
					continue
				}
				pkg := d.Describe(ctx, id)
				mu.Lock()
				pkgs = append(pkgs, pkg)
				mu.Unlock()
			}
		}()
	}
	for _, id := range ids {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	sortPackages(pkgs)
	return pkgs
}
