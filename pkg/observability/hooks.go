// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about manifest scans, closure
// resolution, and external tool invocations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetResolveHooks(&myResolveHooks{})
//	    observability.SetExecHooks(&myExecHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// ScanHooks receives events from manifest scanning.
type ScanHooks interface {
	// OnScanComplete records a finished manifest scan and the number of
	// declared dependency names it produced.
	OnScanComplete(ctx context.Context, adapter string, declared int)
}

// ResolveHooks receives events from dependency-closure resolution.
type ResolveHooks interface {
	// OnResolveStart records the beginning of one closure computation.
	OnResolveStart(ctx context.Context, registry string, roots int)

	// OnRound records one expansion round and the number of ids it added.
	OnRound(ctx context.Context, registry string, round, added int)

	// OnResolveComplete records the fixed point: total resolved ids and
	// the number of rounds it took to reach them.
	OnResolveComplete(ctx context.Context, registry string, resolved, rounds int)
}

// ExecHooks receives events from external tool invocations.
type ExecHooks interface {
	// OnCommand records an outgoing tool invocation.
	OnCommand(ctx context.Context, name string, args []string)

	// OnCommandComplete records the invocation result. err is non-nil for
	// missing binaries and non-zero exits, including allowed failures.
	OnCommandComplete(ctx context.Context, name string, duration time.Duration, err error)
}

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnScanComplete(context.Context, string, int) {}

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnResolveStart(context.Context, string, int)         {}
func (NoopResolveHooks) OnRound(context.Context, string, int, int)           {}
func (NoopResolveHooks) OnResolveComplete(context.Context, string, int, int) {}

// NoopExecHooks is a no-op implementation of ExecHooks.
type NoopExecHooks struct{}

func (NoopExecHooks) OnCommand(context.Context, string, []string)                     {}
func (NoopExecHooks) OnCommandComplete(context.Context, string, time.Duration, error) {}

var (
	scanHooks    ScanHooks    = NoopScanHooks{}
	resolveHooks ResolveHooks = NoopResolveHooks{}
	execHooks    ExecHooks    = NoopExecHooks{}
	hooksMu      sync.RWMutex
)

// SetScanHooks registers custom scan hooks.
// This should be called once at application startup before any scans.
func SetScanHooks(h ScanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scanHooks = h
	}
}

// SetResolveHooks registers custom resolve hooks.
// This should be called once at application startup before any resolution.
func SetResolveHooks(h ResolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolveHooks = h
	}
}

// SetExecHooks registers custom exec hooks.
// This should be called once at application startup before any invocations.
func SetExecHooks(h ExecHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		execHooks = h
	}
}

// Scan returns the registered scan hooks.
func Scan() ScanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scanHooks
}

// Resolve returns the registered resolve hooks.
func Resolve() ResolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolveHooks
}

// Exec returns the registered exec hooks.
func Exec() ExecHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return execHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	scanHooks = NoopScanHooks{}
	resolveHooks = NoopResolveHooks{}
	execHooks = NoopExecHooks{}
}
