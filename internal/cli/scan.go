package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depledger/pkg/deps"
	"github.com/matzehuels/depledger/pkg/deps/haskell"
	"github.com/matzehuels/depledger/pkg/errors"
)

// scanOpts holds the command-line flags for the scan command.
type scanOpts struct {
	format  string   // output format: json or table
	output  string   // output file path (stdout if empty)
	kinds   []string // override configured target kinds
	workers int      // concurrent registry queries per round
}

// scanCommand creates the scan command.
//
// Default options:
//   - format: json
//   - workers: deps.DefaultWorkers concurrent registry queries per round
func (c *CLI) scanCommand() *cobra.Command {
	opts := scanOpts{format: "json"}

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Inventory the transitive dependency set of a project",
		Long: `Scan a project root for cabal manifests, resolve the transitive closure
of its declared dependencies via ghc-pkg, and write one record per package.

Examples:
  depledger scan                      # Scan the current directory
  depledger scan ~/src/myproject      # Scan an explicit project root
  depledger scan --format table       # Human-readable output
  depledger scan -o packages.json     # Write records to a file`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return c.runScan(cmd, root, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format (json|table)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringSliceVar(&opts.kinds, "kinds", nil, "cabal stanza kinds to scan (overrides config)")
	cmd.Flags().IntVar(&opts.workers, "workers", deps.DefaultWorkers, "concurrent registry queries per round")

	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, root string, opts *scanOpts) error {
	if opts.format != "json" && opts.format != "table" {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (available: json, table)", opts.format)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolving %s", root)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return errors.New(errors.ErrCodeInvalidPath, "no such project root: %s", root)
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if len(opts.kinds) > 0 {
		cfg.TargetKinds = opts.kinds
	}

	adapter, err := haskell.NewAdapter(c.Runner, root, cfg)
	if err != nil {
		return err
	}

	c.Logger.Infof("Scanning %s", root)
	prog := newProgress(c.Logger)

	spin := newSpinnerWithContext(cmd.Context(), "Resolving dependency closure...")
	spin.Start()
	pkgs, err := adapter.CurrentPackages(cmd.Context(), deps.Options{
		Workers: opts.workers,
		Logger:  func(msg string, args ...any) { c.Logger.Warnf(msg, args...) },
	})
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d packages", len(pkgs)))

	return writePackages(pkgs, opts.format, opts.output)
}

// writePackages serializes the records to path (or stdout if empty).
func writePackages(pkgs []*deps.Package, format, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if format == "table" {
		return renderTable(out, pkgs)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(pkgs)
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
