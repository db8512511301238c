// Package cli implements the depledger command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depledger/pkg/buildinfo"
	"github.com/matzehuels/depledger/pkg/execx"
)

// appName is the application name used for config files and display.
const appName = "depledger"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Runner execx.Runner
}

// New creates a new CLI instance with a default logger and the host
// process runner.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Runner: execx.System{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Depledger inventories third-party dependencies for license reports",
		Long:         `Depledger discovers the complete transitive set of third-party packages a project depends on, together with the metadata (name, version, summary, homepage, documentation location) needed for a license-compliance report.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.doctorCommand())
	root.AddCommand(c.completionCommand())

	return root
}
