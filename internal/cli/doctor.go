package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depledger/pkg/deps/haskell"
	"github.com/matzehuels/depledger/pkg/errors"
)

// doctorCommand creates the doctor command, which reports whether the host
// environment can serve a scan: tool availability, probed version, and
// which configured package databases resolved.
func (c *CLI) doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [dir]",
		Short: "Check the host environment for a project scan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
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
			adapter, err := haskell.NewAdapter(c.Runner, root, cfg)
			if err != nil {
				return err
			}

			client := adapter.Client()
			ctx := cmd.Context()

			printKeyValue("project", root)
			printKeyValue("kinds", strings.Join(cfg.TargetKinds, ", "))

			if !client.Available(ctx) {
				printError("ghc-pkg not available; the haskell adapter is disabled")
				return nil
			}
			printSuccess("ghc-pkg available (version %s)", client.Version(ctx))

			flags := client.DatabaseFlags(ctx)
			if len(flags) == 0 {
				printWarning("no package databases resolved")
				return nil
			}
			printInfo("package databases:")
			for _, flag := range flags {
				printDetail("%s", flag)
			}

			if adapter.Enabled(ctx) {
				printSuccess("adapter enabled: manifests declare dependencies")
			} else {
				printWarning("adapter disabled: no declared dependencies found")
			}
			return nil
		},
	}
}
