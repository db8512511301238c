package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depledger/pkg/deps/haskell"
	"github.com/matzehuels/depledger/pkg/errors"
)

// configFile is the optional per-project configuration file name.
const configFile = ".depledger.toml"

// fileConfig mirrors the TOML layout of .depledger.toml.
//
//	[haskell]
//	target-kinds = ["executable", "library", "test-suite"]
//	package-dbs  = ["global", "user", "dist/package.conf.d/{version}"]
type fileConfig struct {
	Haskell struct {
		TargetKinds []string `toml:"target-kinds"`
		PackageDBs  []string `toml:"package-dbs"`
	} `toml:"haskell"`
}

// loadConfig reads .depledger.toml from the project root. A missing file
// yields the default configuration; a malformed one is an error, since a
// half-read config would silently change which dependencies are reported.
func loadConfig(root string) (haskell.Config, error) {
	path := filepath.Join(root, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return haskell.Config{}.WithDefaults(), nil
	}
	if err != nil {
		return haskell.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading %s", path)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return haskell.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing %s", path)
	}
	return haskell.Config{
		TargetKinds: fc.Haskell.TargetKinds,
		PackageDBs:  fc.Haskell.PackageDBs,
	}.WithDefaults(), nil
}
