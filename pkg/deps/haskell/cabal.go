package haskell

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// manifestExt is the cabal manifest file extension.
const manifestExt = ".cabal"

// DefaultTargetKinds are the cabal stanza kinds scanned for build-depends
// when the configuration leaves the list empty.
var DefaultTargetKinds = []string{"executable", "library"}

// depNameRE isolates the package name at the head of one dependency
// specifier; the trailing version constraint is discarded.
var depNameRE = regexp.MustCompile(`^[a-zA-Z0-9][-a-zA-Z0-9_]*`)

// CabalScanner extracts declared build-depends names from cabal files at
// the project root (non-recursive).
//
// The cabal grammar is loosely specified upstream, so extraction is
// deliberately best-effort: one multiline, case-insensitive regex per
// target kind captures the build-depends list of each matching stanza,
// where the list runs until a blank line or a non-indented line.
type CabalScanner struct {
	kinds  []string
	blocks []*regexp.Regexp
}

// NewCabalScanner creates a scanner for the given target kinds, falling
// back to DefaultTargetKinds when the list is empty.
func NewCabalScanner(kinds []string) *CabalScanner {
	if len(kinds) == 0 {
		kinds = DefaultTargetKinds
	}
	blocks := make([]*regexp.Regexp, len(kinds))
	for i, kind := range kinds {
		pattern := fmt.Sprintf(`(?is)\b%s\b.*?build-depends\s*:([^\n]*(?:\n[ \t]+[^\n]*)*)`, regexp.QuoteMeta(kind))
		blocks[i] = regexp.MustCompile(pattern)
	}
	return &CabalScanner{kinds: kinds, blocks: blocks}
}

// Type returns the manifest type identifier.
func (s *CabalScanner) Type() string { return "cabal" }

// Scan reads every *.cabal file directly under root and returns the union
// of dependency names declared in stanzas matching the configured target
// kinds. Duplicates collapse and the result is sorted. Unreadable or empty
// manifest files are skipped silently.
func (s *CabalScanner) Scan(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), manifestExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(root, entry.Name()))
		if err != nil || len(data) == 0 {
			continue
		}
		for _, name := range s.parse(string(data)) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	sort.Strings(names)
	return names, nil
}

// parse extracts dependency names from one manifest body.
func (s *CabalScanner) parse(text string) []string {
	var names []string
	for _, block := range s.blocks {
		for _, match := range block.FindAllStringSubmatch(text, -1) {
			for _, spec := range strings.Split(match[1], ",") {
				if name := depNameRE.FindString(strings.TrimSpace(spec)); name != "" {
					names = append(names, name)
				}
			}
		}
	}
	return names
}
