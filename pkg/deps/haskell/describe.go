package haskell

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/matzehuels/depledger/pkg/deps"
)

// describeFields are the ghc-pkg fields consulted for one package record.
var describeFields = []string{"name", "version", "synopsis", "homepage", "haddock-html", "data-dir"}

// Describer builds package records for resolved ids.
type Describer struct {
	client *Client
	root   string
}

// NewDescriber creates a Describer resolving vendor fallback paths against
// the given project root.
func NewDescriber(client *Client, root string) *Describer {
	return &Describer{client: client, root: root}
}

// Describe queries the registry for id's metadata and builds the record.
// Fields the registry does not report stay empty; Describe never fails.
func (d *Describer) Describe(ctx context.Context, id string) *deps.Package {
	fields := d.client.Fields(ctx, id, describeFields, true)
	pkg := &deps.Package{
		ID:       id,
		Name:     fields["name"],
		Version:  fields["version"],
		Summary:  fields["synopsis"],
		Homepage: SanitizeHomepage(fields["homepage"]),
	}
	pkg.DocDir, pkg.SearchRoot = docPaths(d.root, pkg.Name, fields["haddock-html"], fields["data-dir"])
	return pkg
}

// docPaths resolves the documentation directory and the search root for
// shipped license/doc files:
//
//   - no haddock-html: docDir falls back to <root>/vendor/<name>, no
//     search root
//   - haddock-html but no data-dir: docDir is haddock-html, no search root
//   - both: data-dir becomes the search root only if haddock-html lies
//     under it; an unrelated data-dir must not be treated as a valid root
//     for locating shipped files
func docPaths(root, name, haddock, dataDir string) (docDir, searchRoot string) {
	if haddock == "" {
		return filepath.Join(root, "vendor", name), ""
	}
	if dataDir == "" || !isAncestor(dataDir, haddock) {
		return haddock, ""
	}
	return haddock, dataDir
}

// isAncestor reports whether path lies at or under dir.
func isAncestor(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
