package haskell

import (
	"context"
	"path/filepath"
	"testing"
)

func TestDescribeFullRecord(t *testing.T) {
	runner := &fakeRunner{
		version: "9.4.8",
		fields: map[string]map[string]string{
			"text-2.0.2-xyz": {
				"name":         "text",
				"version":      "2.0.2",
				"synopsis":     "An efficient packed Unicode text type",
				"homepage":     "http://example.com/text#readme",
				"haddock-html": "/opt/ghc/share/doc/text/html",
				"data-dir":     "/opt/ghc/share/doc/text",
			},
		},
	}
	client := newTestClient(t, runner, Config{})
	d := NewDescriber(client, "/proj")

	pkg := d.Describe(context.Background(), "text-2.0.2-xyz")

	if pkg.ID != "text-2.0.2-xyz" {
		t.Errorf("ID = %q", pkg.ID)
	}
	if pkg.Name != "text" || pkg.Version != "2.0.2" {
		t.Errorf("Name/Version = %q/%q", pkg.Name, pkg.Version)
	}
	if pkg.Summary != "An efficient packed Unicode text type" {
		t.Errorf("Summary = %q", pkg.Summary)
	}
	if pkg.Homepage != "https://example.com/text" {
		t.Errorf("Homepage = %q", pkg.Homepage)
	}
	if pkg.DocDir != "/opt/ghc/share/doc/text/html" {
		t.Errorf("DocDir = %q", pkg.DocDir)
	}
	if pkg.SearchRoot != "/opt/ghc/share/doc/text" {
		t.Errorf("SearchRoot = %q", pkg.SearchRoot)
	}
}

func TestDescribeVendorFallback(t *testing.T) {
	runner := &fakeRunner{
		version: "9.4.8",
		fields: map[string]map[string]string{
			"foo-1.0-abc": {"name": "foo", "version": "1.0"},
		},
	}
	client := newTestClient(t, runner, Config{})
	d := NewDescriber(client, "/proj")

	pkg := d.Describe(context.Background(), "foo-1.0-abc")

	if want := filepath.Join("/proj", "vendor", "foo"); pkg.DocDir != want {
		t.Errorf("DocDir = %q, want %q", pkg.DocDir, want)
	}
	if pkg.SearchRoot != "" {
		t.Errorf("SearchRoot = %q, want empty", pkg.SearchRoot)
	}
}

func TestDescribeUnknownID(t *testing.T) {
	client := newTestClient(t, &fakeRunner{version: "9.4.8"}, Config{})
	d := NewDescriber(client, "/proj")

	// Every field query fails; the record still carries the id and the
	// vendor fallback for an empty name.
	pkg := d.Describe(context.Background(), "gone-0.1-zzz")
	if pkg.ID != "gone-0.1-zzz" {
		t.Errorf("ID = %q", pkg.ID)
	}
	if pkg.Name != "" || pkg.Homepage != "" {
		t.Errorf("expected absent fields, got %+v", pkg)
	}
}

func TestDocPaths(t *testing.T) {
	tests := []struct {
		name           string
		haddock        string
		dataDir        string
		wantDocDir     string
		wantSearchRoot string
	}{
		{
			name:           "no haddock falls back to vendor dir",
			wantDocDir:     filepath.Join("/proj", "vendor", "foo"),
			wantSearchRoot: "",
		},
		{
			name:           "haddock without data dir",
			haddock:        "/a/b/html",
			wantDocDir:     "/a/b/html",
			wantSearchRoot: "",
		},
		{
			name:           "data dir contains haddock",
			haddock:        "/a/b/html",
			dataDir:        "/a/b",
			wantDocDir:     "/a/b/html",
			wantSearchRoot: "/a/b",
		},
		{
			name:           "unrelated data dir rejected",
			haddock:        "/a/b/html",
			dataDir:        "/x/y",
			wantDocDir:     "/a/b/html",
			wantSearchRoot: "",
		},
		{
			name:           "sibling prefix is not containment",
			haddock:        "/a/bc/html",
			dataDir:        "/a/b",
			wantDocDir:     "/a/bc/html",
			wantSearchRoot: "",
		},
		{
			name:           "data dir equal to haddock",
			haddock:        "/a/b",
			dataDir:        "/a/b",
			wantDocDir:     "/a/b",
			wantSearchRoot: "/a/b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docDir, searchRoot := docPaths("/proj", "foo", tt.haddock, tt.dataDir)
			if docDir != tt.wantDocDir {
				t.Errorf("docDir = %q, want %q", docDir, tt.wantDocDir)
			}
			if searchRoot != tt.wantSearchRoot {
				t.Errorf("searchRoot = %q, want %q", searchRoot, tt.wantSearchRoot)
			}
		})
	}
}
