package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	deperrors "github.com/matzehuels/depledger/pkg/errors"

	"github.com/matzehuels/depledger/pkg/deps"
)

// stubRunner answers ghc-pkg invocations from a canned table.
type stubRunner struct {
	version string
	fields  map[string]map[string]string
}

func (s *stubRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if len(args) == 1 && args[0] == "--numeric-version" {
		if s.version == "" {
			return "", errors.New("exit status 1")
		}
		return s.version + "\n", nil
	}
	if len(args) >= 3 && args[0] == "field" {
		values, ok := s.fields[args[1]]
		if !ok {
			return "", errors.New("exit status 1")
		}
		var b strings.Builder
		for _, field := range strings.Split(args[2], ",") {
			if v, present := values[field]; present {
				b.WriteString(field + ": " + v + "\n")
			}
		}
		return b.String(), nil
	}
	return "", errors.New("exit status 1")
}

func (s *stubRunner) LookPath(string) bool { return s.version != "" }

func scanProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	manifest := "library\n  build-depends: base\n"
	if err := os.WriteFile(filepath.Join(dir, "proj.cabal"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func newTestCLI(runner *stubRunner) *CLI {
	c := New(io.Discard, LogInfo)
	c.Runner = runner
	return c
}

func TestScanCommandWritesJSON(t *testing.T) {
	runner := &stubRunner{
		version: "9.4.8",
		fields: map[string]map[string]string{
			"base": {"id": "id1"},
			"id1":  {"name": "base", "version": "4.17.2.0", "synopsis": "Core libraries"},
		},
	}
	root := scanProject(t)
	out := filepath.Join(t.TempDir(), "packages.json")

	cmd := newTestCLI(runner).scanCommand()
	cmd.SetArgs([]string{root, "--output", out})
	cmd.SetContext(context.Background())
	if err := cmd.Execute(); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var pkgs []*deps.Package
	if err := json.Unmarshal(data, &pkgs); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(pkgs) != 1 || pkgs[0].ID != "id1" || pkgs[0].Name != "base" {
		t.Errorf("unexpected records: %+v", pkgs)
	}
}

func TestScanCommandToolMissingYieldsEmptySet(t *testing.T) {
	root := scanProject(t)
	out := filepath.Join(t.TempDir(), "packages.json")

	cmd := newTestCLI(&stubRunner{}).scanCommand()
	cmd.SetArgs([]string{root, "--output", out})
	cmd.SetContext(context.Background())
	if err := cmd.Execute(); err != nil {
		t.Fatalf("scan should degrade, not fail: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var pkgs []*deps.Package
	if err := json.Unmarshal(data, &pkgs); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(pkgs) != 0 {
		t.Errorf("expected empty set, got %+v", pkgs)
	}
}

func TestScanCommandRejectsUnknownFormat(t *testing.T) {
	cmd := newTestCLI(&stubRunner{version: "9.4.8"}).scanCommand()
	cmd.SetArgs([]string{scanProject(t), "--format", "yaml"})
	cmd.SetContext(context.Background())
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected format error")
	}
	if !deperrors.Is(err, deperrors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %v, want %v", deperrors.GetCode(err), deperrors.ErrCodeInvalidFormat)
	}
}

func TestScanCommandRejectsMissingRoot(t *testing.T) {
	cmd := newTestCLI(&stubRunner{version: "9.4.8"}).scanCommand()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope")})
	cmd.SetContext(context.Background())
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	if !deperrors.Is(err, deperrors.ErrCodeInvalidPath) {
		t.Errorf("error code = %v, want %v", deperrors.GetCode(err), deperrors.ErrCodeInvalidPath)
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	pkgs := []*deps.Package{
		{ID: "id1", Name: "base", Version: "4.17.2.0", Summary: "Core libraries"},
		{ID: "id2", Version: "2.0.2"},
	}
	if err := renderTable(&buf, pkgs); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"NAME", "base", "4.17.2.0", "Core libraries", "id2", "2 packages"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}
