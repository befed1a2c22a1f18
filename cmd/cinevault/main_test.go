package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T, baseDir string) string {
	t.Helper()
	t.Setenv("TMDB_API_KEY", "")
	configPath := filepath.Join(baseDir, "config.toml")
	content := fmt.Sprintf(
		"[collection]\nname = \"test-collection\"\ndb_path = %q\n\n[logging]\nlevel = \"error\"\n",
		filepath.Join(baseDir, "collection.db"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

var addedIDPattern = regexp.MustCompile(`Added .* \(([0-9a-f-]+)\)`)

func addRecord(t *testing.T, configPath, title, watched string) string {
	t.Helper()
	out, _, err := runCLI(t, configPath, "add", title, "--watched", watched)
	if err != nil {
		t.Fatalf("add %s: %v", title, err)
	}
	match := addedIDPattern.FindStringSubmatch(out)
	if match == nil {
		t.Fatalf("add output missing id: %q", out)
	}
	return match[1]
}

func TestCLIAddListRemove(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())

	id := addRecord(t, configPath, "Inception", "2010-07-16")
	addRecord(t, configPath, "Dune", "2021-10-22")

	out, _, err := runCLI(t, configPath, "list", "--ids")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Inception")
	requireContains(t, out, "Dune")
	requireContains(t, out, id)
	requireContains(t, out, "2 records")

	// Newest watch date first.
	if strings.Index(out, "Dune") > strings.Index(out, "Inception") {
		t.Fatalf("expected Dune before Inception:\n%s", out)
	}

	out, _, err = runCLI(t, configPath, "remove", id)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	requireContains(t, out, "Removed")

	out, _, err = runCLI(t, configPath, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(out, "Inception") {
		t.Fatalf("removed record still listed:\n%s", out)
	}
}

func TestCLIAddRejectsDuplicate(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())

	addRecord(t, configPath, "Inception", "2010-07-16")
	_, _, err := runCLI(t, configPath, "add", "Inception", "--watched", "2011-01-01")
	if err == nil {
		t.Fatal("expected duplicate add to fail")
	}
	requireContains(t, err.Error(), "already in the collection")
}

func TestCLIEditCommand(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())
	id := addRecord(t, configPath, "Inception", "2010-07-16")

	out, _, err := runCLI(t, configPath, "edit", id,
		"--rating", "9.5", "--director", "Christopher Nolan", "--year", "2010")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	requireContains(t, out, "Updated Inception")

	out, _, err = runCLI(t, configPath, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "9.5")
	requireContains(t, out, "Christopher Nolan")
}

func TestCLIRemoveAllRequiresForceOrConfirmation(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())
	addRecord(t, configPath, "Inception", "2010-07-16")

	out, _, err := runCLI(t, configPath, "remove", "--all", "--force")
	if err != nil {
		t.Fatalf("remove --all: %v", err)
	}
	requireContains(t, out, "Removed 1 records")
}

func TestCLIRemoveRejectsAmbiguousArgs(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())
	if _, _, err := runCLI(t, configPath, "remove"); err == nil {
		t.Fatal("expected error without id or --all")
	}
	if _, _, err := runCLI(t, configPath, "remove", "some-id", "--all"); err == nil {
		t.Fatal("expected error with both id and --all")
	}
}

func TestCLIExportImportRoundTrip(t *testing.T) {
	baseDir := t.TempDir()
	configPath := writeTestConfig(t, baseDir)

	addRecord(t, configPath, "Inception", "2010-07-16")
	addRecord(t, configPath, "Dune", "2021-10-22")

	exportPath := filepath.Join(baseDir, "export.csv")
	out, _, err := runCLI(t, configPath, "export", exportPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Exported 2 records")

	// Importing into the same collection skips everything as duplicates.
	out, _, err = runCLI(t, configPath, "import", exportPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Imported 0 records (2 duplicates skipped, 0 rows rejected)")

	// A fresh collection takes both.
	otherConfig := writeTestConfig(t, t.TempDir())
	out, _, err = runCLI(t, otherConfig, "import", exportPath)
	if err != nil {
		t.Fatalf("import into fresh collection: %v", err)
	}
	requireContains(t, out, "Imported 2 records")
}

func TestCLIExportDefaultFilenameUsesCollectionName(t *testing.T) {
	baseDir := t.TempDir()
	configPath := writeTestConfig(t, baseDir)
	addRecord(t, configPath, "Inception", "2010-07-16")

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(baseDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	out, _, err := runCLI(t, configPath, "export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "test-collection_")

	matches, err := filepath.Glob(filepath.Join(baseDir, "test-collection_*.csv"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one export file, got %v (err %v)", matches, err)
	}
}

func TestCLIEnrichWithoutKeyFails(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())
	addRecord(t, configPath, "Inception", "2010-07-16")

	_, _, err := runCLI(t, configPath, "enrich")
	if err == nil {
		t.Fatal("expected enrich to fail without an api key")
	}
	requireContains(t, err.Error(), "no TMDB api key")
}

func TestCLIAPIKeyLifecycle(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())

	out, _, err := runCLI(t, configPath, "apikey", "status")
	if err != nil {
		t.Fatalf("apikey status: %v", err)
	}
	requireContains(t, out, "No api key configured")

	if _, _, err := runCLI(t, configPath, "apikey", "set", "not-a-key"); err == nil {
		t.Fatal("expected malformed key to be rejected")
	}

	out, _, err = runCLI(t, configPath, "apikey", "set", "abcdefabcdefabcdefabcdefabcdef12")
	if err != nil {
		t.Fatalf("apikey set: %v", err)
	}
	requireContains(t, out, "API key stored")

	out, _, err = runCLI(t, configPath, "apikey", "status")
	if err != nil {
		t.Fatalf("apikey status: %v", err)
	}
	requireContains(t, out, "stored in the collection database")

	out, _, err = runCLI(t, configPath, "apikey", "clear")
	if err != nil {
		t.Fatalf("apikey clear: %v", err)
	}
	requireContains(t, out, "API key cleared")
}

func TestCLIConfigInit(t *testing.T) {
	configPath := writeTestConfig(t, t.TempDir())

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, configPath, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, configPath, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init without --overwrite to fail on existing file")
	}
	if _, _, err := runCLI(t, configPath, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}
