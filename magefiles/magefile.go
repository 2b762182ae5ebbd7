// Package main contains Mage build targets for literature-helper developer
// tooling and for running the crawl, merge, and serve pipeline.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"data",
	"filter",
	"index",
	"logs",
	".secrets",
}

// Init creates the project directory structure for the pipeline.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "literature-helper"
	cmdPkg  = "./cmd/literature-helper"

	// sqliteTags enables FTS5 in mattn/go-sqlite3 for the catalog index.
	sqliteTags = "sqlite_fts5"
)

func binPath() string {
	return filepath.Join(binDir, binName)
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-tags", sqliteTags, "-ldflags", ldflags, "-o", binPath(), cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath())
	return nil
}

// Test runs the unit tests with FTS5 enabled.
func Test() error {
	return sh.RunV("go", "test", "-tags", sqliteTags, "./...")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	var prod, test, words int
	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if (path != "." && strings.HasPrefix(d.Name(), ".")) || d.Name() == "_examples" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(path)
		switch {
		case err != nil:
			return fmt.Errorf("reading %s: %w", path, err)
		case strings.HasSuffix(path, "_test.go"):
			test += nonBlankLines(data)
		case strings.HasSuffix(path, ".go"):
			prod += nonBlankLines(data)
		case strings.HasSuffix(path, ".md"):
			words += len(strings.Fields(string(data)))
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", test)
	fmt.Printf("Words (documentation):           %d\n", words)
	return nil
}

func nonBlankLines(data []byte) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n
}

// Crawl runs every crawler into data/.
func Crawl() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath(), "crawl", "--output-dir", "data")
}

// Merge combines data/ batches into filter/filtered_papers.json.
func Merge() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath(), "merge", "--input-dir", "data", "--output", "filter/filtered_papers.json",
		"--report", "filter/merge_report.yaml")
}

// Index rebuilds the full-text index from the merged set.
func Index() error {
	mg.Deps(Merge)
	return sh.RunV(binPath(), "index", "build")
}

// Serve starts the triage API on $PORT (default 8080) with rotating logs.
func Serve() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath(), "serve", "--log-file", "logs/literature-helper.log")
}
