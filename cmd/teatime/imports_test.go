package main

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func importRank(path string) int {
	switch {
	case path == "teatime" || strings.HasPrefix(path, "teatime/"):
		return 1
	case strings.Contains(strings.SplitN(path, "/", 2)[0], "."):
		return 2
	default:
		return 0
	}
}

// Imports are grouped standard library, then module packages, then third-party.
func TestImportGrouping(t *testing.T) {
	root := filepath.Join("..", "..")
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), "_") || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}

		fset := token.NewFileSet()
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		last := 0
		for _, spec := range f.Imports {
			p, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				return err
			}
			rank := importRank(p)
			if rank < last {
				t.Errorf("%s: import %q is out of group order", path, p)
			}
			last = rank
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDir() error = %v", err)
	}
}
