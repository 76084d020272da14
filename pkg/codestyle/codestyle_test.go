// Package codestyle_test enforces repository layout rules that linters do
// not cover. It has no non-test code.
package codestyle_test

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxInterfaceMethods = 5

// Grab-bag file names and what to do instead.
var bannedFilenames = map[string]string{
	"types.go":     "declare types in the file that uses them",
	"utils.go":     "move each function to the file that owns its domain",
	"helpers.go":   "move each function to the file that owns its domain",
	"common.go":    "move each symbol to the file that owns its concept",
	"constants.go": "declare constants next to their use",
	"errors.go":    "declare sentinel errors next to the functions returning them",
}

var bannedPackages = map[string]bool{
	"util": true, "utils": true, "misc": true, "shared": true, "base": true, "generic": true,
}

type sourceFile struct {
	rel  string
	file *ast.File
}

func moduleRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, statErr := os.Stat(filepath.Join(dir, "go.mod")); statErr == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "go.mod not found")

		dir = parent
	}
}

// skipped reports directories the go tool ignores as well as vendored
// and fixture trees.
func skipped(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") ||
		name == "testdata" || name == "vendor"
}

// sources parses every non-test, non-generated Go file in the module.
func sources(t *testing.T) []sourceFile {
	t.Helper()

	root := moduleRoot(t)

	var out []sourceFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && skipped(d.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		parsed, parseErr := parser.ParseFile(token.NewFileSet(), path, nil, parser.ParseComments)
		if parseErr != nil {
			return fmt.Errorf("parse %s: %w", path, parseErr)
		}

		if ast.IsGenerated(parsed) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}

		out = append(out, sourceFile{rel: filepath.ToSlash(rel), file: parsed})

		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, out)

	return out
}

func typeSpecs(f *ast.File) []*ast.TypeSpec {
	var specs []*ast.TypeSpec

	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}

		for _, spec := range gen.Specs {
			if ts, isType := spec.(*ast.TypeSpec); isType {
				specs = append(specs, ts)
			}
		}
	}

	return specs
}

func TestNoBannedFilenames(t *testing.T) {
	t.Parallel()

	for _, src := range sources(t) {
		if fix, banned := bannedFilenames[filepath.Base(src.rel)]; banned {
			t.Errorf("%s: grab-bag file name; %s", src.rel, fix)
		}
	}
}

func TestNoGrabBagPackages(t *testing.T) {
	t.Parallel()

	for _, src := range sources(t) {
		assert.False(t, bannedPackages[src.file.Name.Name],
			"%s: package %q has no domain; name it after what it provides", src.rel, src.file.Name.Name)
	}
}

func TestNoFatInterfaces(t *testing.T) {
	t.Parallel()

	for _, src := range sources(t) {
		for _, ts := range typeSpecs(src.file) {
			iface, ok := ts.Type.(*ast.InterfaceType)
			if !ok {
				continue
			}

			methods := 0

			for _, field := range iface.Methods.List {
				if _, isFunc := field.Type.(*ast.FuncType); isFunc {
					methods++
				}
			}

			assert.LessOrEqual(t, methods, maxInterfaceMethods,
				"%s: interface %s has %d methods; split it", src.rel, ts.Name.Name, methods)
		}
	}
}

// stutters reports whether name repeats the package name up to a word
// boundary: config.ConfigLoader stutters, config.Config does not.
func stutters(pkg, name string) bool {
	titled := strings.ToUpper(pkg[:1]) + pkg[1:]

	rest, found := strings.CutPrefix(name, titled)
	if !found || rest == "" {
		return false
	}

	first := rune(rest[0])

	return unicode.IsUpper(first) || unicode.IsDigit(first)
}

func TestStutters(t *testing.T) {
	t.Parallel()

	assert.True(t, stutters("config", "ConfigLoader"))
	assert.True(t, stutters("recipe", "Recipe2"))
	assert.False(t, stutters("config", "Config"))
	assert.False(t, stutters("recipe", "Recipes"))
	assert.False(t, stutters("pipeline", "Runner"))
}

func TestNoStutteringExports(t *testing.T) {
	t.Parallel()

	for _, src := range sources(t) {
		pkg := src.file.Name.Name
		if pkg == "main" {
			continue
		}

		for _, ts := range typeSpecs(src.file) {
			if ts.Name.IsExported() && stutters(pkg, ts.Name.Name) {
				t.Errorf("%s: %s.%s stutters; drop the %q prefix", src.rel, pkg, ts.Name.Name, pkg)
			}
		}
	}
}
