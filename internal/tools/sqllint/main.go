// Command sqllint checks that every SQL string constant starts with a unique
// "--sql <uuid>" marker, the tag SQLRunner requires and logs.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	sqlKeywords = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with|create)\b`)
	markerLine  = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

	skippedDirs = map[string]bool{"vendor": true, "node_modules": true, "testdata": true}
)

type violation struct {
	file    string
	name    string
	line    int
	message string
}

func (v violation) String() string {
	return fmt.Sprintf("%s:%d %s (%s)", v.file, v.line, v.message, v.name)
}

// markerUse is a valid marker and the constant that carries it.
type markerUse struct {
	file   string
	name   string
	line   int
	marker string
}

func main() {
	flag.Parse()
	os.Exit(run(flag.Args(), os.Stderr))
}

// run lints targets and returns the process exit code.
func run(targets []string, stderr io.Writer) int {
	if len(targets) == 0 {
		targets = []string{"."}
	}
	var (
		violations []violation
		markers    []markerUse
	)
	collect := func(path string) error {
		vs, ms, err := lintFile(path)
		violations = append(violations, vs...)
		markers = append(markers, ms...)
		return err
	}
	for _, target := range targets {
		if err := walkGoFiles(target, collect); err != nil {
			fmt.Fprintf(stderr, "sqllint: %v\n", err)
			return 1
		}
	}

	violations = append(violations, duplicateMarkers(markers)...)
	if len(violations) == 0 {
		return 0
	}
	fmt.Fprintln(stderr, "sqllint: missing or duplicated SQL audit markers")
	for _, v := range violations {
		fmt.Fprintf(stderr, "  %s\n", v)
	}
	return 1
}

// walkGoFiles calls fn for target or every Go file below it. Hidden and
// underscore directories are skipped, as the go tool does.
func walkGoFiles(target string, fn func(path string) error) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		if filepath.Ext(target) != ".go" {
			return nil
		}
		return fn(target)
	}
	return filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != target && (skippedDirs[name] || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		return fn(path)
	})
}

func lintFile(path string) ([]violation, []markerUse, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, nil, err
	}
	var (
		violations []violation
		markers    []markerUse
	)
	ast.Inspect(file, func(n ast.Node) bool {
		spec, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		name := specName(spec)
		for _, value := range spec.Values {
			lit, ok := value.(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				continue
			}
			text, err := strconv.Unquote(lit.Value)
			if err != nil || !sqlKeywords.MatchString(text) {
				continue
			}
			line := fset.Position(lit.Pos()).Line
			first, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
			first = strings.TrimSpace(first)
			if !markerLine.MatchString(first) {
				violations = append(violations, violation{file: path, name: name, line: line, message: "missing or invalid --sql <uuid> marker"})
				continue
			}
			markers = append(markers, markerUse{file: path, name: name, line: line, marker: first})
		}
		return true
	})
	return violations, markers, nil
}

// duplicateMarkers reports every marker used by more than one query.
func duplicateMarkers(uses []markerUse) []violation {
	first := make(map[string]markerUse, len(uses))
	var dups []violation
	for _, use := range uses {
		prev, ok := first[use.marker]
		if !ok {
			first[use.marker] = use
			continue
		}
		dups = append(dups, violation{
			file:    use.file,
			line:    use.line,
			name:    use.name,
			message: fmt.Sprintf("marker already used by %s at %s:%d", prev.name, prev.file, prev.line),
		})
	}
	return dups
}

func specName(spec *ast.ValueSpec) string {
	names := make([]string, 0, len(spec.Names))
	for _, ident := range spec.Names {
		names = append(names, ident.Name)
	}
	return strings.Join(names, ",")
}
