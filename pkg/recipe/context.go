package recipe

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/edit"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/imports"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jtypes"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/template"
)

// Warning is a non-fatal diagnostic left in the output as an inline marker.
type Warning struct {
	Recipe  string `json:"recipe"`
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Marker returns the inline comment that carries msg in rewritten source.
func Marker(msg string) string {
	return "/*~~(" + msg + ")~~>*/"
}

// Context is the per-file state of one rule traversal. Edits are recorded
// against the immutable tree and applied by the engine afterwards.
type Context struct {
	File   *jast.File
	Scope  *jtypes.Scope
	Logger *slog.Logger

	recipe   string
	buf      *edit.Buffer
	plan     imports.Plan
	warnings []Warning
	warned   map[string]bool
}

// NewContext prepares a traversal of file on behalf of the named recipe.
func NewContext(recipeName string, scope *jtypes.Scope, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}

	return &Context{
		File:   scope.File,
		Scope:  scope,
		Logger: logger.With("recipe", recipeName, "file", scope.File.Path),
		recipe: recipeName,
		buf:    edit.NewBuffer(scope.File.Src),
		warned: make(map[string]bool),
	}
}

// Text returns the source of n.
func (c *Context) Text(n *jast.Node) string {
	return c.File.Text(n)
}

// Replace substitutes text for the whole of n.
func (c *Context) Replace(n *jast.Node, text string) {
	c.buf.Replace(n.Start, n.End, text)
}

// ReplaceRange substitutes text for the bytes [start, end).
func (c *Context) ReplaceRange(start, end int, text string) {
	c.buf.Replace(start, end, text)
}

// Insert adds text at pos.
func (c *Context) Insert(pos int, text string) {
	c.buf.Insert(pos, text)
}

// Delete removes exactly the span of n.
func (c *Context) Delete(n *jast.Node) {
	c.buf.Delete(n.Start, n.End)
}

// DeleteAnnotation removes ann and the whitespace after it, so the following
// element takes over the annotation's leading whitespace.
func (c *Context) DeleteAnnotation(ann *jast.Node) {
	c.buf.Delete(ann.Start, c.skipSpace(ann.End))
}

// DeleteListElement removes an element of a comma separated list together
// with the separator that joins it to its neighbour.
func (c *Context) DeleteListElement(n *jast.Node) {
	if next := n.Next(); next != nil && next.Kind == "," {
		c.buf.Delete(n.Start, c.skipSpace(next.End))

		return
	}

	if prev := n.Prev(); prev != nil && prev.Kind == "," {
		c.buf.Delete(prev.Start, n.End)

		return
	}

	c.buf.Delete(n.Start, n.End)
}

// Splice replaces n with the fragment and schedules imports for every type
// the fragment refers to.
func (c *Context) Splice(n *jast.Node, frag template.Fragment) {
	c.Replace(n, frag.String())
	c.importFragment(frag)
}

// SpliceAt inserts the fragment at pos.
func (c *Context) SpliceAt(pos int, frag template.Fragment) {
	c.Insert(pos, frag.String())
	c.importFragment(frag)
}

func (c *Context) importFragment(frag template.Fragment) {
	for _, fqn := range frag.Types() {
		c.plan.AddImport(fqn, true)
	}
}

// AddImport schedules an import of fqn.
func (c *Context) AddImport(fqn string, onlyIfReferenced bool) {
	c.plan.AddImport(fqn, onlyIfReferenced)
}

// RemoveImport schedules removal of fqn's import once it is unreferenced.
func (c *Context) RemoveImport(fqn string) {
	c.plan.RemoveImport(fqn)
}

// Warn leaves an inline marker before n. The same message is never added
// twice at one position, including across repeated runs.
func (c *Context) Warn(n *jast.Node, msg string) {
	marker := Marker(msg)
	key := strconv.Itoa(n.Start) + marker

	if c.warned[key] || strings.HasSuffix(string(c.File.Src[:n.Start]), marker) {
		return
	}

	c.warned[key] = true
	c.buf.Insert(n.Start, marker)
	c.warnings = append(c.warnings, Warning{
		Recipe:  c.recipe,
		Path:    c.File.Path,
		Line:    n.Line,
		Message: msg,
	})

	c.Logger.Debug("warning marker added", "line", n.Line, "message", msg)
}

// Edits returns the number of queued source edits.
func (c *Context) Edits() int {
	return c.buf.Len()
}

// Warnings returns the markers added during this traversal.
func (c *Context) Warnings() []Warning {
	return c.warnings
}

func (c *Context) skipSpace(pos int) int {
	src := c.File.Src
	for pos < len(src) && strings.ContainsRune(" \t\r\n", rune(src[pos])) {
		pos++
	}

	return pos
}
