// Package imports reconciles a Java file's import declarations with the
// types its code references after a rewrite.
package imports

import (
	"slices"
	"sort"
	"strings"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/edit"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jtypes"
)

const javaLang = "java.lang"

// Addition asks for an import of FQN.
type Addition struct {
	FQN string
	// OnlyIfReferenced skips the import unless the simple name is used.
	OnlyIfReferenced bool
}

// Plan collects import requests made while rewriting one file.
type Plan struct {
	Add    []Addition
	Remove []string
}

// AddImport queues an import. A request without OnlyIfReferenced wins over
// an earlier conditional request for the same type.
func (p *Plan) AddImport(fqn string, onlyIfReferenced bool) {
	for idx := range p.Add {
		if p.Add[idx].FQN == fqn {
			p.Add[idx].OnlyIfReferenced = p.Add[idx].OnlyIfReferenced && onlyIfReferenced

			return
		}
	}

	p.Add = append(p.Add, Addition{FQN: fqn, OnlyIfReferenced: onlyIfReferenced})
}

// RemoveImport queues removal of an import that may have become unused.
func (p *Plan) RemoveImport(fqn string) {
	if !slices.Contains(p.Remove, fqn) {
		p.Remove = append(p.Remove, fqn)
	}
}

// Empty reports whether the plan requests nothing.
func (p *Plan) Empty() bool {
	return len(p.Add) == 0 && len(p.Remove) == 0
}

// Reconcile applies the plan to file, which must already contain the
// rewritten code, and returns the resulting source.
func Reconcile(file *jast.File, cat *jtypes.Catalog, plan Plan) ([]byte, error) {
	if plan.Empty() {
		return file.Src, nil
	}

	r := &reconciler{
		file:       file,
		scope:      jtypes.NewScope(file, cat),
		refs:       ReferencedNames(file),
		buf:        edit.NewBuffer(file.Src),
		removed:    make(map[*jast.Node]bool),
		takenBlank: make(map[int]bool),
	}

	for _, imp := range file.Imports() {
		if !imp.Static {
			r.imports = append(r.imports, imp)
		} else {
			r.statics = append(r.statics, imp)
		}
	}

	for _, fqn := range plan.Remove {
		r.remove(fqn)
	}

	additions := r.acceptedAdditions(plan.Add)
	inserts := r.placeAdditions(additions)

	r.deleteRemoved(inserts)

	for _, ins := range inserts {
		r.buf.Insert(ins.pos, ins.text())
	}

	return r.buf.Apply()
}

type reconciler struct {
	file    *jast.File
	scope   *jtypes.Scope
	refs    map[string]bool
	buf     *edit.Buffer
	removed map[*jast.Node]bool
	imports []jast.Import
	statics []jast.Import

	// takenBlank holds the starts of blank lines already queued for deletion.
	takenBlank map[int]bool
}

func (r *reconciler) remove(fqn string) {
	simple := jast.SimpleName(fqn)
	pkg := jast.PackageOf(fqn)

	for _, imp := range r.imports {
		switch {
		case !imp.Wildcard && imp.Name == fqn && !r.refs[simple]:
			r.removed[imp.Node] = true
		case imp.Wildcard && imp.Name == pkg && !r.wildcardNeeded(imp):
			r.removed[imp.Node] = true
		}
	}

	for _, imp := range r.statics {
		if !imp.Wildcard && jast.PackageOf(imp.Name) == fqn && !r.refs[imp.SimpleName()] {
			r.removed[imp.Node] = true
		}
	}
}

// wildcardNeeded reports whether any referenced simple name could be
// supplied by the wildcard import.
func (r *reconciler) wildcardNeeded(wildcard jast.Import) bool {
	for name := range r.refs {
		if fqn, ok := r.scope.Catalog.InPackage(wildcard.Name, name); ok {
			if r.singleImport(name) == "" || r.singleImport(name) == fqn {
				return true
			}

			continue
		}

		if !isTypeLike(name) || r.resolvableElsewhere(name, wildcard) {
			continue
		}

		if !r.scope.Catalog.HasPackage(wildcard.Name) {
			return true
		}
	}

	return false
}

func (r *reconciler) resolvableElsewhere(name string, except jast.Import) bool {
	if r.singleImport(name) != "" {
		return true
	}

	if _, ok := r.scope.Declared(name); ok {
		return true
	}

	if _, ok := r.scope.Catalog.InPackage(javaLang, name); ok {
		return true
	}

	for _, imp := range r.imports {
		if imp.Wildcard && imp.Node != except.Node {
			if _, ok := r.scope.Catalog.InPackage(imp.Name, name); ok {
				return true
			}
		}
	}

	return false
}

func (r *reconciler) singleImport(simple string) string {
	for _, imp := range r.imports {
		if !imp.Wildcard && !r.removed[imp.Node] && imp.SimpleName() == simple {
			return imp.Name
		}
	}

	return ""
}

func (r *reconciler) acceptedAdditions(adds []Addition) []string {
	var out []string

	sorted := slices.Clone(adds)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].FQN < sorted[j].FQN })

	for _, add := range sorted {
		if r.skipAddition(add, out) {
			continue
		}

		out = append(out, add.FQN)
	}

	return out
}

func (r *reconciler) skipAddition(add Addition, accepted []string) bool {
	simple := jast.SimpleName(add.FQN)
	pkg := jast.PackageOf(add.FQN)

	if pkg == "" || pkg == javaLang || pkg == r.file.Package() {
		return true
	}

	if add.OnlyIfReferenced && !r.refs[simple] {
		return true
	}

	if _, ok := r.scope.Declared(simple); ok {
		return true
	}

	for _, imp := range r.imports {
		if r.removed[imp.Node] {
			continue
		}

		if imp.Wildcard && imp.Name == pkg {
			return true
		}

		// Already imported, or the simple name is taken by another type.
		if !imp.Wildcard && imp.SimpleName() == simple {
			return true
		}
	}

	for _, other := range accepted {
		if jast.SimpleName(other) == simple {
			return true
		}
	}

	return false
}

type insertion struct {
	names  []string
	pos    int
	prefix string
	suffix string
	block  int
}

func (ins *insertion) text() string {
	var sb strings.Builder

	sb.WriteString(ins.prefix)

	for _, name := range ins.names {
		sb.WriteString("import " + name + ";\n")
	}

	sb.WriteString(ins.suffix)

	return sb.String()
}

// blocks groups non-static imports separated by blank lines.
func (r *reconciler) blocks() [][]jast.Import {
	var (
		out  [][]jast.Import
		prev *jast.Node
	)

	for _, imp := range r.imports {
		if prev == nil || strings.Count(string(r.file.Src[prev.End:imp.Node.Start]), "\n") > 1 {
			out = append(out, nil)
		}

		out[len(out)-1] = append(out[len(out)-1], imp)
		prev = imp.Node
	}

	return out
}

func (r *reconciler) placeAdditions(names []string) []*insertion {
	if len(names) == 0 {
		return nil
	}

	blocks := r.blocks()
	if len(blocks) == 0 {
		return []*insertion{r.placeWithoutImports(names)}
	}

	byPos := make(map[int]*insertion)

	var order []*insertion

	for _, name := range names {
		blockIdx := r.bestBlock(blocks, name)
		pos := r.positionInBlock(blocks[blockIdx], name)

		ins, ok := byPos[pos]
		if !ok {
			ins = &insertion{pos: pos, block: blockIdx}
			byPos[pos] = ins
			order = append(order, ins)
		}

		ins.names = append(ins.names, name)
	}

	return order
}

func (r *reconciler) placeWithoutImports(names []string) *insertion {
	src := r.file.Src

	if pkg := r.file.Root.FirstChildOfKind(jast.KindPackageDeclaration); pkg != nil {
		pos := r.file.LineEnd(pkg.End)
		ins := &insertion{names: names, pos: pos, prefix: "\n", block: -1}

		if pos == len(src) || src[pos] != '\n' {
			ins.suffix = "\n"
		}

		if pos > 0 && src[pos-1] != '\n' {
			ins.prefix = "\n\n"
		}

		return ins
	}

	if len(r.statics) > 0 {
		return &insertion{names: names, pos: r.file.LineStart(r.statics[0].Node.Start), suffix: "\n", block: -1}
	}

	pos := 0

	for _, child := range r.file.Root.Children {
		if !child.IsComment() {
			pos = r.file.LineStart(child.Start)

			break
		}
	}

	return &insertion{names: names, pos: pos, suffix: "\n", block: -1}
}

func (r *reconciler) bestBlock(blocks [][]jast.Import, name string) int {
	best, bestScore := 0, -1

	for idx, block := range blocks {
		score := 0

		for _, imp := range block {
			if s := sharedSegments(imp.Name, name); s > score {
				score = s
			}
		}

		if score > bestScore {
			best, bestScore = idx, score
		}
	}

	return best
}

func (r *reconciler) positionInBlock(block []jast.Import, name string) int {
	var kept []jast.Import

	for _, imp := range block {
		if !r.removed[imp.Node] {
			kept = append(kept, imp)
		}
	}

	if len(kept) == 0 {
		return r.file.LineStart(block[0].Node.Start)
	}

	for _, imp := range kept {
		if importName(imp) > name {
			return r.file.LineStart(imp.Node.Start)
		}
	}

	return r.file.LineEnd(kept[len(kept)-1].Node.End)
}

func (r *reconciler) deleteRemoved(inserts []*insertion) {
	filled := make(map[int]bool)
	for _, ins := range inserts {
		filled[ins.block] = true
	}

	for blockIdx, block := range r.blocks() {
		emptied := !filled[blockIdx]

		for _, imp := range block {
			if !r.removed[imp.Node] {
				emptied = false
			}
		}

		// An emptied block takes one separating blank line with it.
		tookBlank := false

		for idx, imp := range block {
			if !r.removed[imp.Node] {
				continue
			}

			start := r.file.LineStart(imp.Node.Start)
			if emptied && idx == 0 {
				start = r.precedingBlankLine(start)
				tookBlank = start != r.file.LineStart(imp.Node.Start)
			}

			end := r.file.LineEnd(imp.Node.End)
			if emptied && idx == len(block)-1 && !tookBlank {
				end = r.followingBlankLine(end)
			}

			r.buf.Delete(start, end)
		}
	}

	staticsEmptied := len(r.statics) > 0

	for _, imp := range r.statics {
		if !r.removed[imp.Node] {
			staticsEmptied = false
		}
	}

	for idx, imp := range r.statics {
		if !r.removed[imp.Node] {
			continue
		}

		start := r.file.LineStart(imp.Node.Start)
		if staticsEmptied && idx == 0 {
			start = r.precedingBlankLine(start)
		}

		r.buf.Delete(start, r.file.LineEnd(imp.Node.End))
	}
}

func (r *reconciler) precedingBlankLine(lineStart int) int {
	if lineStart < 2 {
		return lineStart
	}

	prev := r.file.LineStart(lineStart - 1)
	if !r.takenBlank[prev] && strings.TrimSpace(string(r.file.Src[prev:lineStart])) == "" {
		r.takenBlank[prev] = true

		return prev
	}

	return lineStart
}

func (r *reconciler) followingBlankLine(lineEnd int) int {
	next := r.file.LineEnd(lineEnd)
	if next > lineEnd && !r.takenBlank[lineEnd] && strings.TrimSpace(string(r.file.Src[lineEnd:next])) == "" {
		r.takenBlank[lineEnd] = true

		return next
	}

	return lineEnd
}

func importName(imp jast.Import) string {
	if imp.Wildcard {
		return imp.Name + ".*"
	}

	return imp.Name
}

func sharedSegments(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")

	n := 0
	for n < len(as)-1 && n < len(bs)-1 && as[n] == bs[n] {
		n++
	}

	return n
}

func isTypeLike(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
