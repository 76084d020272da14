// Package jtypes resolves Java type names and expression types against a
// catalog of known library types.
package jtypes

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

//go:embed catalog.schema.json
var catalogSchema []byte

// ErrInvalidCatalog is returned when a catalog document fails validation.
var ErrInvalidCatalog = errors.New("invalid type catalog")

// maxSupertypeDepth bounds supertype walks on malformed catalogs.
const maxSupertypeDepth = 32

// TypeInfo describes one known type.
type TypeInfo struct {
	Fields     map[string]string `yaml:"fields"`
	Methods    map[string]string `yaml:"methods"`
	Name       string            `yaml:"name"`
	Supertypes []string          `yaml:"supertypes"`
}

type typeGroup struct {
	Package    string   `yaml:"package"`
	Names      []string `yaml:"names"`
	Supertypes []string `yaml:"supertypes"`
	Singleton  bool     `yaml:"singleton"`
}

type catalogDoc struct {
	Groups []typeGroup `yaml:"groups"`
	Types  []TypeInfo  `yaml:"types"`
}

// Catalog is an immutable set of known types. It is safe for concurrent reads.
type Catalog struct {
	types     map[string]*TypeInfo
	byPackage map[string]map[string]string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the embedded catalog of Hibernate, JPA and JDK types.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		cat, err := LoadCatalog(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}

		defaultCatalog = cat
	})

	return defaultCatalog
}

// LoadCatalog validates and decodes a YAML catalog document.
func LoadCatalog(data []byte) (*Catalog, error) {
	var generic any

	err := yaml.Unmarshal(data, &generic)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	if generic == nil {
		generic = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(catalogSchema),
		gojsonschema.NewGoLoader(generic),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(msgs, "; "))
	}

	var doc catalogDoc

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	cat := newCatalog()

	for _, group := range doc.Groups {
		for _, simple := range group.Names {
			fqn := group.Package + "." + simple
			info := &TypeInfo{Name: fqn, Supertypes: group.Supertypes}

			if group.Singleton {
				info.Fields = map[string]string{"INSTANCE": fqn}
			}

			cat.add(info)
		}
	}

	for idx := range doc.Types {
		cat.add(&doc.Types[idx])
	}

	return cat, nil
}

func newCatalog() *Catalog {
	return &Catalog{
		types:     make(map[string]*TypeInfo),
		byPackage: make(map[string]map[string]string),
	}
}

func (c *Catalog) add(info *TypeInfo) {
	existing, ok := c.types[info.Name]
	if !ok {
		existing = &TypeInfo{Name: info.Name}
		c.types[info.Name] = existing

		pkg := jast.PackageOf(info.Name)
		if c.byPackage[pkg] == nil {
			c.byPackage[pkg] = make(map[string]string)
		}

		c.byPackage[pkg][jast.SimpleName(info.Name)] = info.Name
	}

	for _, super := range info.Supertypes {
		if !slices.Contains(existing.Supertypes, super) {
			existing.Supertypes = append(existing.Supertypes, super)
		}
	}

	existing.Fields = mergeMap(existing.Fields, info.Fields)
	existing.Methods = mergeMap(existing.Methods, info.Methods)
}

// Merge returns a new catalog holding the types of c and every other catalog.
// Entries for the same type are combined.
func (c *Catalog) Merge(others ...*Catalog) *Catalog {
	out := newCatalog()

	for _, cat := range append([]*Catalog{c}, others...) {
		if cat == nil {
			continue
		}

		for _, info := range cat.types {
			out.add(info)
		}
	}

	return out
}

// Len returns the number of known types.
func (c *Catalog) Len() int {
	return len(c.types)
}

// Lookup returns the type with the given fully qualified name.
func (c *Catalog) Lookup(fqn string) (*TypeInfo, bool) {
	info, ok := c.types[fqn]

	return info, ok
}

// InPackage resolves a simple name inside a package.
func (c *Catalog) InPackage(pkg, simple string) (string, bool) {
	fqn, ok := c.byPackage[pkg][simple]

	return fqn, ok
}

// HasPackage reports whether any known type lives in pkg.
func (c *Catalog) HasPackage(pkg string) bool {
	return len(c.byPackage[pkg]) > 0
}

// IsAssignable reports whether sub equals super or reaches it through the
// catalog's supertype edges. Every type is assignable to java.lang.Object.
func (c *Catalog) IsAssignable(sub, super string) bool {
	if sub == "" || super == "" {
		return false
	}

	if sub == super || super == "java.lang.Object" {
		return true
	}

	return c.reaches(sub, super, 0)
}

func (c *Catalog) reaches(from, target string, depth int) bool {
	if depth > maxSupertypeDepth {
		return false
	}

	info, ok := c.types[from]
	if !ok {
		return false
	}

	for _, super := range info.Supertypes {
		if super == target || c.reaches(super, target, depth+1) {
			return true
		}
	}

	return false
}

// FieldType returns the type of a field declared on owner or its supertypes.
func (c *Catalog) FieldType(owner, field string) string {
	return c.member(owner, 0, func(info *TypeInfo) string { return info.Fields[field] })
}

// MethodReturn returns the return type of a method declared on owner or its
// supertypes.
func (c *Catalog) MethodReturn(owner, method string) string {
	return c.member(owner, 0, func(info *TypeInfo) string { return info.Methods[method] })
}

func (c *Catalog) member(owner string, depth int, get func(*TypeInfo) string) string {
	if depth > maxSupertypeDepth {
		return ""
	}

	info, ok := c.types[owner]
	if !ok {
		return ""
	}

	if found := get(info); found != "" {
		return found
	}

	for _, super := range info.Supertypes {
		if found := c.member(super, depth+1, get); found != "" {
			return found
		}
	}

	return ""
}

func mergeMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}

	if dst == nil {
		dst = make(map[string]string, len(src))
	}

	maps.Copy(dst, src)

	return dst
}
