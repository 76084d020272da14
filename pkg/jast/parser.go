// Package jast parses Java sources with tree-sitter and exposes an immutable
// syntax tree with cursor-scoped messages for rewrite rules.
package jast

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/java"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

var (
	errPoolType   = errors.New("parser pool returned unexpected type")
	errNoRootNode = errors.New("parse produced no root node")
)

// fieldNames lists the tree-sitter-java field names recorded on converted nodes.
var fieldNames = []string{
	"name", "type", "value", "body", "superclass", "interfaces", "object",
	"arguments", "field", "key", "parameters", "declarator", "dimensions",
	"element", "scope", "array", "index", "type_parameters", "left", "right",
	"condition", "operand", "alternative", "consequence", "init", "update",
	"type_arguments", "permits", "constructor", "function",
}

var (
	languageOnce sync.Once
	language     *sitter.Language
)

func javaLanguage() *sitter.Language {
	languageOnce.Do(func() {
		language = sitter.NewLanguage(java.GetLanguage())
	})

	return language
}

// Parser turns Java source into [File] values. It is safe for concurrent use.
type Parser struct {
	pool sync.Pool
}

// NewParser creates a Java parser backed by a pool of tree-sitter parsers.
func NewParser() *Parser {
	lang := javaLanguage()

	return &Parser{
		pool: sync.Pool{
			New: func() any {
				tsParser := sitter.NewParser()
				tsParser.SetLanguage(lang)

				return tsParser
			},
		},
	}
}

// Parse parses content and converts the concrete syntax tree into an
// immutable [Node] tree. The tree-sitter tree is released before returning.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*File, error) {
	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer p.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("parse %s: %w", path, errNoRootNode)
	}

	return &File{
		Path:      path,
		Src:       content,
		Root:      convert(root, nil, ""),
		hasErrors: root.HasError(),
	}, nil
}

func convert(tsNode sitter.Node, parent *Node, field string) *Node {
	n := &Node{
		Kind:   tsNode.Type(),
		Field:  field,
		Start:  int(tsNode.StartByte()),
		End:    int(tsNode.EndByte()),
		Line:   int(tsNode.StartPoint().Row) + 1,
		Named:  tsNode.IsNamed(),
		parent: parent,
	}

	count := tsNode.ChildCount()
	if count == 0 {
		return n
	}

	fields := childFields(tsNode)
	n.Children = make([]*Node, 0, count)

	for idx := range count {
		child := tsNode.Child(idx)
		if child.IsNull() {
			continue
		}

		key := span{int(child.StartByte()), int(child.EndByte()), child.Type()}
		n.Children = append(n.Children, convert(child, n, fields[key]))
	}

	return n
}

type span struct {
	start, end int
	kind       string
}

func childFields(tsNode sitter.Node) map[span]string {
	fields := make(map[span]string)

	for _, name := range fieldNames {
		child := tsNode.ChildByFieldName(name)
		if child.IsNull() {
			continue
		}

		key := span{int(child.StartByte()), int(child.EndByte()), child.Type()}
		if _, taken := fields[key]; !taken {
			fields[key] = name
		}
	}

	return fields
}
