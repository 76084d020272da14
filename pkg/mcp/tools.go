package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/report"
)

// Tool name constants.
const (
	ToolNameListRecipes = "hibmigrate_list_recipes"
	ToolNameApply       = "hibmigrate_apply"
)

// MaxSourceInputBytes is the maximum allowed size for inline source (1 MB).
const MaxSourceInputBytes = 1 << 20

const defaultSourcePath = "Source.java"

// Sentinel errors for tool input validation.
var (
	ErrEmptyRecipe    = errors.New("recipe parameter is required and must not be empty")
	ErrEmptySource    = errors.New("source parameter is required and must not be empty")
	ErrSourceTooLarge = errors.New("source input exceeds maximum size")
	ErrInvalidKind    = errors.New("kind must be one of rule, composite, external")
	ErrNotJavaPath    = errors.New("path must name a .java file")
)

// ListRecipesInput is the input schema for the hibmigrate_list_recipes tool.
type ListRecipesInput struct {
	Kind string `json:"kind,omitempty" jsonschema:"optional filter: rule, composite or external"`
}

// ApplyInput is the input schema for the hibmigrate_apply tool.
type ApplyInput struct {
	Path   string `json:"path,omitempty" jsonschema:"optional file path used in diffs and warnings (default Source.java)"`
	Recipe string `json:"recipe"         jsonschema:"recipe name, e.g. hibmigrate.hibernate.MigrateToHibernate62"`
	Source string `json:"source"         jsonschema:"Java compilation unit to migrate"`
}

// RecipeInfo describes one registered recipe.
type RecipeInfo struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Kind        string   `json:"kind"`
	Steps       []string `json:"steps,omitempty"`
}

// ApplyResult is the outcome of hibmigrate_apply.
type ApplyResult struct {
	Changed  bool             `json:"changed"`
	Source   string           `json:"source"`
	Diff     string           `json:"diff,omitempty"`
	Rules    []string         `json:"rules,omitempty"`
	Warnings []recipe.Warning `json:"warnings,omitempty"`
	Skipped  []string         `json:"skipped,omitempty"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

func (s *Server) handleListRecipes(
	_ context.Context, _ *mcpsdk.CallToolRequest, input ListRecipesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	switch input.Kind {
	case "", "rule", "composite", "external":
	default:
		return errorResult(fmt.Errorf("%w: %q", ErrInvalidKind, input.Kind))
	}

	infos := make([]RecipeInfo, 0)

	for _, r := range s.registry.All() {
		kind := recipe.Kind(r)
		if input.Kind != "" && kind != input.Kind {
			continue
		}

		info := RecipeInfo{
			Name:        r.Name(),
			DisplayName: r.DisplayName(),
			Description: r.Description(),
			Kind:        kind,
		}

		if composite, ok := r.(*recipe.Composite); ok {
			for _, step := range composite.Steps {
				info.Steps = append(info.Steps, step.Name())
			}
		}

		infos = append(infos, info)
	}

	return jsonResult(infos)
}

func (s *Server) handleApply(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ApplyInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateApplyInput(input)
	if err != nil {
		return errorResult(err)
	}

	rec, err := s.registry.Lookup(input.Recipe)
	if err != nil {
		return errorResult(err)
	}

	file := input.Path
	if file == "" {
		file = defaultSourcePath
	}

	res, err := s.engine.Run(ctx, rec, file, []byte(input.Source))
	if err != nil {
		return errorResult(fmt.Errorf("apply %s: %w", rec.Name(), err))
	}

	return jsonResult(ApplyResult{
		Changed:  res.Changed(),
		Source:   string(res.After),
		Diff:     report.UnifiedDiff(file, res.Before, res.After),
		Rules:    res.Rules,
		Warnings: res.Warnings,
		Skipped:  res.Skipped,
	})
}

func validateApplyInput(input ApplyInput) error {
	if strings.TrimSpace(input.Recipe) == "" {
		return ErrEmptyRecipe
	}

	if input.Source == "" {
		return ErrEmptySource
	}

	if len(input.Source) > MaxSourceInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrSourceTooLarge, len(input.Source), MaxSourceInputBytes)
	}

	if input.Path != "" && path.Ext(input.Path) != ".java" {
		return fmt.Errorf("%w: %q", ErrNotJavaPath, input.Path)
	}

	return nil
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
