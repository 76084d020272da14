package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/mcp"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/observability"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipes"
)

const javaxEntity = `package com.example;

import javax.persistence.Entity;

@Entity
public class Book {
}
`

const jakartaEntity = `package com.example;

import jakarta.persistence.Entity;

@Entity
public class Book {
}
`

func newServer(t *testing.T, deps mcp.ServerDeps) *mcp.Server {
	t.Helper()

	reg, err := recipes.Registry()
	require.NoError(t, err)

	deps.Registry = reg

	return mcp.NewServer(deps)
}

// connect runs srv on an in-memory transport and returns a client session.
func connect(t *testing.T, srv *mcp.Server) (context.Context, *mcpsdk.ClientSession) {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return ctx, session
}

func callTool(t *testing.T, ctx context.Context, session *mcpsdk.ClientSession, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	return result
}

func decodeText(t *testing.T, result *mcpsdk.CallToolResult, into any) {
	t.Helper()

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text.Text), into))
}

func TestServer_ListToolNames(t *testing.T) {
	t.Parallel()

	srv := newServer(t, mcp.ServerDeps{})

	assert.Equal(t, []string{mcp.ToolNameApply, mcp.ToolNameListRecipes}, srv.ListToolNames())
}

func TestMCPServer_ToolsList(t *testing.T) {
	t.Parallel()

	ctx, session := connect(t, newServer(t, mcp.ServerDeps{}))

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := make([]string, 0, len(toolsResult.Tools))

	for _, tool := range toolsResult.Tools {
		names = append(names, tool.Name)
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}

	assert.ElementsMatch(t, []string{"hibmigrate_list_recipes", "hibmigrate_apply"}, names)
}

func TestMCPServer_ListRecipes(t *testing.T) {
	t.Parallel()

	ctx, session := connect(t, newServer(t, mcp.ServerDeps{}))

	result := callTool(t, ctx, session, mcp.ToolNameListRecipes, map[string]any{"kind": "composite"})
	assert.False(t, result.IsError)

	var infos []mcp.RecipeInfo

	decodeText(t, result, &infos)

	byName := make(map[string]mcp.RecipeInfo, len(infos))
	for _, info := range infos {
		assert.Equal(t, "composite", info.Kind)

		byName[info.Name] = info
	}

	latest, ok := byName["hibmigrate.hibernate.MigrateToHibernate62"]
	require.True(t, ok)
	assert.Equal(t, "hibmigrate.hibernate.MigrateToHibernate61", latest.Steps[0])

	result = callTool(t, ctx, session, mcp.ToolNameListRecipes, map[string]any{"kind": "plugin"})
	assert.True(t, result.IsError)
}

func TestMCPServer_Apply(t *testing.T) {
	t.Parallel()

	ctx, session := connect(t, newServer(t, mcp.ServerDeps{}))

	result := callTool(t, ctx, session, mcp.ToolNameApply, map[string]any{
		"recipe": "hibmigrate.hibernate.MigrateToHibernate62",
		"source": javaxEntity,
		"path":   "src/main/java/com/example/Book.java",
	})
	require.False(t, result.IsError)

	var applied mcp.ApplyResult

	decodeText(t, result, &applied)

	assert.True(t, applied.Changed)
	assert.Equal(t, jakartaEntity, applied.Source)
	assert.Contains(t, applied.Diff, "+import jakarta.persistence.Entity;")
	assert.Contains(t, applied.Diff, "--- a/src/main/java/com/example/Book.java")
	assert.Equal(t, []string{"hibmigrate.java.JavaxPersistenceToJakarta"}, applied.Rules)
	assert.NotEmpty(t, applied.Skipped)
}

func TestMCPServer_ApplyErrors(t *testing.T) {
	t.Parallel()

	ctx, session := connect(t, newServer(t, mcp.ServerDeps{}))

	cases := map[string]map[string]any{
		"empty source":   {"recipe": "hibmigrate.hibernate.MigrateUserType", "source": ""},
		"empty recipe":   {"recipe": " ", "source": javaxEntity},
		"unknown recipe": {"recipe": "hibmigrate.hibernate.Nope", "source": javaxEntity},
		"not java path":  {"recipe": "hibmigrate.hibernate.MigrateUserType", "source": javaxEntity, "path": "pom.xml"},
		"syntax error":   {"recipe": "hibmigrate.hibernate.MigrateUserType", "source": "class Broken {\n"},
	}

	for name, args := range cases {
		result := callTool(t, ctx, session, mcp.ToolNameApply, args)
		assert.True(t, result.IsError, name)
	}
}

func TestMCPServer_MetricsAndTracing(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	red, err := observability.NewREDMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	ctx, session := connect(t, newServer(t, mcp.ServerDeps{Metrics: red, Tracer: tp.Tracer("test")}))

	result := callTool(t, ctx, session, mcp.ToolNameListRecipes, map[string]any{})
	require.False(t, result.IsError)

	last, ok := result.Content[len(result.Content)-1].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, last.Text, "trace_id=")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "mcp.hibmigrate_list_recipes", spans[0].Name)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := false

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "hibmigrate.requests.total" {
				found = true
			}
		}
	}

	assert.True(t, found)
}
