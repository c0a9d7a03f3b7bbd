package graph

import (
	"context"
	"os"
	"slices"
	"testing"

	"localize-collector/internal/parser"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRows(t *testing.T) {
	rows := messageRows([]parser.Fragment{
		{ID: "1", File: "a.ts", Line: 3, Source: "Hi ", Placeholders: []string{"name"}},
		{ID: "2", File: "b.ts", Line: 1, Source: "Bye"},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{
		"id":           "1",
		"source":       "Hi ",
		"placeholders": []any{"name"},
	}, rows[0])
	assert.Equal(t, []any{}, rows[1]["placeholders"])
}

func TestUsageRows(t *testing.T) {
	rows := usageRows([]parser.Fragment{
		{ID: "1", File: "a.ts", Line: 3, Source: "Hi"},
		{ID: "1", File: "b.ts", Line: 9, Source: "Hi"},
	})

	assert.Equal(t, []map[string]any{
		{"id": "1", "file": "a.ts", "line": int64(3)},
		{"id": "1", "file": "b.ts", "line": int64(9)},
	}, rows)
}

func TestUsageGraph_Publish(t *testing.T) {
	uri := os.Getenv("NEO4J_TEST_URI")
	if uri == "" {
		t.Skip("NEO4J_TEST_URI not set")
	}
	ctx := context.Background()

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(os.Getenv("NEO4J_TEST_USER"), os.Getenv("NEO4J_TEST_PASSWORD"), ""))
	require.NoError(t, err)
	defer driver.Close(ctx)

	g := NewUsageGraph(driver, 1)
	require.NoError(t, g.EnsureSchema(ctx))

	messages := []parser.Fragment{
		{ID: "graph-test-1", File: "a.ts", Line: 1, Source: "One"},
		{ID: "graph-test-2", File: "a.ts", Line: 2, Source: "Two"},
	}
	usages := append(slices.Clone(messages), parser.Fragment{ID: "graph-test-1", File: "b.ts", Line: 4, Source: "One"})

	n, err := g.Publish(ctx, messages, usages)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
