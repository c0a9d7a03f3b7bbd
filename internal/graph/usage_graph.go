// Package graph mirrors message usage into Neo4j: one Message node per id
// and a USED_IN edge to every SourceFile that contains the message.
package graph

import (
	"context"
	"fmt"
	"slices"
	"time"

	"localize-collector/internal/parser"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// UsageGraph records which source files use which messages in Neo4j.
type UsageGraph struct {
	driver    neo4j.DriverWithContext
	batchSize int
}

// NewUsageGraph creates a new usage graph writer.
func NewUsageGraph(driver neo4j.DriverWithContext, batchSize int) *UsageGraph {
	if batchSize < 1 {
		batchSize = 1
	}
	return &UsageGraph{driver: driver, batchSize: batchSize}
}

// EnsureSchema creates constraints on the Neo4j database.
func (g *UsageGraph) EnsureSchema(ctx context.Context) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (m:Message) REQUIRE m.id IS UNIQUE",
		"CREATE CONSTRAINT IF NOT EXISTS FOR (f:SourceFile) REQUIRE f.path IS UNIQUE",
	}

	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}

	log.Info().Msg("Graph schema ensured")
	return nil
}

const mergeMessageCypher = `
UNWIND $rows AS row
MERGE (m:Message {id: row.id})
SET m.source = row.source, m.placeholders = row.placeholders`

// The first occurrence of a message in a file sets the edge's line.
const mergeUsageCypher = `
UNWIND $rows AS row
MATCH (m:Message {id: row.id})
MERGE (f:SourceFile {path: row.file})
MERGE (m)-[u:USED_IN]->(f)
SET u.line = CASE WHEN u.run = $run THEN u.line ELSE row.line END, u.run = $run`

const pruneUsageCypher = `
MATCH (:Message)-[u:USED_IN]->(:SourceFile)
WHERE u.run IS NULL OR u.run <> $run
DELETE u`

const pruneFilesCypher = `
MATCH (f:SourceFile)
WHERE NOT ()-[:USED_IN]->(f)
DELETE f`

// Publish writes one Message node per unique message and one USED_IN edge
// per file using it. messages carries the authoritative text for each id;
// usages carries every occurrence, duplicates included. Edges and files not
// seen in this publish are removed, so usages must cover the whole tree.
// Message nodes are never removed. It returns the number of usages written.
func (g *UsageGraph) Publish(ctx context.Context, messages, usages []parser.Fragment) (int, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for batch := range slices.Chunk(messages, g.batchSize) {
		if err := run(ctx, session, mergeMessageCypher, map[string]any{"rows": messageRows(batch)}); err != nil {
			return 0, fmt.Errorf("merge message batch: %w", err)
		}
	}

	stamp := time.Now().UnixNano()
	written := 0
	for batch := range slices.Chunk(usages, g.batchSize) {
		params := map[string]any{"rows": usageRows(batch), "run": stamp}
		if err := run(ctx, session, mergeUsageCypher, params); err != nil {
			return written, fmt.Errorf("merge usage batch: %w", err)
		}
		written += len(batch)
	}

	if err := run(ctx, session, pruneUsageCypher, map[string]any{"run": stamp}); err != nil {
		return written, fmt.Errorf("prune stale usages: %w", err)
	}
	if err := run(ctx, session, pruneFilesCypher, nil); err != nil {
		return written, fmt.Errorf("prune unused files: %w", err)
	}

	log.Info().Int("messages", len(messages)).Int("usages", written).Msg("Published usage graph")
	return written, nil
}

func run(ctx context.Context, session neo4j.SessionWithContext, cypher string, params map[string]any) error {
	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return err
}

// messageRows converts fragments into Message parameter maps.
func messageRows(fragments []parser.Fragment) []map[string]any {
	rows := make([]map[string]any, 0, len(fragments))
	for _, f := range fragments {
		placeholders := make([]any, len(f.Placeholders))
		for i, p := range f.Placeholders {
			placeholders[i] = p
		}
		rows = append(rows, map[string]any{
			"id":           f.ID,
			"source":       f.Source,
			"placeholders": placeholders,
		})
	}
	return rows
}

// usageRows converts fragments into USED_IN parameter maps.
func usageRows(fragments []parser.Fragment) []map[string]any {
	rows := make([]map[string]any, 0, len(fragments))
	for _, f := range fragments {
		rows = append(rows, map[string]any{
			"id":   f.ID,
			"file": f.File,
			"line": int64(f.Line),
		})
	}
	return rows
}
