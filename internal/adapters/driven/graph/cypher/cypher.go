// Package cypher reads candidate objects from a Neo4j code property graph.
package cypher

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
)

// Ensure Graph implements the interface.
var _ driven.GraphStore = (*Graph)(nil)

// Config holds the connection settings of a Neo4j database.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
	Schema   domain.GraphSchema
}

// Runner executes one read query and returns its records as maps.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// Graph implements driven.GraphStore with Cypher queries.
type Graph struct {
	runner Runner
	schema domain.GraphSchema
	close  func(ctx context.Context) error
}

// Open connects to the database and verifies connectivity.
func Open(ctx context.Context, cfg Config) (*Graph, error) {
	if err := cfg.Schema.Validate(); err != nil {
		return nil, err
	}

	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("%w: creating driver: %w", domain.ErrGraphQuery, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("%w: connecting to %s: %w", domain.ErrGraphQuery, cfg.URI, err)
	}

	g := New(&driverRunner{driver: driver, database: cfg.Database}, cfg.Schema)
	g.close = driver.Close
	return g, nil
}

// New creates a Graph over an existing runner.
func New(runner Runner, schema domain.GraphSchema) *Graph {
	return &Graph{runner: runner, schema: schema}
}

// Close releases the underlying driver.
func (g *Graph) Close(ctx context.Context) error {
	if g.close == nil {
		return nil
	}
	return g.close(ctx)
}

// FindCandidates returns the external objects matching the query.
func (g *Graph) FindCandidates(ctx context.Context, q domain.CandidateQuery) ([]domain.CandidateObject, error) {
	match, params, err := g.match(q)
	if err != nil {
		return nil, err
	}

	s := g.schema
	query := match + fmt.Sprintf(
		" RETURN elementId(obj) AS id, obj.%s AS name, obj.%s AS fullName, obj.%s AS type, obj.%s AS internalType",
		quote(s.NameField), quote(s.FullNameField), quote(s.TypeField), quote(s.InternalTypeField))

	records, err := g.runner.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.CandidateObject, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, domain.CandidateObject{
			ID:           stringValue(rec["id"]),
			Name:         stringValue(rec["name"]),
			FullName:     stringValue(rec["fullName"]),
			Type:         stringValue(rec["type"]),
			InternalType: stringValue(rec["internalType"]),
			Application:  q.Application,
			External:     true,
		})
	}
	return candidates, nil
}

// CountCandidates counts the external objects matching the query.
func (g *Graph) CountCandidates(ctx context.Context, q domain.CandidateQuery) (int64, error) {
	match, params, err := g.match(q)
	if err != nil {
		return 0, err
	}

	records, err := g.runner.Run(ctx, match+" RETURN count(obj) AS n", params)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	n, ok := records[0]["n"].(int64)
	if !ok {
		return 0, fmt.Errorf("%w: unexpected count value %v", domain.ErrGraphQuery, records[0]["n"])
	}
	return n, nil
}

// match builds the MATCH/WHERE clause shared by find and count.
func (g *Graph) match(q domain.CandidateQuery) (string, map[string]any, error) {
	if strings.TrimSpace(q.Application) == "" {
		return "", nil, fmt.Errorf("%w: application is required", domain.ErrInvalidInput)
	}

	s := g.schema
	params := map[string]any{}
	var b strings.Builder
	fmt.Fprintf(&b, "MATCH (obj:%s:%s) WHERE obj.%s = true",
		quote(s.ObjectLabel), quote(q.Application), quote(s.ExternalField))

	switch {
	case q.InternalType != "":
		fmt.Fprintf(&b, " AND obj.%s = $internalType", quote(s.InternalTypeField))
		params["internalType"] = q.InternalType
	case q.TypeContains != "":
		fmt.Fprintf(&b, " AND obj.%s CONTAINS $typeContains", quote(s.TypeField))
		params["typeContains"] = q.TypeContains
	default:
		return "", nil, fmt.Errorf("%w: query needs a type or an internal type", domain.ErrInvalidInput)
	}
	return b.String(), params, nil
}

// quote backtick-quotes a label or property name.
func quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// driverRunner runs queries through a Neo4j driver.
type driverRunner struct {
	driver   neo4j.DriverWithContext
	database string
}

func (r *driverRunner) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	opts := []neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithReadersRouting()}
	if r.database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(r.database))
	}

	result, err := neo4j.ExecuteQuery(ctx, r.driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGraphQuery, err)
	}

	rows := make([]map[string]any, 0, len(result.Records))
	for _, rec := range result.Records {
		rows = append(rows, rec.AsMap())
	}
	return rows, nil
}
