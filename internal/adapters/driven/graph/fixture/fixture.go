// Package fixture provides an in-memory code graph loaded from JSON.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
)

// Ensure Graph implements the interface.
var _ driven.GraphStore = (*Graph)(nil)

// Object is the JSON form of one graph object.
type Object struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FullName     string `json:"fullName"`
	Type         string `json:"type"`
	InternalType string `json:"internalType"`
	Application  string `json:"application"`
	External     bool   `json:"external"`
}

type document struct {
	Objects []Object `json:"objects"`
}

// Graph is an in-memory GraphStore.
type Graph struct {
	mu      sync.RWMutex
	objects []domain.CandidateObject
}

// New creates a graph holding the given objects.
func New(objects ...domain.CandidateObject) *Graph {
	return &Graph{objects: append([]domain.CandidateObject(nil), objects...)}
}

// Load reads a JSON fixture of the form {"objects": [...]}.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph fixture: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing graph fixture %s: %w", domain.ErrInvalidInput, path, err)
	}

	g := New()
	for _, o := range doc.Objects {
		g.Add(domain.CandidateObject(o))
	}
	return g, nil
}

// Add inserts an object into the graph.
func (g *Graph) Add(obj domain.CandidateObject) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.objects = append(g.objects, obj)
}

// FindCandidates returns the external objects matching the query, in insertion order.
func (g *Graph) FindCandidates(ctx context.Context, q domain.CandidateQuery) ([]domain.CandidateObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	match, err := matcher(q)
	if err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	out := []domain.CandidateObject{}
	for _, o := range g.objects {
		if match(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

// CountCandidates counts the external objects matching the query.
func (g *Graph) CountCandidates(ctx context.Context, q domain.CandidateQuery) (int64, error) {
	found, err := g.FindCandidates(ctx, q)
	if err != nil {
		return 0, err
	}
	return int64(len(found)), nil
}

func matcher(q domain.CandidateQuery) (func(domain.CandidateObject) bool, error) {
	if q.Application == "" {
		return nil, fmt.Errorf("%w: application is required", domain.ErrInvalidInput)
	}
	if q.InternalType == "" && q.TypeContains == "" {
		return nil, fmt.Errorf("%w: query needs a type or an internal type", domain.ErrInvalidInput)
	}
	return func(o domain.CandidateObject) bool {
		if !o.External || o.Application != q.Application {
			return false
		}
		if q.InternalType != "" {
			return o.InternalType == q.InternalType
		}
		return strings.Contains(o.Type, q.TypeContains)
	}, nil
}
