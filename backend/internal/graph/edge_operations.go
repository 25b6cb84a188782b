package graph

import (
	"context"

	"socialnet/backend/pkg/errors"
)

// EdgeExists reports whether a directed FOLLOWS edge exists between the two
// person nodes (single-hop existence check)
func (r *Repository) EdgeExists(ctx context.Context, fromID, toID string) (bool, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (a:Person {id: $fromID})-[f:FOLLOWS]->(b:Person {id: $toID})
		RETURN count(f) as edges
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"fromID": fromID,
		"toID":   toID,
	})
	if err != nil {
		return false, errors.NewGraphQueryFailed("edge existence check", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return false, errors.NewGraphQueryFailed("edge existence check", err)
	}

	return getInt64FromRecord(record, "edges") > 0, nil
}

// CreateEdge creates the directed FOLLOWS edge. MERGE guarantees at most one
// edge per ordered pair; a duplicate create is a no-op. Fails when either
// endpoint node is missing.
func (r *Repository) CreateEdge(ctx context.Context, fromID, toID string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (a:Person {id: $fromID})
		MATCH (b:Person {id: $toID})
		MERGE (a)-[:FOLLOWS]->(b)
		RETURN a.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"fromID": fromID,
		"toID":   toID,
	})
	if err != nil {
		return errors.NewGraphQueryFailed("create edge", err)
	}

	if _, err := result.Single(ctx); err != nil {
		return errors.NewGraphQueryFailed("create edge", err)
	}
	return nil
}

// DeleteEdge removes the directed FOLLOWS edge; no-op when absent
func (r *Repository) DeleteEdge(ctx context.Context, fromID, toID string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (a:Person {id: $fromID})-[f:FOLLOWS]->(b:Person {id: $toID})
		DELETE f
	`

	if _, err := session.Run(ctx, query, map[string]interface{}{
		"fromID": fromID,
		"toID":   toID,
	}); err != nil {
		return errors.NewGraphQueryFailed("delete edge", err)
	}
	return nil
}

// Followees returns the IDs of everyone the person follows in the graph.
// Used by the reconciler to diff against the identity store lists.
func (r *Repository) Followees(ctx context.Context, id string) ([]string, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	// OPTIONAL MATCH so that a missing node yields an empty list, not zero rows
	query := `
		OPTIONAL MATCH (a:Person {id: $id})-[:FOLLOWS]->(b:Person)
		RETURN collect(b.id) as followees
	`

	result, err := session.Run(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("list followees", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return nil, errors.NewGraphQueryFailed("list followees", err)
	}

	return getStringSliceFromRecord(record, "followees"), nil
}
