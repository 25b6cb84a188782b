package graph

import (
	"context"

	"socialnet/backend/pkg/errors"
)

// PathNode is one hop on a shortest path: the node's person ID plus the
// display name attribute for rendering without a second graph query.
type PathNode struct {
	ID   string
	Name string
}

// ShortestPath returns the ordered node sequence of the shortest undirected
// path over FOLLOWS edges between the two persons, or nil when no path
// exists. Edge direction is ignored for reachability; edges are still
// created directed.
func (r *Repository) ShortestPath(ctx context.Context, fromID, toID string) ([]PathNode, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (a:Person {id: $fromID}), (b:Person {id: $toID})
		MATCH p = shortestPath((a)-[:FOLLOWS*]-(b))
		RETURN [n IN nodes(p) | {id: n.id, name: n.name}] as path
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"fromID": fromID,
		"toID":   toID,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("shortest path", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed("shortest path", err)
		}
		// No row means unreachable or unknown endpoint
		return nil, nil
	}

	record := result.Record()
	raw, _ := record.Get("path")
	nodes, ok := raw.([]interface{})
	if !ok {
		return nil, nil
	}

	path := make([]PathNode, 0, len(nodes))
	for _, n := range nodes {
		if m, ok := n.(map[string]interface{}); ok {
			path = append(path, PathNode{
				ID:   getStringFromMap(m, "id", ""),
				Name: getStringFromMap(m, "name", ""),
			})
		}
	}
	return path, nil
}
