package graph

import (
	"context"

	"go.uber.org/zap"

	"socialnet/backend/pkg/errors"
)

// UpsertPerson creates the person node or refreshes its attributes. MERGE on
// the ID keeps the operation idempotent under retry.
func (r *Repository) UpsertPerson(ctx context.Context, id, name, email string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MERGE (p:Person {id: $id})
		SET p.name = $name,
		    p.email = $email
		RETURN p.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":    id,
		"name":  name,
		"email": email,
	})
	if err != nil {
		return errors.NewGraphQueryFailed("upsert person", err)
	}

	if _, err := result.Single(ctx); err != nil {
		return errors.NewGraphQueryFailed("upsert person", err)
	}

	r.logger.Info("Graph node upserted",
		zap.String("person_id", id),
		zap.String("name", name),
	)
	return nil
}

// PersonIDs returns the ID of every person node in the graph
func (r *Repository) PersonIDs(ctx context.Context) ([]string, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (p:Person)
		RETURN collect(p.id) as ids
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, errors.NewGraphQueryFailed("list person nodes", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return nil, errors.NewGraphQueryFailed("list person nodes", err)
	}

	return getStringSliceFromRecord(record, "ids"), nil
}

// DeletePerson removes the person node and every incident edge in one
// operation. No-op when the node is already gone.
func (r *Repository) DeletePerson(ctx context.Context, id string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (p:Person {id: $id})
		DETACH DELETE p
	`

	if _, err := session.Run(ctx, query, map[string]interface{}{"id": id}); err != nil {
		return errors.NewGraphQueryFailed("detach delete person", err)
	}

	r.logger.Info("Graph node detach-deleted", zap.String("person_id", id))
	return nil
}
