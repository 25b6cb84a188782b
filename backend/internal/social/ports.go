package social

import (
	"context"

	"socialnet/backend/internal/graph"
	"socialnet/backend/internal/identity"
)

// IdentityStore is the document-of-record boundary: person records with
// set-valued relationship lists. Implemented by identity.Store.
type IdentityStore interface {
	Create(ctx context.Context, person *identity.Person) (string, error)
	FindByID(ctx context.Context, id string) (*identity.Person, error)
	FindByCredentials(ctx context.Context, email, password string) (*identity.Person, error)
	ListAll(ctx context.Context) ([]identity.Person, error)
	Delete(ctx context.Context, id string) error
	AddFollowing(ctx context.Context, id, targetID string) error
	RemoveFollowing(ctx context.Context, id, targetID string) error
	AddSubscriber(ctx context.Context, id, sourceID string) error
	RemoveSubscriber(ctx context.Context, id, sourceID string) error
}

// GraphStore is the traversal-query boundary: ID-keyed person nodes and
// directed FOLLOWS edges. Implemented by graph.Repository. Only the
// coordinator and the reconciler may call its mutating operations.
type GraphStore interface {
	UpsertPerson(ctx context.Context, id, name, email string) error
	DeletePerson(ctx context.Context, id string) error
	PersonIDs(ctx context.Context) ([]string, error)
	EdgeExists(ctx context.Context, fromID, toID string) (bool, error)
	CreateEdge(ctx context.Context, fromID, toID string) error
	DeleteEdge(ctx context.Context, fromID, toID string) error
	Followees(ctx context.Context, id string) ([]string, error)
	ShortestPath(ctx context.Context, fromID, toID string) ([]graph.PathNode, error)
}
