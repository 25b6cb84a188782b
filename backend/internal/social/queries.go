package social

import (
	"context"

	"socialnet/backend/internal/identity"
)

// Relationship classifies the connection between two people as seen from
// the first one
type Relationship string

const (
	// RelationshipSelf means both sides are the same person
	RelationshipSelf Relationship = "self"
	// RelationshipNone means no edge exists in either direction
	RelationshipNone Relationship = "none"
	// RelationshipFollowing means you follow them
	RelationshipFollowing Relationship = "following"
	// RelationshipFollowedBy means they follow you. When both directions
	// exist this classification wins; mutual follows are not reported
	// distinctly.
	RelationshipFollowedBy Relationship = "followed_by"
)

// QueryService answers read-only relationship and path questions against
// the graph store. It never mutates either store.
type QueryService struct {
	identity IdentityStore
	graph    GraphStore
}

// NewQueryService creates a new graph query service
func NewQueryService(identityStore IdentityStore, graphStore GraphStore) *QueryService {
	return &QueryService{
		identity: identityStore,
		graph:    graphStore,
	}
}

// RelationshipOf classifies the undirected connection between current and
// target. Same person short-circuits to Self without touching the store.
func (q *QueryService) RelationshipOf(ctx context.Context, current, target *identity.Person) (Relationship, error) {
	if current.ID == target.ID {
		return RelationshipSelf, nil
	}

	forward, err := q.graph.EdgeExists(ctx, current.ID, target.ID)
	if err != nil {
		return RelationshipNone, err
	}
	reverse, err := q.graph.EdgeExists(ctx, target.ID, current.ID)
	if err != nil {
		return RelationshipNone, err
	}

	switch {
	case reverse:
		return RelationshipFollowedBy, nil
	case forward:
		return RelationshipFollowing, nil
	default:
		return RelationshipNone, nil
	}
}

// ShortestPath returns the people on the shortest undirected path between
// current and target, resolved back through the identity store. Returns nil
// when target is unreachable. Same person yields a single-element path
// (distance zero) without querying.
func (q *QueryService) ShortestPath(ctx context.Context, current, target *identity.Person) ([]identity.Person, error) {
	if current.ID == target.ID {
		return []identity.Person{*current}, nil
	}

	nodes, err := q.graph.ShortestPath(ctx, current.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	path := make([]identity.Person, 0, len(nodes))
	for _, node := range nodes {
		person, err := q.identity.FindByID(ctx, node.ID)
		if err != nil {
			return nil, err
		}
		path = append(path, *person)
	}
	return path, nil
}
