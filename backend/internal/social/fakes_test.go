package social

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/google/uuid"

	"socialnet/backend/internal/graph"
	"socialnet/backend/internal/identity"
	"socialnet/backend/pkg/errors"
)

var errInjected = stderrors.New("injected store failure")

// fakeIdentity is an in-memory IdentityStore with the same set semantics as
// the Postgres-backed store
type fakeIdentity struct {
	mu      sync.Mutex
	persons map[string]*identity.Person
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{persons: make(map[string]*identity.Person)}
}

func (f *fakeIdentity) Create(ctx context.Context, person *identity.Person) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.persons {
		if p.Email == person.Email {
			return "", errors.NewDuplicateIdentity(person.Email)
		}
	}
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	person.Subscribers = []string{}
	person.Following = []string{}

	stored := *person
	f.persons[person.ID] = &stored
	return person.ID, nil
}

func (f *fakeIdentity) FindByID(ctx context.Context, id string) (*identity.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.persons[id]
	if !ok {
		return nil, errors.NewPersonNotFound(id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeIdentity) FindByCredentials(ctx context.Context, email, password string) (*identity.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.persons {
		if p.Email == email && p.Password == password {
			copied := *p
			return &copied, nil
		}
	}
	return nil, errors.NewPersonNotFound(email)
}

func (f *fakeIdentity) ListAll(ctx context.Context) ([]identity.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]identity.Person, 0, len(f.persons))
	for _, p := range f.persons {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeIdentity) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.persons[id]; !ok {
		return errors.NewPersonNotFound(id)
	}
	delete(f.persons, id)
	return nil
}

func (f *fakeIdentity) AddFollowing(ctx context.Context, id, targetID string) error {
	return f.push(id, targetID, func(p *identity.Person) *[]string { return (*[]string)(&p.Following) })
}

func (f *fakeIdentity) RemoveFollowing(ctx context.Context, id, targetID string) error {
	return f.pull(id, targetID, func(p *identity.Person) *[]string { return (*[]string)(&p.Following) })
}

func (f *fakeIdentity) AddSubscriber(ctx context.Context, id, sourceID string) error {
	return f.push(id, sourceID, func(p *identity.Person) *[]string { return (*[]string)(&p.Subscribers) })
}

func (f *fakeIdentity) RemoveSubscriber(ctx context.Context, id, sourceID string) error {
	return f.pull(id, sourceID, func(p *identity.Person) *[]string { return (*[]string)(&p.Subscribers) })
}

func (f *fakeIdentity) push(id, value string, list func(*identity.Person) *[]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.persons[id]
	if !ok {
		return nil // guarded update matches zero rows
	}
	target := list(p)
	for _, v := range *target {
		if v == value {
			return nil
		}
	}
	*target = append(*target, value)
	return nil
}

func (f *fakeIdentity) pull(id, value string, list func(*identity.Person) *[]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.persons[id]
	if !ok {
		return nil
	}
	target := list(p)
	out := (*target)[:0]
	for _, v := range *target {
		if v != value {
			out = append(out, v)
		}
	}
	*target = out
	return nil
}

// fakeGraph is an in-memory GraphStore with detach-delete and undirected
// BFS shortest path. The fail* switches inject phase-two failures.
type fakeGraph struct {
	mu    sync.Mutex
	nodes map[string]graph.PathNode
	edges map[[2]string]bool

	failUpsert     bool
	failCreateEdge bool
	failDelete     bool
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		nodes: make(map[string]graph.PathNode),
		edges: make(map[[2]string]bool),
	}
}

func (f *fakeGraph) UpsertPerson(ctx context.Context, id, name, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpsert {
		return errors.NewGraphQueryFailed("upsert person", errInjected)
	}
	f.nodes[id] = graph.PathNode{ID: id, Name: name}
	return nil
}

func (f *fakeGraph) DeletePerson(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDelete {
		return errors.NewGraphQueryFailed("detach delete person", errInjected)
	}
	delete(f.nodes, id)
	for e := range f.edges {
		if e[0] == id || e[1] == id {
			delete(f.edges, e)
		}
	}
	return nil
}

func (f *fakeGraph) PersonIDs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.nodes))
	for id := range f.nodes {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeGraph) EdgeExists(ctx context.Context, fromID, toID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.edges[[2]string{fromID, toID}], nil
}

func (f *fakeGraph) CreateEdge(ctx context.Context, fromID, toID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreateEdge {
		return errors.NewGraphQueryFailed("create edge", errInjected)
	}
	if _, ok := f.nodes[fromID]; !ok {
		return errors.NewGraphQueryFailed("create edge", stderrors.New("no such node: "+fromID))
	}
	if _, ok := f.nodes[toID]; !ok {
		return errors.NewGraphQueryFailed("create edge", stderrors.New("no such node: "+toID))
	}
	f.edges[[2]string{fromID, toID}] = true
	return nil
}

func (f *fakeGraph) DeleteEdge(ctx context.Context, fromID, toID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.edges, [2]string{fromID, toID})
	return nil
}

func (f *fakeGraph) Followees(ctx context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for e := range f.edges {
		if e[0] == id {
			out = append(out, e[1])
		}
	}
	return out, nil
}

func (f *fakeGraph) ShortestPath(ctx context.Context, fromID, toID string) ([]graph.PathNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.nodes[fromID]; !ok {
		return nil, nil
	}
	if _, ok := f.nodes[toID]; !ok {
		return nil, nil
	}

	adjacency := make(map[string][]string)
	for e := range f.edges {
		adjacency[e[0]] = append(adjacency[e[0]], e[1])
		adjacency[e[1]] = append(adjacency[e[1]], e[0])
	}

	parent := map[string]string{fromID: fromID}
	queue := []string{fromID}
	for len(queue) > 0 && parent[toID] == "" {
		head := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[head] {
			if _, seen := parent[next]; !seen {
				parent[next] = head
				queue = append(queue, next)
			}
		}
	}
	if _, ok := parent[toID]; !ok {
		return nil, nil
	}

	var reversed []string
	for at := toID; at != fromID; at = parent[at] {
		reversed = append(reversed, at)
	}
	reversed = append(reversed, fromID)

	path := make([]graph.PathNode, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, f.nodes[reversed[i]])
	}
	return path, nil
}
