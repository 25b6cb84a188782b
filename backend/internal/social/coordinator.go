package social

import (
	"context"

	"go.uber.org/zap"

	"socialnet/backend/internal/identity"
	"socialnet/backend/pkg/errors"
	"socialnet/backend/pkg/logger"
)

// Coordinator orchestrates every operation that must touch both stores.
// Each mutation is a fixed two-phase sequence: the identity store first
// (authoritative), then the graph store (derived). Phase two runs only after
// phase one succeeds and is never rolled back into phase one; a phase-two
// failure surfaces as ErrGraphOutOfSync and the reconciler repairs the graph
// from the identity lists.
type Coordinator struct {
	identity IdentityStore
	graph    GraphStore
	logger   *zap.Logger
}

// NewCoordinator creates a new sync coordinator
func NewCoordinator(identityStore IdentityStore, graphStore GraphStore) *Coordinator {
	return &Coordinator{
		identity: identityStore,
		graph:    graphStore,
		logger:   logger.Get(),
	}
}

// SignUp registers a new account in both stores. Fails with
// ErrDuplicateIdentity when the email is already registered.
func (c *Coordinator) SignUp(ctx context.Context, firstName, lastName, email, password string, interests []string) (*identity.Person, error) {
	person := &identity.Person{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
		Interests: interests,
	}

	if _, err := c.identity.Create(ctx, person); err != nil {
		return nil, err
	}

	if err := c.graph.UpsertPerson(ctx, person.ID, person.DisplayName(), person.Email); err != nil {
		c.logger.Warn("Graph node creation failed after sign-up; pending reconcile",
			zap.String("person_id", person.ID),
			zap.Error(err),
		)
		return nil, errors.NewGraphOutOfSync("sign-up", person.ID, err)
	}

	return person, nil
}

// LogIn resolves an account by email and credential. Identity store only.
func (c *Coordinator) LogIn(ctx context.Context, email, password string) (*identity.Person, error) {
	return c.identity.FindByCredentials(ctx, email, password)
}

// DeleteUser removes the account from both stores. The graph side is a
// detach-delete, so no dangling edge survives; stale list entries on other
// identity records are left for the reconciler.
func (c *Coordinator) DeleteUser(ctx context.Context, person *identity.Person) error {
	if err := c.identity.Delete(ctx, person.ID); err != nil {
		return err
	}

	if err := c.graph.DeletePerson(ctx, person.ID); err != nil {
		c.logger.Warn("Graph node removal failed after delete; pending reconcile",
			zap.String("person_id", person.ID),
			zap.Error(err),
		)
		return errors.NewGraphOutOfSync("delete user", person.ID, err)
	}

	return nil
}

// Follow makes current follow target. Idempotent: the list pushes are
// guarded set updates and the edge is created only if absent, so retrying
// after a partial failure converges without side effects.
func (c *Coordinator) Follow(ctx context.Context, current, target *identity.Person) error {
	if !target.HasSubscriber(current.ID) {
		if err := c.identity.AddSubscriber(ctx, target.ID, current.ID); err != nil {
			return err
		}
	}
	if !current.IsFollowing(target.ID) {
		if err := c.identity.AddFollowing(ctx, current.ID, target.ID); err != nil {
			return err
		}
	}

	exists, err := c.graph.EdgeExists(ctx, current.ID, target.ID)
	if err != nil {
		return errors.NewGraphOutOfSync("follow", current.ID, err)
	}
	if !exists {
		if err := c.graph.CreateEdge(ctx, current.ID, target.ID); err != nil {
			return errors.NewGraphOutOfSync("follow", current.ID, err)
		}
	}

	c.logger.Info("Follow recorded",
		zap.String("follower_id", current.ID),
		zap.String("followee_id", target.ID),
	)
	return nil
}

// Unfollow removes the relation in both stores. Idempotent: unfollowing
// someone you do not follow is a silent no-op.
func (c *Coordinator) Unfollow(ctx context.Context, current, target *identity.Person) error {
	if target.HasSubscriber(current.ID) {
		if err := c.identity.RemoveSubscriber(ctx, target.ID, current.ID); err != nil {
			return err
		}
	}
	if current.IsFollowing(target.ID) {
		if err := c.identity.RemoveFollowing(ctx, current.ID, target.ID); err != nil {
			return err
		}
	}

	exists, err := c.graph.EdgeExists(ctx, current.ID, target.ID)
	if err != nil {
		return errors.NewGraphOutOfSync("unfollow", current.ID, err)
	}
	if exists {
		if err := c.graph.DeleteEdge(ctx, current.ID, target.ID); err != nil {
			return errors.NewGraphOutOfSync("unfollow", current.ID, err)
		}
	}

	c.logger.Info("Unfollow recorded",
		zap.String("follower_id", current.ID),
		zap.String("followee_id", target.ID),
	)
	return nil
}
