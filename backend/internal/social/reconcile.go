package social

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"socialnet/backend/internal/identity"
	"socialnet/backend/pkg/logger"
)

// Reconciler is the repair path for the accepted consistency gap: a
// phase-two failure leaves the graph behind the identity store, and user
// deletion leaves stale list entries on other records. Repair re-derives the
// edge set from the identity following lists and converges the graph onto
// it. Every step is idempotent, so the sweep is safe to re-run and to race
// with live traffic.
type Reconciler struct {
	identity IdentityStore
	graph    GraphStore
	workers  int
	logger   *zap.Logger
}

// RepairStats summarizes one reconciliation sweep
type RepairStats struct {
	NodesUpserted     int64
	NodesDeleted      int64
	EdgesCreated      int64
	EdgesDeleted      int64
	ListEntriesPruned int64
}

// NewReconciler creates a reconciler that diffs up to workers persons
// concurrently
func NewReconciler(identityStore IdentityStore, graphStore GraphStore, workers int) *Reconciler {
	if workers < 1 {
		workers = 1
	}
	return &Reconciler{
		identity: identityStore,
		graph:    graphStore,
		workers:  workers,
		logger:   logger.Get(),
	}
}

// Repair runs one full sweep: drop graph nodes for deleted persons, make
// sure every person has a node, then per person diff the identity following
// list against the graph out-edges and converge the graph.
func (r *Reconciler) Repair(ctx context.Context) (RepairStats, error) {
	var stats RepairStats

	persons, err := r.identity.ListAll(ctx)
	if err != nil {
		return stats, err
	}

	alive := make(map[string]bool, len(persons))
	for i := range persons {
		alive[persons[i].ID] = true
	}

	// Orphan nodes: persons deleted in the identity store whose detach-delete
	// never reached the graph
	nodeIDs, err := r.graph.PersonIDs(ctx)
	if err != nil {
		return stats, err
	}
	for _, id := range nodeIDs {
		if !alive[id] {
			if err := r.graph.DeletePerson(ctx, id); err != nil {
				return stats, err
			}
			stats.NodesDeleted++
		}
	}

	// All nodes must exist before any edge diff creates edges toward them
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range persons {
		p := persons[i]
		g.Go(func() error {
			if err := r.graph.UpsertPerson(gctx, p.ID, p.DisplayName(), p.Email); err != nil {
				return err
			}
			atomic.AddInt64(&stats.NodesUpserted, 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range persons {
		p := persons[i]
		g.Go(func() error {
			return r.repairPerson(gctx, &p, alive, &stats)
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	r.logger.Info("Reconciliation sweep finished",
		zap.Int64("nodes_upserted", stats.NodesUpserted),
		zap.Int64("nodes_deleted", stats.NodesDeleted),
		zap.Int64("edges_created", stats.EdgesCreated),
		zap.Int64("edges_deleted", stats.EdgesDeleted),
		zap.Int64("list_entries_pruned", stats.ListEntriesPruned),
	)
	return stats, nil
}

func (r *Reconciler) repairPerson(ctx context.Context, p *identity.Person, alive map[string]bool, stats *RepairStats) error {
	// Prune list entries pointing at deleted persons
	want := make(map[string]bool, len(p.Following))
	for _, id := range p.Following {
		if !alive[id] {
			if err := r.identity.RemoveFollowing(ctx, p.ID, id); err != nil {
				return err
			}
			atomic.AddInt64(&stats.ListEntriesPruned, 1)
			continue
		}
		want[id] = true
	}
	for _, id := range p.Subscribers {
		if !alive[id] {
			if err := r.identity.RemoveSubscriber(ctx, p.ID, id); err != nil {
				return err
			}
			atomic.AddInt64(&stats.ListEntriesPruned, 1)
		}
	}

	have, err := r.graph.Followees(ctx, p.ID)
	if err != nil {
		return err
	}
	haveSet := make(map[string]bool, len(have))
	for _, id := range have {
		haveSet[id] = true
	}

	for id := range want {
		if !haveSet[id] {
			if err := r.graph.CreateEdge(ctx, p.ID, id); err != nil {
				return err
			}
			atomic.AddInt64(&stats.EdgesCreated, 1)
		}
	}
	for _, id := range have {
		if !want[id] {
			if err := r.graph.DeleteEdge(ctx, p.ID, id); err != nil {
				return err
			}
			atomic.AddInt64(&stats.EdgesDeleted, 1)
		}
	}

	return nil
}
