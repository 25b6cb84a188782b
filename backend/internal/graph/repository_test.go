package graph

import (
	"context"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// These tests require a running Neo4j instance at bolt://localhost:7687
// Run with -short to skip them
func TestRepository_UpsertPerson(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	personID := "test-person-" + time.Now().Format("20060102150405")
	defer cleanupPerson(ctx, driver, personID)

	err = repo.UpsertPerson(ctx, personID, "Test Person", "test@example.com")
	if err != nil {
		t.Fatalf("UpsertPerson failed: %v", err)
	}

	// Upserting again must not create a second node
	err = repo.UpsertPerson(ctx, personID, "Renamed Person", "test@example.com")
	if err != nil {
		t.Fatalf("Second UpsertPerson failed: %v", err)
	}

	ids, err := repo.PersonIDs(ctx)
	if err != nil {
		t.Fatalf("PersonIDs failed: %v", err)
	}
	count := 0
	for _, id := range ids {
		if id == personID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one node for %s, found %d", personID, count)
	}
}

func TestRepository_EdgeLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	suffix := time.Now().Format("20060102150405")
	fromID := "test-from-" + suffix
	toID := "test-to-" + suffix
	defer cleanupPerson(ctx, driver, fromID)
	defer cleanupPerson(ctx, driver, toID)

	if err := repo.UpsertPerson(ctx, fromID, "From Person", "from@example.com"); err != nil {
		t.Fatalf("UpsertPerson failed: %v", err)
	}
	if err := repo.UpsertPerson(ctx, toID, "To Person", "to@example.com"); err != nil {
		t.Fatalf("UpsertPerson failed: %v", err)
	}

	exists, err := repo.EdgeExists(ctx, fromID, toID)
	if err != nil {
		t.Fatalf("EdgeExists failed: %v", err)
	}
	if exists {
		t.Fatal("Edge should not exist before creation")
	}

	if err := repo.CreateEdge(ctx, fromID, toID); err != nil {
		t.Fatalf("CreateEdge failed: %v", err)
	}

	exists, err = repo.EdgeExists(ctx, fromID, toID)
	if err != nil {
		t.Fatalf("EdgeExists failed: %v", err)
	}
	if !exists {
		t.Error("Edge missing after creation")
	}

	// Direction matters for existence checks
	reverse, err := repo.EdgeExists(ctx, toID, fromID)
	if err != nil {
		t.Fatalf("EdgeExists failed: %v", err)
	}
	if reverse {
		t.Error("Reverse edge should not exist")
	}

	followees, err := repo.Followees(ctx, fromID)
	if err != nil {
		t.Fatalf("Followees failed: %v", err)
	}
	if len(followees) != 1 || followees[0] != toID {
		t.Errorf("Expected followees [%s], got %v", toID, followees)
	}

	if err := repo.DeleteEdge(ctx, fromID, toID); err != nil {
		t.Fatalf("DeleteEdge failed: %v", err)
	}

	exists, err = repo.EdgeExists(ctx, fromID, toID)
	if err != nil {
		t.Fatalf("EdgeExists failed: %v", err)
	}
	if exists {
		t.Error("Edge still present after deletion")
	}

	// Deleting an absent edge is a no-op
	if err := repo.DeleteEdge(ctx, fromID, toID); err != nil {
		t.Errorf("DeleteEdge on absent edge failed: %v", err)
	}
}

func TestRepository_CreateEdge_MissingEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	personID := "test-lonely-" + time.Now().Format("20060102150405")
	defer cleanupPerson(ctx, driver, personID)

	if err := repo.UpsertPerson(ctx, personID, "Lonely Person", "lonely@example.com"); err != nil {
		t.Fatalf("UpsertPerson failed: %v", err)
	}

	err = repo.CreateEdge(ctx, personID, "does-not-exist")
	if err == nil {
		t.Error("Expected error when the target node is missing")
	}
}

func TestRepository_ShortestPath(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	suffix := time.Now().Format("20060102150405")
	ids := []string{"test-a-" + suffix, "test-b-" + suffix, "test-c-" + suffix}
	for _, id := range ids {
		defer cleanupPerson(ctx, driver, id)
		if err := repo.UpsertPerson(ctx, id, "Person "+id, id+"@example.com"); err != nil {
			t.Fatalf("UpsertPerson failed: %v", err)
		}
	}

	// a -> b, c -> b: the hop from b to c runs against the edge direction
	if err := repo.CreateEdge(ctx, ids[0], ids[1]); err != nil {
		t.Fatalf("CreateEdge failed: %v", err)
	}
	if err := repo.CreateEdge(ctx, ids[2], ids[1]); err != nil {
		t.Fatalf("CreateEdge failed: %v", err)
	}

	path, err := repo.ShortestPath(ctx, ids[0], ids[2])
	if err != nil {
		t.Fatalf("ShortestPath failed: %v", err)
	}
	if len(path) != 3 {
		t.Fatalf("Expected path of 3 nodes, got %d", len(path))
	}
	for i, want := range ids {
		if path[i].ID != want {
			t.Errorf("Path node %d: expected %s, got %s", i, want, path[i].ID)
		}
	}
}

func TestRepository_ShortestPath_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	suffix := time.Now().Format("20060102150405")
	fromID := "test-island-a-" + suffix
	toID := "test-island-b-" + suffix
	defer cleanupPerson(ctx, driver, fromID)
	defer cleanupPerson(ctx, driver, toID)

	if err := repo.UpsertPerson(ctx, fromID, "Island A", "a@example.com"); err != nil {
		t.Fatalf("UpsertPerson failed: %v", err)
	}
	if err := repo.UpsertPerson(ctx, toID, "Island B", "b@example.com"); err != nil {
		t.Fatalf("UpsertPerson failed: %v", err)
	}

	path, err := repo.ShortestPath(ctx, fromID, toID)
	if err != nil {
		t.Fatalf("ShortestPath failed: %v", err)
	}
	if path != nil {
		t.Errorf("Expected nil path for unreachable nodes, got %v", path)
	}
}

func TestRepository_DeletePerson(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	suffix := time.Now().Format("20060102150405")
	victimID := "test-victim-" + suffix
	otherID := "test-other-" + suffix
	defer cleanupPerson(ctx, driver, victimID)
	defer cleanupPerson(ctx, driver, otherID)

	if err := repo.UpsertPerson(ctx, victimID, "Victim", "victim@example.com"); err != nil {
		t.Fatalf("UpsertPerson failed: %v", err)
	}
	if err := repo.UpsertPerson(ctx, otherID, "Other", "other@example.com"); err != nil {
		t.Fatalf("UpsertPerson failed: %v", err)
	}
	if err := repo.CreateEdge(ctx, otherID, victimID); err != nil {
		t.Fatalf("CreateEdge failed: %v", err)
	}

	if err := repo.DeletePerson(ctx, victimID); err != nil {
		t.Fatalf("DeletePerson failed: %v", err)
	}

	followees, err := repo.Followees(ctx, otherID)
	if err != nil {
		t.Fatalf("Followees failed: %v", err)
	}
	if len(followees) != 0 {
		t.Errorf("Expected no followees after detach delete, got %v", followees)
	}

	// Deleting again is a no-op
	if err := repo.DeletePerson(ctx, victimID); err != nil {
		t.Errorf("DeletePerson on missing node failed: %v", err)
	}
}

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := "bolt://localhost:7687"
	user := "neo4j"
	password := "password"

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}

func cleanupPerson(ctx context.Context, driver neo4j.DriverWithContext, id string) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx, "MATCH (p:Person {id: $id}) DETACH DELETE p", map[string]interface{}{"id": id})
}
