package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jStore keeps the graph as (:User)-[:FOLLOWS]->(:User) edges. User
// nodes are created lazily by MERGE; existence is checked by the caller.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jStore(driver neo4j.DriverWithContext) *Neo4jStore {
	return &Neo4jStore{driver: driver}
}

// EnsureSchema creates the uniqueness constraint backing id lookups.
func (s *Neo4jStore) EnsureSchema(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`, nil)
		return nil, err
	})
	return err
}

func (s *Neo4jStore) Follow(ctx context.Context, followerID, followeeID string) (bool, error) {
	query := `
		MERGE (a:User {id: $follower})
		MERGE (b:User {id: $followee})
		MERGE (a)-[r:FOLLOWS]->(b)
		ON CREATE SET r.created_at = datetime()
	`
	return s.write(ctx, query, followerID, followeeID, func(c neo4j.Counters) bool {
		return c.RelationshipsCreated() > 0
	})
}

func (s *Neo4jStore) Unfollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	query := `
		MATCH (a:User {id: $follower})-[r:FOLLOWS]->(b:User {id: $followee})
		DELETE r
	`
	return s.write(ctx, query, followerID, followeeID, func(c neo4j.Counters) bool {
		return c.RelationshipsDeleted() > 0
	})
}

func (s *Neo4jStore) write(ctx context.Context, query, followerID, followeeID string, changed func(neo4j.Counters) bool) (bool, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"follower": followerID, "followee": followeeID})
		if err != nil {
			return false, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return false, err
		}
		return changed(summary.Counters()), nil
	})
	if err != nil {
		return false, fmt.Errorf("neo4j: %w", err)
	}
	return result.(bool), nil
}

func (s *Neo4jStore) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			OPTIONAL MATCH (a:User {id: $follower})-[r:FOLLOWS]->(b:User {id: $followee})
			RETURN count(r) > 0 AS following
		`
		res, err := tx.Run(ctx, query, map[string]any{"follower": followerID, "followee": followeeID})
		if err != nil {
			return false, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return false, err
		}
		following, _ := rec.Get("following")
		return following.(bool), nil
	})
	if err != nil {
		return false, fmt.Errorf("neo4j: %w", err)
	}
	return result.(bool), nil
}

func (s *Neo4jStore) Followers(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.StreamFollowers(ctx, userID, 500, func(batch []string) error {
		ids = append(ids, batch...)
		return nil
	})
	return ids, err
}

func (s *Neo4jStore) Following(ctx context.Context, userID string) ([]string, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (u:User {id: $userId})-[:FOLLOWS]->(f:User) RETURN f.id AS id`, map[string]any{"userId": userID})
		if err != nil {
			return nil, err
		}
		var ids []string
		for res.Next(ctx) {
			id, _ := res.Record().Get("id")
			ids = append(ids, id.(string))
		}
		return ids, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: %w", err)
	}
	return result.([]string), nil
}

func (s *Neo4jStore) Counts(ctx context.Context, userID string) (int64, int64, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (u:User {id: $userId})
			RETURN size([(u)<-[:FOLLOWS]-(f) | f]) AS followers,
			       size([(u)-[:FOLLOWS]->(g) | g]) AS following
		`
		res, err := tx.Run(ctx, query, map[string]any{"userId": userID})
		if err != nil {
			return nil, err
		}
		counts := [2]int64{}
		if res.Next(ctx) {
			rec := res.Record()
			followers, _ := rec.Get("followers")
			following, _ := rec.Get("following")
			counts[0], counts[1] = followers.(int64), following.(int64)
		}
		return counts, res.Err()
	})
	if err != nil {
		return 0, 0, fmt.Errorf("neo4j: %w", err)
	}
	counts := result.([2]int64)
	return counts[0], counts[1], nil
}

// StreamFollowers runs an auto-commit query and cuts the result into batches
// while it is still streaming, so a large audience is never held in memory.
func (s *Neo4jStore) StreamFollowers(ctx context.Context, userID string, batchSize int, yield func([]string) error) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	res, err := session.Run(ctx, `MATCH (u:User {id: $userId})<-[:FOLLOWS]-(f:User) RETURN f.id AS followerId`, map[string]any{"userId": userID})
	if err != nil {
		return fmt.Errorf("neo4j: %w", err)
	}

	if batchSize <= 0 {
		batchSize = 500
	}
	batch := make([]string, 0, batchSize)
	for res.Next(ctx) {
		id, _ := res.Record().Get("followerId")
		batch = append(batch, id.(string))

		if len(batch) >= batchSize {
			if err := yield(batch); err != nil {
				return err
			}
			batch = make([]string, 0, batchSize)
		}
	}
	if len(batch) > 0 {
		if err := yield(batch); err != nil {
			return err
		}
	}
	return res.Err()
}
