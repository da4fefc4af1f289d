package repository

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
)

// Neo4jGraphRepo possède l'arête FOLLOWS. L'arête existe UNE seule fois :
// followers et following sont deux directions de lecture de la même relation,
// la symétrie de la v1 (deux tableaux en miroir) est donc structurelle.
type Neo4jGraphRepo struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jGraphRepo(driver neo4j.DriverWithContext) *Neo4jGraphRepo {
	return &Neo4jGraphRepo{driver: driver}
}

// EnsureSchema crée les index pour que les lookups par id soient O(1).
func (r *Neo4jGraphRepo) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`
		_, err := tx.Run(ctx, query, nil)
		return nil, err
	})
	return err
}

// ToggleRelation bascule l'arête dans UNE transaction d'écriture : le check
// et le flip ne peuvent pas s'interleaver avec un autre toggle de la même
// paire. DELETE absorbe l'état "présent", MERGE (idempotent) l'état "absent".
func (r *Neo4jGraphRepo) ToggleRelation(ctx context.Context, actorID, targetID string) (bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		params := map[string]any{"actorId": actorID, "targetId": targetID}

		// 1. Tentative de suppression : count(r) > 0 signifie que l'arête
		// existait, le toggle est un unfollow.
		del := `
			MATCH (a:User {id: $actorId})-[r:FOLLOWS]->(b:User {id: $targetId})
			DELETE r
			RETURN count(r) AS removed
		`
		res, err := tx.Run(ctx, del, params)
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		removed, _ := rec.Get("removed")
		if removed.(int64) > 0 {
			return false, nil
		}

		// 2. Arête absente : création idempotente (MERGE crée aussi les
		// noeuds au premier follow).
		merge := `
			MERGE (a:User {id: $actorId})
			MERGE (b:User {id: $targetId})
			MERGE (a)-[r:FOLLOWS]->(b)
			ON CREATE SET r.created_at = datetime()
		`
		if _, err := tx.Run(ctx, merge, params); err != nil {
			return nil, err
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (r *Neo4jGraphRepo) RelationStatus(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Une seule requête pour les deux sens.
		query := `
			MATCH (a:User {id: $actorId}), (b:User {id: $targetId})
			RETURN EXISTS((a)-[:FOLLOWS]->(b)) AS following,
			       EXISTS((b)-[:FOLLOWS]->(a)) AS followedBy
		`
		res, err := tx.Run(ctx, query, map[string]any{"actorId": actorID, "targetId": targetID})
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			rec := res.Record()
			following, _ := rec.Get("following")
			followedBy, _ := rec.Get("followedBy")
			return &domain.RelationStatus{
				IsFollowing:  following.(bool),
				IsFollowedBy: followedBy.(bool),
			}, nil
		}
		// Noeuds absents du graphe : aucun follow n'a jamais eu lieu.
		return &domain.RelationStatus{}, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.RelationStatus), nil
}

// Following renvoie l'authorSet des feeds.
func (r *Neo4jGraphRepo) Following(ctx context.Context, userID string) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `MATCH (u:User {id: $userId})-[:FOLLOWS]->(f:User) RETURN f.id AS followeeId`
		res, err := tx.Run(ctx, query, map[string]any{"userId": userID})
		if err != nil {
			return nil, err
		}

		var ids []string
		for res.Next(ctx) {
			id, _ := res.Record().Get("followeeId")
			ids = append(ids, id.(string))
		}
		return ids, res.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// StreamFollowers livre les abonnés par paquets via yield, en consommant le
// curseur natif de Neo4j plutôt qu'en matérialisant tout en RAM.
func (r *Neo4jGraphRepo) StreamFollowers(ctx context.Context, userID string, batchSize int, yield func([]string) error) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `MATCH (u:User {id: $userId})<-[:FOLLOWS]-(f:User) RETURN f.id AS followerId`
	res, err := session.Run(ctx, query, map[string]any{"userId": userID})
	if err != nil {
		return err
	}

	batch := make([]string, 0, batchSize)
	for res.Next(ctx) {
		id, _ := res.Record().Get("followerId")
		batch = append(batch, id.(string))

		if len(batch) >= batchSize {
			if err := yield(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := yield(batch); err != nil {
			return err
		}
	}
	return res.Err()
}
