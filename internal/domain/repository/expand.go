package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// fetchOrdered resolves a stored reference array into documents, keeping
// the array's order. References that no longer resolve are skipped, which
// is how dangling references left by non-cascading deletes surface.
func fetchOrdered[T any](ctx context.Context, col *mongo.Collection, ids []primitive.ObjectID, idOf func(*T) primitive.ObjectID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	cursor, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("fetch %s references: %w", col.Name(), err)
	}
	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s references: %w", col.Name(), err)
	}
	byID := make(map[primitive.ObjectID]*T, len(docs))
	for i := range docs {
		byID[idOf(&docs[i])] = &docs[i]
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}

// expandAll expands list items concurrently; each item is independent and
// the slice order chosen by the query is preserved.
func expandAll[T any](ctx context.Context, items []T, expand func(ctx context.Context, item *T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range items {
		item := &items[i]
		g.Go(func() error {
			return expand(gctx, item)
		})
	}
	return g.Wait()
}
