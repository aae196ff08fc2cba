package repository

import (
	"context"
	"errors"
	"fmt"

	"codearena/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CollectionRepository interface {
	Create(ctx context.Context, base model.CollectionBase) (*model.Collection, error)
	Get(ctx context.Context, collectionID string, include model.CollectionInclude) (*model.Collection, error)
	List(ctx context.Context, filter model.CollectionFilterOptions, asUser string, include model.CollectionInclude) ([]model.Collection, error)
	Count(ctx context.Context, filter model.CollectionFilterOptions, asUser string) (int64, error)
	Update(ctx context.Context, base model.CollectionBase) (*model.Collection, error)
	Delete(ctx context.Context, collectionID string) (int64, error)

	AddProblem(ctx context.Context, collectionID, problemID string) (*model.Collection, error)
	RemoveProblem(ctx context.Context, collectionID, problemID string) (*model.Collection, error)
}

type mongoCollectionRepository struct {
	db *mongo.Database
}

func NewMongoCollectionRepository(db *mongo.Database) CollectionRepository {
	return &mongoCollectionRepository{db: db}
}

func (r *mongoCollectionRepository) Create(ctx context.Context, base model.CollectionBase) (*model.Collection, error) {
	base.Normalize()
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	return withTxn(ctx, r.db, func(sc mongo.SessionContext) (*model.Collection, error) {
		owner, err := resolveUser(sc, r.db, base.OwnerUsername)
		if err != nil {
			return nil, err
		}
		collection := &model.Collection{
			CollectionID:  base.CollectionID,
			Owner:         owner.ID,
			OwnerUsername: owner.Username,
			DisplayName:   base.DisplayName,
			CreationDate:  base.CreationDate,
			Description:   base.Description,
			IsPublic:      base.IsPublic,
			ProblemIDs:    []primitive.ObjectID{},
		}
		res, err := r.db.Collection(colCollections).InsertOne(sc, collection)
		if err != nil {
			return nil, wrapWriteErr("mongoCollectionRepository.Create", err)
		}
		collection.ID = res.InsertedID.(primitive.ObjectID)
		return collection, nil
	})
}

func (r *mongoCollectionRepository) expand(ctx context.Context, c *model.Collection, include model.CollectionInclude) error {
	if !include.Problems {
		c.Problems = nil
		return nil
	}
	problems, err := fetchOrdered(ctx, r.db.Collection(colProblems), c.ProblemIDs,
		func(p *model.Problem) primitive.ObjectID { return p.ID })
	if err != nil {
		return err
	}
	c.Problems = problems
	return nil
}

func (r *mongoCollectionRepository) Get(ctx context.Context, collectionID string, include model.CollectionInclude) (*model.Collection, error) {
	var collection model.Collection
	err := r.db.Collection(colCollections).FindOne(ctx, bson.M{"collectionId": collectionID}).Decode(&collection)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongoCollectionRepository.Get: %w", err)
	}
	if err := r.expand(ctx, &collection, include); err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *mongoCollectionRepository) compose(filter model.CollectionFilterOptions, asUser string) bson.D {
	q := newQuery()
	addIn(q, "collectionId", filter.CollectionIDs)
	addIn(q, "ownerUsername", filter.OwnerUsernames)
	q.eqBool("isPublic", filter.IsPublic)
	q.timeRange("creationDate", filter.CreationDate)
	q.visibleTo("ownerUsername", asUser)
	return q.filter()
}

func (r *mongoCollectionRepository) List(ctx context.Context, filter model.CollectionFilterOptions, asUser string, include model.CollectionInclude) ([]model.Collection, error) {
	opts := findOpts(filter.ListOptions, bson.D{{Key: "displayName", Value: 1}})
	cursor, err := r.db.Collection(colCollections).Find(ctx, r.compose(filter, asUser), opts)
	if err != nil {
		return nil, fmt.Errorf("mongoCollectionRepository.List: %w", err)
	}
	collections := []model.Collection{}
	if err := cursor.All(ctx, &collections); err != nil {
		return nil, fmt.Errorf("mongoCollectionRepository.List decode: %w", err)
	}
	err = expandAll(ctx, collections, func(ctx context.Context, c *model.Collection) error {
		return r.expand(ctx, c, include)
	})
	if err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *mongoCollectionRepository) Count(ctx context.Context, filter model.CollectionFilterOptions, asUser string) (int64, error) {
	n, err := r.db.Collection(colCollections).CountDocuments(ctx, r.compose(filter, asUser))
	if err != nil {
		return 0, fmt.Errorf("mongoCollectionRepository.Count: %w", err)
	}
	return n, nil
}

func (r *mongoCollectionRepository) Update(ctx context.Context, base model.CollectionBase) (*model.Collection, error) {
	base.Normalize()
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	// collectionId and ownerUsername are discarded from the patch
	set := bson.M{
		"displayName": base.DisplayName,
		"description": base.Description,
		"isPublic":    base.IsPublic,
	}
	// creationDate is mutable here, unlike on problems; a zero time means
	// the caller left it out, so the stored value stands.
	if !base.CreationDate.IsZero() {
		set["creationDate"] = base.CreationDate
	}
	update := bson.M{"$set": set}
	after := options.After
	var collection model.Collection
	err := r.db.Collection(colCollections).FindOneAndUpdate(ctx,
		bson.M{"collectionId": base.CollectionID}, update,
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&collection)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongoCollectionRepository.Update: %w", err)
	}
	return &collection, nil
}

func (r *mongoCollectionRepository) Delete(ctx context.Context, collectionID string) (int64, error) {
	res, err := r.db.Collection(colCollections).DeleteOne(ctx, bson.M{"collectionId": collectionID})
	if err != nil {
		return 0, fmt.Errorf("mongoCollectionRepository.Delete: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *mongoCollectionRepository) mutateProblems(ctx context.Context, collectionID, problemID, op string) (*model.Collection, error) {
	return withTxn(ctx, r.db, func(sc mongo.SessionContext) (*model.Collection, error) {
		collection, err := resolveCollection(sc, r.db, collectionID)
		if err != nil {
			return nil, err
		}
		problem, err := resolveProblem(sc, r.db, problemID)
		if err != nil {
			return nil, err
		}
		after := options.After
		err = r.db.Collection(colCollections).FindOneAndUpdate(sc,
			bson.M{"_id": collection.ID},
			bson.M{op: bson.M{"problems": problem.ID}},
			&options.FindOneAndUpdateOptions{ReturnDocument: &after},
		).Decode(collection)
		if err != nil {
			return nil, fmt.Errorf("mongoCollectionRepository.mutateProblems: %w", err)
		}
		return collection, nil
	})
}

func (r *mongoCollectionRepository) AddProblem(ctx context.Context, collectionID, problemID string) (*model.Collection, error) {
	return r.mutateProblems(ctx, collectionID, problemID, "$addToSet")
}

func (r *mongoCollectionRepository) RemoveProblem(ctx context.Context, collectionID, problemID string) (*model.Collection, error) {
	return r.mutateProblems(ctx, collectionID, problemID, "$pull")
}
