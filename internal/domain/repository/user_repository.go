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

type UserRepository interface {
	Create(ctx context.Context, base model.UserBase) (*model.User, error)
	Get(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, filter model.UserFilterOptions) ([]model.User, error)
	Count(ctx context.Context, filter model.UserFilterOptions) (int64, error)
	Update(ctx context.Context, base model.UserBase) (*model.User, error)
	Delete(ctx context.Context, username string) (int64, error)
}

type mongoUserRepository struct {
	db *mongo.Database
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{db: db}
}

func (r *mongoUserRepository) Create(ctx context.Context, base model.UserBase) (*model.User, error) {
	base.Normalize()
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	user := &model.User{
		Username:    base.Username,
		DisplayName: base.DisplayName,
	}
	res, err := r.db.Collection(colUsers).InsertOne(ctx, user)
	if err != nil {
		return nil, wrapWriteErr("mongoUserRepository.Create", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (r *mongoUserRepository) Get(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.Collection(colUsers).FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongoUserRepository.Get: %w", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) compose(filter model.UserFilterOptions) bson.D {
	q := newQuery()
	addIn(q, "username", filter.Usernames)
	addIn(q, "displayName", filter.DisplayNames)
	return q.filter()
}

func (r *mongoUserRepository) List(ctx context.Context, filter model.UserFilterOptions) ([]model.User, error) {
	opts := findOpts(filter.ListOptions, bson.D{{Key: "username", Value: 1}})
	cursor, err := r.db.Collection(colUsers).Find(ctx, r.compose(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("mongoUserRepository.List: %w", err)
	}
	users := []model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("mongoUserRepository.List decode: %w", err)
	}
	return users, nil
}

func (r *mongoUserRepository) Count(ctx context.Context, filter model.UserFilterOptions) (int64, error) {
	n, err := r.db.Collection(colUsers).CountDocuments(ctx, r.compose(filter))
	if err != nil {
		return 0, fmt.Errorf("mongoUserRepository.Count: %w", err)
	}
	return n, nil
}

func (r *mongoUserRepository) Update(ctx context.Context, base model.UserBase) (*model.User, error) {
	base.Normalize()
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	// username is the identity and never part of the patch
	update := bson.M{"$set": bson.M{"displayName": base.DisplayName}}
	after := options.After
	var user model.User
	err := r.db.Collection(colUsers).FindOneAndUpdate(ctx,
		bson.M{"username": base.Username}, update,
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongoUserRepository.Update: %w", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, username string) (int64, error) {
	res, err := r.db.Collection(colUsers).DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return 0, fmt.Errorf("mongoUserRepository.Delete: %w", err)
	}
	// no cascade: dependent documents keep their dangling references
	return res.DeletedCount, nil
}
