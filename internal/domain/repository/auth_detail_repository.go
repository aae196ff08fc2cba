package repository

import (
	"context"
	"fmt"

	"codearena/internal/common"
	"codearena/internal/common/security"
	"codearena/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuthenticationDetailRepository interface {
	// Get returns nil when the user does not exist or holds no detail for
	// the method; it never raises for absence.
	Get(ctx context.Context, username string, method model.AuthenticationMethod) (*model.AuthenticationDetail, error)
	Add(ctx context.Context, base model.AuthenticationDetailBase) (*model.AuthenticationDetail, error)
	Update(ctx context.Context, base model.AuthenticationDetailBase) (*model.AuthenticationDetail, error)
	Delete(ctx context.Context, username string, method model.AuthenticationMethod) error
}

type mongoAuthDetailRepository struct {
	db     *mongo.Database
	hasher security.Hasher
}

func NewMongoAuthDetailRepository(db *mongo.Database, hasher security.Hasher) AuthenticationDetailRepository {
	return &mongoAuthDetailRepository{db: db, hasher: hasher}
}

// findForUser loads every detail owned by the user and scans for the
// requested method.
func (r *mongoAuthDetailRepository) findForUser(ctx context.Context, userID primitive.ObjectID, method model.AuthenticationMethod) (*model.AuthenticationDetail, error) {
	cursor, err := r.db.Collection(colAuthDetails).Find(ctx, bson.M{"ofUserId": userID})
	if err != nil {
		return nil, fmt.Errorf("find authentication details: %w", err)
	}
	var details []model.AuthenticationDetail
	if err := cursor.All(ctx, &details); err != nil {
		return nil, fmt.Errorf("decode authentication details: %w", err)
	}
	for i := range details {
		if details[i].Method == method {
			return &details[i], nil
		}
	}
	return nil, nil
}

func (r *mongoAuthDetailRepository) Get(ctx context.Context, username string, method model.AuthenticationMethod) (*model.AuthenticationDetail, error) {
	user, err := resolveUser(ctx, r.db, username)
	if err != nil {
		if _, missing := err.(*common.UserNotFoundError); missing {
			return nil, nil
		}
		return nil, err
	}
	return r.findForUser(ctx, user.ID, method)
}

func (r *mongoAuthDetailRepository) Add(ctx context.Context, base model.AuthenticationDetailBase) (*model.AuthenticationDetail, error) {
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	return withTxn(ctx, r.db, func(sc mongo.SessionContext) (*model.AuthenticationDetail, error) {
		user, err := resolveUser(sc, r.db, base.Username)
		if err != nil {
			return nil, err
		}
		// A user holds at most one detail per method; this check inside
		// the transaction is what enforces it, the index does not.
		existing, err := r.findForUser(sc, user.ID, base.Method)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%s credential already exists for user %q: %w",
				base.Method, base.Username, common.ErrConflict)
		}
		value := base.Value
		if base.Method == model.MethodPassword {
			if value, err = r.hasher.Hash(value); err != nil {
				return nil, fmt.Errorf("hash credential: %w", err)
			}
		}
		detail := &model.AuthenticationDetail{
			OfUserID: user.ID,
			Username: user.Username,
			Method:   base.Method,
			Value:    value,
		}
		res, err := r.db.Collection(colAuthDetails).InsertOne(sc, detail)
		if err != nil {
			return nil, wrapWriteErr("mongoAuthDetailRepository.Add", err)
		}
		detail.ID = res.InsertedID.(primitive.ObjectID)
		return detail, nil
	})
}

func (r *mongoAuthDetailRepository) Update(ctx context.Context, base model.AuthenticationDetailBase) (*model.AuthenticationDetail, error) {
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	return withTxn(ctx, r.db, func(sc mongo.SessionContext) (*model.AuthenticationDetail, error) {
		user, err := resolveUser(sc, r.db, base.Username)
		if err != nil {
			return nil, err
		}
		detail, err := r.findForUser(sc, user.ID, base.Method)
		if err != nil {
			return nil, err
		}
		if detail == nil {
			return nil, &common.AuthenticationDetailNotFoundError{Username: base.Username, Method: string(base.Method)}
		}
		value := base.Value
		// hash only when the value actually changed; callers echoing the
		// stored hash back must not get it double-hashed
		if base.Method == model.MethodPassword && value != detail.Value {
			if value, err = r.hasher.Hash(value); err != nil {
				return nil, fmt.Errorf("hash credential: %w", err)
			}
		}
		_, err = r.db.Collection(colAuthDetails).UpdateOne(sc,
			bson.M{"_id": detail.ID},
			bson.M{"$set": bson.M{"value": value}},
		)
		if err != nil {
			return nil, fmt.Errorf("mongoAuthDetailRepository.Update: %w", err)
		}
		detail.Value = value
		return detail, nil
	})
}

func (r *mongoAuthDetailRepository) Delete(ctx context.Context, username string, method model.AuthenticationMethod) error {
	_, err := withTxn(ctx, r.db, func(sc mongo.SessionContext) (struct{}, error) {
		user, err := resolveUser(sc, r.db, username)
		if err != nil {
			return struct{}{}, err
		}
		res, err := r.db.Collection(colAuthDetails).DeleteMany(sc, bson.M{
			"ofUserId": user.ID,
			"method":   method,
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("mongoAuthDetailRepository.Delete: %w", err)
		}
		if res.DeletedCount == 0 {
			return struct{}{}, &common.AuthenticationDetailNotFoundError{Username: username, Method: string(method)}
		}
		return struct{}{}, nil
	})
	return err
}
