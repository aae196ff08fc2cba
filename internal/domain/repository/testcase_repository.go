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

type TestCaseRepository interface {
	Create(ctx context.Context, base model.TestCaseBase) (*model.TestCase, error)
	Get(ctx context.Context, testCaseID string) (*model.TestCase, error)
	List(ctx context.Context, filter model.TestCaseFilterOptions) ([]model.TestCase, error)
	Count(ctx context.Context, filter model.TestCaseFilterOptions) (int64, error)
	Update(ctx context.Context, base model.TestCaseBase) (*model.TestCase, error)
	Delete(ctx context.Context, testCaseID string) (int64, error)
}

type mongoTestCaseRepository struct {
	db *mongo.Database
}

func NewMongoTestCaseRepository(db *mongo.Database) TestCaseRepository {
	return &mongoTestCaseRepository{db: db}
}

func (r *mongoTestCaseRepository) Create(ctx context.Context, base model.TestCaseBase) (*model.TestCase, error) {
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	testCase := &model.TestCase{
		TestCaseID: base.TestCaseID,
		InputFile:  base.InputFile,
		OutputFile: base.OutputFile,
		IsHidden:   base.IsHidden,
		Score:      base.Score,
	}
	res, err := r.db.Collection(colTestCases).InsertOne(ctx, testCase)
	if err != nil {
		return nil, wrapWriteErr("mongoTestCaseRepository.Create", err)
	}
	testCase.ID = res.InsertedID.(primitive.ObjectID)
	return testCase, nil
}

func (r *mongoTestCaseRepository) Get(ctx context.Context, testCaseID string) (*model.TestCase, error) {
	var testCase model.TestCase
	err := r.db.Collection(colTestCases).FindOne(ctx, bson.M{"testCaseId": testCaseID}).Decode(&testCase)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongoTestCaseRepository.Get: %w", err)
	}
	return &testCase, nil
}

func (r *mongoTestCaseRepository) compose(filter model.TestCaseFilterOptions) bson.D {
	q := newQuery()
	addIn(q, "testCaseId", filter.TestCaseIDs)
	q.eqBool("isHidden", filter.IsHidden)
	q.intRange("score", filter.Score)
	return q.filter()
}

func (r *mongoTestCaseRepository) List(ctx context.Context, filter model.TestCaseFilterOptions) ([]model.TestCase, error) {
	opts := findOpts(filter.ListOptions, bson.D{{Key: "testCaseId", Value: 1}})
	cursor, err := r.db.Collection(colTestCases).Find(ctx, r.compose(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("mongoTestCaseRepository.List: %w", err)
	}
	testCases := []model.TestCase{}
	if err := cursor.All(ctx, &testCases); err != nil {
		return nil, fmt.Errorf("mongoTestCaseRepository.List decode: %w", err)
	}
	return testCases, nil
}

func (r *mongoTestCaseRepository) Count(ctx context.Context, filter model.TestCaseFilterOptions) (int64, error) {
	n, err := r.db.Collection(colTestCases).CountDocuments(ctx, r.compose(filter))
	if err != nil {
		return 0, fmt.Errorf("mongoTestCaseRepository.Count: %w", err)
	}
	return n, nil
}

func (r *mongoTestCaseRepository) Update(ctx context.Context, base model.TestCaseBase) (*model.TestCase, error) {
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{
		"inputFile":  base.InputFile,
		"outputFile": base.OutputFile,
		"isHidden":   base.IsHidden,
		"score":      base.Score,
	}}
	after := options.After
	var testCase model.TestCase
	err := r.db.Collection(colTestCases).FindOneAndUpdate(ctx,
		bson.M{"testCaseId": base.TestCaseID}, update,
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&testCase)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongoTestCaseRepository.Update: %w", err)
	}
	return &testCase, nil
}

func (r *mongoTestCaseRepository) Delete(ctx context.Context, testCaseID string) (int64, error) {
	res, err := r.db.Collection(colTestCases).DeleteOne(ctx, bson.M{"testCaseId": testCaseID})
	if err != nil {
		return 0, fmt.Errorf("mongoTestCaseRepository.Delete: %w", err)
	}
	// the owning problem's testCases set is not touched; a dangling
	// reference is simply skipped at expansion time
	return res.DeletedCount, nil
}
