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

type ProblemRepository interface {
	Create(ctx context.Context, base model.ProblemBase) (*model.Problem, error)
	Get(ctx context.Context, problemID string, include model.ProblemInclude) (*model.Problem, error)
	List(ctx context.Context, filter model.ProblemFilterOptions, asUser string, include model.ProblemInclude) ([]model.Problem, error)
	Count(ctx context.Context, filter model.ProblemFilterOptions, asUser string) (int64, error)
	Update(ctx context.Context, base model.ProblemBase) (*model.Problem, error)
	Delete(ctx context.Context, problemID string) (int64, error)

	AddTestCase(ctx context.Context, problemID, testCaseID string) (*model.Problem, error)
	RemoveTestCase(ctx context.Context, problemID, testCaseID string) (*model.Problem, error)
}

type mongoProblemRepository struct {
	db *mongo.Database
}

func NewMongoProblemRepository(db *mongo.Database) ProblemRepository {
	return &mongoProblemRepository{db: db}
}

func (r *mongoProblemRepository) Create(ctx context.Context, base model.ProblemBase) (*model.Problem, error) {
	base.Normalize()
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	return withTxn(ctx, r.db, func(sc mongo.SessionContext) (*model.Problem, error) {
		author, err := resolveUser(sc, r.db, base.AuthorUsername)
		if err != nil {
			return nil, err
		}
		problem := &model.Problem{
			ProblemID:      base.ProblemID,
			Author:         author.ID,
			AuthorUsername: author.Username,
			DisplayName:    base.DisplayName,
			CreationDate:   base.CreationDate,
			IsPublic:       base.IsPublic,
			TimeLimit:      base.TimeLimit,
			MemoryLimit:    base.MemoryLimit,
			InputSource:    base.InputSource,
			OutputSource:   base.OutputSource,
			Checker:        base.Checker,
			TestCaseIDs:    []primitive.ObjectID{},
		}
		res, err := r.db.Collection(colProblems).InsertOne(sc, problem)
		if err != nil {
			return nil, wrapWriteErr("mongoProblemRepository.Create", err)
		}
		problem.ID = res.InsertedID.(primitive.ObjectID)
		return problem, nil
	})
}

// expand populates the requested relations. Test cases keep the order of
// the stored reference array.
func (r *mongoProblemRepository) expand(ctx context.Context, p *model.Problem, include model.ProblemInclude) error {
	if !include.TestCases {
		p.TestCases = nil
		return nil
	}
	testCases, err := fetchOrdered(ctx, r.db.Collection(colTestCases), p.TestCaseIDs,
		func(tc *model.TestCase) primitive.ObjectID { return tc.ID })
	if err != nil {
		return err
	}
	p.TestCases = testCases
	return nil
}

func (r *mongoProblemRepository) Get(ctx context.Context, problemID string, include model.ProblemInclude) (*model.Problem, error) {
	var problem model.Problem
	err := r.db.Collection(colProblems).FindOne(ctx, bson.M{"problemId": problemID}).Decode(&problem)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongoProblemRepository.Get: %w", err)
	}
	if err := r.expand(ctx, &problem, include); err != nil {
		return nil, err
	}
	return &problem, nil
}

func (r *mongoProblemRepository) compose(filter model.ProblemFilterOptions, asUser string) bson.D {
	q := newQuery()
	addIn(q, "problemId", filter.ProblemIDs)
	addIn(q, "authorUsername", filter.AuthorUsernames)
	q.eqBool("isPublic", filter.IsPublic)
	q.timeRange("creationDate", filter.CreationDate)
	q.visibleTo("authorUsername", asUser)
	return q.filter()
}

func (r *mongoProblemRepository) List(ctx context.Context, filter model.ProblemFilterOptions, asUser string, include model.ProblemInclude) ([]model.Problem, error) {
	opts := findOpts(filter.ListOptions, bson.D{{Key: "creationDate", Value: -1}})
	cursor, err := r.db.Collection(colProblems).Find(ctx, r.compose(filter, asUser), opts)
	if err != nil {
		return nil, fmt.Errorf("mongoProblemRepository.List: %w", err)
	}
	problems := []model.Problem{}
	if err := cursor.All(ctx, &problems); err != nil {
		return nil, fmt.Errorf("mongoProblemRepository.List decode: %w", err)
	}
	err = expandAll(ctx, problems, func(ctx context.Context, p *model.Problem) error {
		return r.expand(ctx, p, include)
	})
	if err != nil {
		return nil, err
	}
	return problems, nil
}

func (r *mongoProblemRepository) Count(ctx context.Context, filter model.ProblemFilterOptions, asUser string) (int64, error) {
	n, err := r.db.Collection(colProblems).CountDocuments(ctx, r.compose(filter, asUser))
	if err != nil {
		return 0, fmt.Errorf("mongoProblemRepository.Count: %w", err)
	}
	return n, nil
}

func (r *mongoProblemRepository) Update(ctx context.Context, base model.ProblemBase) (*model.Problem, error) {
	base.Normalize()
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	// problemId, authorUsername and creationDate are discarded from the patch
	update := bson.M{"$set": bson.M{
		"displayName":  base.DisplayName,
		"isPublic":     base.IsPublic,
		"timeLimit":    base.TimeLimit,
		"memoryLimit":  base.MemoryLimit,
		"inputSource":  base.InputSource,
		"outputSource": base.OutputSource,
		"checker":      base.Checker,
	}}
	after := options.After
	var problem model.Problem
	err := r.db.Collection(colProblems).FindOneAndUpdate(ctx,
		bson.M{"problemId": base.ProblemID}, update,
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&problem)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongoProblemRepository.Update: %w", err)
	}
	return &problem, nil
}

func (r *mongoProblemRepository) Delete(ctx context.Context, problemID string) (int64, error) {
	res, err := r.db.Collection(colProblems).DeleteOne(ctx, bson.M{"problemId": problemID})
	if err != nil {
		return 0, fmt.Errorf("mongoProblemRepository.Delete: %w", err)
	}
	return res.DeletedCount, nil
}

// mutateTestCases runs the owner-first reference protocol: the problem is
// checked before the test case so problem-not-found wins when both are
// missing.
func (r *mongoProblemRepository) mutateTestCases(ctx context.Context, problemID, testCaseID, op string) (*model.Problem, error) {
	return withTxn(ctx, r.db, func(sc mongo.SessionContext) (*model.Problem, error) {
		problem, err := resolveProblem(sc, r.db, problemID)
		if err != nil {
			return nil, err
		}
		testCase, err := resolveTestCase(sc, r.db, testCaseID)
		if err != nil {
			return nil, err
		}
		after := options.After
		err = r.db.Collection(colProblems).FindOneAndUpdate(sc,
			bson.M{"_id": problem.ID},
			bson.M{op: bson.M{"testCases": testCase.ID}},
			&options.FindOneAndUpdateOptions{ReturnDocument: &after},
		).Decode(problem)
		if err != nil {
			return nil, fmt.Errorf("mongoProblemRepository.mutateTestCases: %w", err)
		}
		return problem, nil
	})
}

func (r *mongoProblemRepository) AddTestCase(ctx context.Context, problemID, testCaseID string) (*model.Problem, error) {
	return r.mutateTestCases(ctx, problemID, testCaseID, "$addToSet")
}

func (r *mongoProblemRepository) RemoveTestCase(ctx context.Context, problemID, testCaseID string) (*model.Problem, error) {
	return r.mutateTestCases(ctx, problemID, testCaseID, "$pull")
}
