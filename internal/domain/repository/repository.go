package repository

import (
	"context"
	"errors"
	"fmt"

	"codearena/internal/common"
	"codearena/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	colUsers         = "users"
	colAuthDetails   = "authentication_details"
	colProblems      = "problems"
	colTestCases     = "test_cases"
	colContests      = "contests"
	colAnnouncements = "announcements"
	colSubmissions   = "submissions"
	colCollections   = "collections"
)

// withTxn runs fn inside a single Mongo transaction. Any error returned by
// fn aborts the transaction, so a failed reference check can never leave a
// partial write behind.
func withTxn[T any](ctx context.Context, db *mongo.Database, fn func(sc mongo.SessionContext) (T, error)) (T, error) {
	var zero T
	session, err := db.Client().StartSession()
	if err != nil {
		return zero, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	res, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return fn(sc)
	})
	if err != nil {
		return zero, err
	}
	out, ok := res.(T)
	if !ok {
		return zero, nil
	}
	return out, nil
}

// The resolvers below turn a public identifier into the stored document,
// raising the entity's typed not-found error when it does not resolve.
// Write paths call them inside transactions for their reference checks.

func resolveUser(ctx context.Context, db *mongo.Database, username string) (*model.User, error) {
	var u model.User
	err := db.Collection(colUsers).FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &common.UserNotFoundError{Username: username}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve user %q: %w", username, err)
	}
	return &u, nil
}

func resolveProblem(ctx context.Context, db *mongo.Database, problemID string) (*model.Problem, error) {
	var p model.Problem
	err := db.Collection(colProblems).FindOne(ctx, bson.M{"problemId": problemID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &common.ProblemNotFoundError{ProblemID: problemID}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve problem %q: %w", problemID, err)
	}
	return &p, nil
}

func resolveTestCase(ctx context.Context, db *mongo.Database, testCaseID string) (*model.TestCase, error) {
	var tc model.TestCase
	err := db.Collection(colTestCases).FindOne(ctx, bson.M{"testCaseId": testCaseID}).Decode(&tc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &common.TestCaseNotFoundError{TestCaseID: testCaseID}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve test case %q: %w", testCaseID, err)
	}
	return &tc, nil
}

func resolveContest(ctx context.Context, db *mongo.Database, contestID string) (*model.Contest, error) {
	var c model.Contest
	err := db.Collection(colContests).FindOne(ctx, bson.M{"contestId": contestID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &common.ContestNotFoundError{ContestID: contestID}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve contest %q: %w", contestID, err)
	}
	return &c, nil
}

func resolveCollection(ctx context.Context, db *mongo.Database, collectionID string) (*model.Collection, error) {
	var c model.Collection
	err := db.Collection(colCollections).FindOne(ctx, bson.M{"collectionId": collectionID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &common.CollectionNotFoundError{CollectionID: collectionID}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve collection %q: %w", collectionID, err)
	}
	return &c, nil
}

// wrapWriteErr converts a duplicate-key violation on a unique index into
// the conflict kind so callers never mistake it for a missing reference.
func wrapWriteErr(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: duplicate identifier: %w", op, common.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
