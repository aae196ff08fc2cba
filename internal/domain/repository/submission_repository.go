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

type SubmissionRepository interface {
	Create(ctx context.Context, base model.SubmissionBase) (*model.Submission, error)
	Get(ctx context.Context, submissionID string, include model.SubmissionInclude) (*model.Submission, error)
	List(ctx context.Context, filter model.SubmissionFilterOptions, asUser string, include model.SubmissionInclude) ([]model.Submission, error)
	Count(ctx context.Context, filter model.SubmissionFilterOptions, asUser string) (int64, error)
	Update(ctx context.Context, base model.SubmissionBase) (*model.Submission, error)
	Delete(ctx context.Context, submissionID string) (int64, error)
}

type mongoSubmissionRepository struct {
	db *mongo.Database
}

func NewMongoSubmissionRepository(db *mongo.Database) SubmissionRepository {
	return &mongoSubmissionRepository{db: db}
}

// buildResult re-resolves the denormalized failed-test-case pair; a
// dangling id aborts the enclosing transaction.
func (r *mongoSubmissionRepository) buildResult(sc mongo.SessionContext, base *model.SubmissionResultBase) (*model.SubmissionResult, error) {
	if base == nil {
		return nil, nil
	}
	result := &model.SubmissionResult{
		Score:        base.Score,
		RunTime:      base.RunTime,
		ActualOutput: base.ActualOutput,
		Log:          base.Log,
	}
	if base.FailedTestCaseID != "" {
		testCase, err := resolveTestCase(sc, r.db, base.FailedTestCaseID)
		if err != nil {
			return nil, err
		}
		result.FailedTestCase = testCase.ID
		result.FailedTestCaseID = testCase.TestCaseID
	}
	return result, nil
}

func (r *mongoSubmissionRepository) Create(ctx context.Context, base model.SubmissionBase) (*model.Submission, error) {
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	return withTxn(ctx, r.db, func(sc mongo.SessionContext) (*model.Submission, error) {
		author, err := resolveUser(sc, r.db, base.AuthorUsername)
		if err != nil {
			return nil, err
		}
		problem, err := resolveProblem(sc, r.db, base.ProblemID)
		if err != nil {
			return nil, err
		}
		submission := &model.Submission{
			SubmissionID:   base.SubmissionID,
			Author:         author.ID,
			AuthorUsername: author.Username,
			ProblemRef:     problem.ID,
			ProblemID:      problem.ProblemID,
			SourceFile:     base.SourceFile,
			Language:       base.Language,
			SubmissionTime: base.SubmissionTime,
			Status:         base.Status,
		}
		if base.ContestID != "" {
			contest, err := resolveContest(sc, r.db, base.ContestID)
			if err != nil {
				return nil, err
			}
			submission.ContestRef = &contest.ID
			submission.ContestID = contest.ContestID
		}
		if submission.Result, err = r.buildResult(sc, base.Result); err != nil {
			return nil, err
		}
		res, err := r.db.Collection(colSubmissions).InsertOne(sc, submission)
		if err != nil {
			return nil, wrapWriteErr("mongoSubmissionRepository.Create", err)
		}
		submission.ID = res.InsertedID.(primitive.ObjectID)
		return submission, nil
	})
}

// expand populates the requested relations with their heavy sub-fields
// stripped: a nested problem never carries test cases, a nested contest
// never carries problems, participants or announcements.
func (r *mongoSubmissionRepository) expand(ctx context.Context, s *model.Submission, include model.SubmissionInclude) error {
	s.Problem, s.Contest = nil, nil
	if include.Problem {
		var problem model.Problem
		err := r.db.Collection(colProblems).FindOne(ctx, bson.M{"_id": s.ProblemRef}).Decode(&problem)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("expand submission problem: %w", err)
		}
		if err == nil {
			problem.TestCases = nil
			s.Problem = &problem
		}
	}
	if include.Contest && s.ContestRef != nil {
		var contest model.Contest
		err := r.db.Collection(colContests).FindOne(ctx, bson.M{"_id": *s.ContestRef}).Decode(&contest)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("expand submission contest: %w", err)
		}
		if err == nil {
			contest.Problems, contest.Participants, contest.Announcements = nil, nil, nil
			s.Contest = &contest
		}
	}
	return nil
}

func (r *mongoSubmissionRepository) Get(ctx context.Context, submissionID string, include model.SubmissionInclude) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.Collection(colSubmissions).FindOne(ctx, bson.M{"submissionId": submissionID}).Decode(&submission)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongoSubmissionRepository.Get: %w", err)
	}
	if err := r.expand(ctx, &submission, include); err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *mongoSubmissionRepository) compose(filter model.SubmissionFilterOptions, asUser string) bson.D {
	q := newQuery()
	addIn(q, "submissionId", filter.SubmissionIDs)
	addIn(q, "authorUsername", filter.AuthorUsernames)
	addIn(q, "problemId", filter.ProblemIDs)
	addIn(q, "contestId", filter.ContestIDs)
	addIn(q, "language", filter.Languages)
	addIn(q, "status", filter.Statuses)
	q.timeRange("submissionTime", filter.SubmissionTime)
	q.authoredBy("authorUsername", asUser)
	return q.filter()
}

func (r *mongoSubmissionRepository) List(ctx context.Context, filter model.SubmissionFilterOptions, asUser string, include model.SubmissionInclude) ([]model.Submission, error) {
	opts := findOpts(filter.ListOptions, bson.D{{Key: "submissionTime", Value: -1}})
	cursor, err := r.db.Collection(colSubmissions).Find(ctx, r.compose(filter, asUser), opts)
	if err != nil {
		return nil, fmt.Errorf("mongoSubmissionRepository.List: %w", err)
	}
	submissions := []model.Submission{}
	if err := cursor.All(ctx, &submissions); err != nil {
		return nil, fmt.Errorf("mongoSubmissionRepository.List decode: %w", err)
	}
	err = expandAll(ctx, submissions, func(ctx context.Context, s *model.Submission) error {
		return r.expand(ctx, s, include)
	})
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *mongoSubmissionRepository) Count(ctx context.Context, filter model.SubmissionFilterOptions, asUser string) (int64, error) {
	n, err := r.db.Collection(colSubmissions).CountDocuments(ctx, r.compose(filter, asUser))
	if err != nil {
		return 0, fmt.Errorf("mongoSubmissionRepository.Count: %w", err)
	}
	return n, nil
}

func (r *mongoSubmissionRepository) Update(ctx context.Context, base model.SubmissionBase) (*model.Submission, error) {
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	return withTxn(ctx, r.db, func(sc mongo.SessionContext) (*model.Submission, error) {
		result, err := r.buildResult(sc, base.Result)
		if err != nil {
			return nil, err
		}
		// submissionId, authorUsername, problemId and contestId are
		// discarded from the patch
		set := bson.M{
			"sourceFile":     base.SourceFile,
			"language":       base.Language,
			"submissionTime": base.SubmissionTime,
			"status":         base.Status,
		}
		update := bson.M{"$set": set}
		if result != nil {
			set["result"] = result
		} else {
			update["$unset"] = bson.M{"result": ""}
		}
		after := options.After
		var submission model.Submission
		err = r.db.Collection(colSubmissions).FindOneAndUpdate(sc,
			bson.M{"submissionId": base.SubmissionID}, update,
			&options.FindOneAndUpdateOptions{ReturnDocument: &after},
		).Decode(&submission)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("mongoSubmissionRepository.Update: %w", err)
		}
		return &submission, nil
	})
}

func (r *mongoSubmissionRepository) Delete(ctx context.Context, submissionID string) (int64, error) {
	res, err := r.db.Collection(colSubmissions).DeleteOne(ctx, bson.M{"submissionId": submissionID})
	if err != nil {
		return 0, fmt.Errorf("mongoSubmissionRepository.Delete: %w", err)
	}
	return res.DeletedCount, nil
}
