package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes backing every public identifier
// plus the lookup indexes the expanders and access filters lean on. Safe
// to call on every startup.
//
// The (ofUserId, method) pair on authentication details is deliberately
// NOT unique; the repository guards that invariant itself.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(col, field string) error {
		_, err := db.Collection(col).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("ensure unique index %s.%s: %w", col, field, err)
		}
		return nil
	}
	plain := func(col, field string) error {
		_, err := db.Collection(col).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
		})
		if err != nil {
			return fmt.Errorf("ensure index %s.%s: %w", col, field, err)
		}
		return nil
	}

	for _, idx := range []struct{ col, field string }{
		{colUsers, "username"},
		{colProblems, "problemId"},
		{colTestCases, "testCaseId"},
		{colContests, "contestId"},
		{colAnnouncements, "announcementId"},
		{colSubmissions, "submissionId"},
		{colCollections, "collectionId"},
	} {
		if err := unique(idx.col, idx.field); err != nil {
			return err
		}
	}

	for _, idx := range []struct{ col, field string }{
		{colAuthDetails, "ofUserId"},
		{colAnnouncements, "ofContest"},
		{colProblems, "authorUsername"},
		{colContests, "organizerUsername"},
		{colCollections, "ownerUsername"},
		{colSubmissions, "authorUsername"},
		{colSubmissions, "problemId"},
		{colSubmissions, "contestId"},
	} {
		if err := plain(idx.col, idx.field); err != nil {
			return err
		}
	}
	return nil
}
