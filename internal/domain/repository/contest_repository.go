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

type ContestRepository interface {
	Create(ctx context.Context, base model.ContestBase) (*model.Contest, error)
	Get(ctx context.Context, contestID string, include model.ContestInclude) (*model.Contest, error)
	List(ctx context.Context, filter model.ContestFilterOptions, asUser string, include model.ContestInclude) ([]model.Contest, error)
	Count(ctx context.Context, filter model.ContestFilterOptions, asUser string) (int64, error)
	Update(ctx context.Context, base model.ContestBase) (*model.Contest, error)
	Delete(ctx context.Context, contestID string) (int64, error)

	AddProblem(ctx context.Context, contestID, problemID string) (*model.Contest, error)
	RemoveProblem(ctx context.Context, contestID, problemID string) (*model.Contest, error)
	AddParticipant(ctx context.Context, contestID, username string) (*model.Contest, error)
	RemoveParticipant(ctx context.Context, contestID, username string) (*model.Contest, error)
}

type mongoContestRepository struct {
	db *mongo.Database
}

func NewMongoContestRepository(db *mongo.Database) ContestRepository {
	return &mongoContestRepository{db: db}
}

func (r *mongoContestRepository) Create(ctx context.Context, base model.ContestBase) (*model.Contest, error) {
	base.Normalize()
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	return withTxn(ctx, r.db, func(sc mongo.SessionContext) (*model.Contest, error) {
		organizer, err := resolveUser(sc, r.db, base.OrganizerUsername)
		if err != nil {
			return nil, err
		}
		contest := &model.Contest{
			ContestID:         base.ContestID,
			Organizer:         organizer.ID,
			OrganizerUsername: organizer.Username,
			DisplayName:       base.DisplayName,
			Format:            base.Format,
			StartTime:         base.StartTime,
			Duration:          base.Duration,
			Description:       base.Description,
			IsPublic:          base.IsPublic,
			ProblemIDs:        []primitive.ObjectID{},
			ParticipantIDs:    []primitive.ObjectID{},
		}
		res, err := r.db.Collection(colContests).InsertOne(sc, contest)
		if err != nil {
			return nil, wrapWriteErr("mongoContestRepository.Create", err)
		}
		contest.ID = res.InsertedID.(primitive.ObjectID)
		return contest, nil
	})
}

// expand populates the requested relations only; the rest stay nil so
// they vanish from the serialized shape. Nested problems never carry
// their test cases.
func (r *mongoContestRepository) expand(ctx context.Context, c *model.Contest, include model.ContestInclude) error {
	c.Problems, c.Participants, c.Announcements = nil, nil, nil
	if include.Problems {
		problems, err := fetchOrdered(ctx, r.db.Collection(colProblems), c.ProblemIDs,
			func(p *model.Problem) primitive.ObjectID { return p.ID })
		if err != nil {
			return err
		}
		c.Problems = problems
	}
	if include.Participants {
		participants, err := fetchOrdered(ctx, r.db.Collection(colUsers), c.ParticipantIDs,
			func(u *model.User) primitive.ObjectID { return u.ID })
		if err != nil {
			return err
		}
		c.Participants = participants
	}
	if include.Announcements {
		// reverse relation: announcements reference the contest
		cursor, err := r.db.Collection(colAnnouncements).Find(ctx,
			bson.M{"ofContest": c.ID},
			options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
		)
		if err != nil {
			return fmt.Errorf("fetch contest announcements: %w", err)
		}
		announcements := []model.Announcement{}
		if err := cursor.All(ctx, &announcements); err != nil {
			return fmt.Errorf("decode contest announcements: %w", err)
		}
		c.Announcements = announcements
	}
	return nil
}

func (r *mongoContestRepository) Get(ctx context.Context, contestID string, include model.ContestInclude) (*model.Contest, error) {
	var contest model.Contest
	err := r.db.Collection(colContests).FindOne(ctx, bson.M{"contestId": contestID}).Decode(&contest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongoContestRepository.Get: %w", err)
	}
	if err := r.expand(ctx, &contest, include); err != nil {
		return nil, err
	}
	return &contest, nil
}

func (r *mongoContestRepository) compose(filter model.ContestFilterOptions, asUser string) bson.D {
	q := newQuery()
	addIn(q, "contestId", filter.ContestIDs)
	addIn(q, "organizerUsername", filter.OrganizerUsernames)
	addIn(q, "format", filter.Formats)
	q.eqBool("isPublic", filter.IsPublic)
	q.timeRange("startTime", filter.StartTime)
	q.visibleTo("organizerUsername", asUser)
	return q.filter()
}

func (r *mongoContestRepository) List(ctx context.Context, filter model.ContestFilterOptions, asUser string, include model.ContestInclude) ([]model.Contest, error) {
	opts := findOpts(filter.ListOptions, bson.D{{Key: "startTime", Value: -1}})
	cursor, err := r.db.Collection(colContests).Find(ctx, r.compose(filter, asUser), opts)
	if err != nil {
		return nil, fmt.Errorf("mongoContestRepository.List: %w", err)
	}
	contests := []model.Contest{}
	if err := cursor.All(ctx, &contests); err != nil {
		return nil, fmt.Errorf("mongoContestRepository.List decode: %w", err)
	}
	err = expandAll(ctx, contests, func(ctx context.Context, c *model.Contest) error {
		return r.expand(ctx, c, include)
	})
	if err != nil {
		return nil, err
	}
	return contests, nil
}

func (r *mongoContestRepository) Count(ctx context.Context, filter model.ContestFilterOptions, asUser string) (int64, error) {
	n, err := r.db.Collection(colContests).CountDocuments(ctx, r.compose(filter, asUser))
	if err != nil {
		return 0, fmt.Errorf("mongoContestRepository.Count: %w", err)
	}
	return n, nil
}

func (r *mongoContestRepository) Update(ctx context.Context, base model.ContestBase) (*model.Contest, error) {
	base.Normalize()
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	// contestId and organizerUsername are discarded from the patch
	update := bson.M{"$set": bson.M{
		"displayName": base.DisplayName,
		"format":      base.Format,
		"startTime":   base.StartTime,
		"duration":    base.Duration,
		"description": base.Description,
		"isPublic":    base.IsPublic,
	}}
	after := options.After
	var contest model.Contest
	err := r.db.Collection(colContests).FindOneAndUpdate(ctx,
		bson.M{"contestId": base.ContestID}, update,
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&contest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongoContestRepository.Update: %w", err)
	}
	return &contest, nil
}

func (r *mongoContestRepository) Delete(ctx context.Context, contestID string) (int64, error) {
	res, err := r.db.Collection(colContests).DeleteOne(ctx, bson.M{"contestId": contestID})
	if err != nil {
		return 0, fmt.Errorf("mongoContestRepository.Delete: %w", err)
	}
	// announcements and submissions keep their dangling contest references
	return res.DeletedCount, nil
}

// mutateSet applies $addToSet/$pull after the owner-first reference
// protocol: contest-not-found takes precedence when both documents are
// missing.
func (r *mongoContestRepository) mutateSet(ctx context.Context, contestID, field, op string, resolveRef func(sc mongo.SessionContext) (primitive.ObjectID, error)) (*model.Contest, error) {
	return withTxn(ctx, r.db, func(sc mongo.SessionContext) (*model.Contest, error) {
		contest, err := resolveContest(sc, r.db, contestID)
		if err != nil {
			return nil, err
		}
		refID, err := resolveRef(sc)
		if err != nil {
			return nil, err
		}
		after := options.After
		err = r.db.Collection(colContests).FindOneAndUpdate(sc,
			bson.M{"_id": contest.ID},
			bson.M{op: bson.M{field: refID}},
			&options.FindOneAndUpdateOptions{ReturnDocument: &after},
		).Decode(contest)
		if err != nil {
			return nil, fmt.Errorf("mongoContestRepository.mutateSet: %w", err)
		}
		return contest, nil
	})
}

func (r *mongoContestRepository) AddProblem(ctx context.Context, contestID, problemID string) (*model.Contest, error) {
	return r.mutateSet(ctx, contestID, "problems", "$addToSet", func(sc mongo.SessionContext) (primitive.ObjectID, error) {
		problem, err := resolveProblem(sc, r.db, problemID)
		if err != nil {
			return primitive.NilObjectID, err
		}
		return problem.ID, nil
	})
}

func (r *mongoContestRepository) RemoveProblem(ctx context.Context, contestID, problemID string) (*model.Contest, error) {
	return r.mutateSet(ctx, contestID, "problems", "$pull", func(sc mongo.SessionContext) (primitive.ObjectID, error) {
		problem, err := resolveProblem(sc, r.db, problemID)
		if err != nil {
			return primitive.NilObjectID, err
		}
		return problem.ID, nil
	})
}

func (r *mongoContestRepository) AddParticipant(ctx context.Context, contestID, username string) (*model.Contest, error) {
	return r.mutateSet(ctx, contestID, "participants", "$addToSet", func(sc mongo.SessionContext) (primitive.ObjectID, error) {
		user, err := resolveUser(sc, r.db, username)
		if err != nil {
			return primitive.NilObjectID, err
		}
		return user.ID, nil
	})
}

func (r *mongoContestRepository) RemoveParticipant(ctx context.Context, contestID, username string) (*model.Contest, error) {
	return r.mutateSet(ctx, contestID, "participants", "$pull", func(sc mongo.SessionContext) (primitive.ObjectID, error) {
		user, err := resolveUser(sc, r.db, username)
		if err != nil {
			return primitive.NilObjectID, err
		}
		return user.ID, nil
	})
}
