package repository

import (
	"context"
	"errors"
	"fmt"

	"codearena/internal/common"
	"codearena/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AnnouncementRepository differs from the sibling repositories on one
// point: update and delete raise AnnouncementNotFoundError when the target
// itself is missing instead of signaling absence by value.
type AnnouncementRepository interface {
	Create(ctx context.Context, base model.AnnouncementBase) (*model.Announcement, error)
	Get(ctx context.Context, announcementID string) (*model.Announcement, error)
	List(ctx context.Context, filter model.AnnouncementFilterOptions) ([]model.Announcement, error)
	Count(ctx context.Context, filter model.AnnouncementFilterOptions) (int64, error)
	Update(ctx context.Context, base model.AnnouncementBase) (*model.Announcement, error)
	Delete(ctx context.Context, announcementID string) error
}

type mongoAnnouncementRepository struct {
	db *mongo.Database
}

func NewMongoAnnouncementRepository(db *mongo.Database) AnnouncementRepository {
	return &mongoAnnouncementRepository{db: db}
}

func (r *mongoAnnouncementRepository) Create(ctx context.Context, base model.AnnouncementBase) (*model.Announcement, error) {
	base.Normalize()
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	return withTxn(ctx, r.db, func(sc mongo.SessionContext) (*model.Announcement, error) {
		contest, err := resolveContest(sc, r.db, base.OfContestID)
		if err != nil {
			return nil, err
		}
		announcement := &model.Announcement{
			AnnouncementID: base.AnnouncementID,
			OfContest:      contest.ID,
			OfContestID:    contest.ContestID,
			Timestamp:      base.Timestamp,
			Subject:        base.Subject,
			Content:        base.Content,
		}
		res, err := r.db.Collection(colAnnouncements).InsertOne(sc, announcement)
		if err != nil {
			return nil, wrapWriteErr("mongoAnnouncementRepository.Create", err)
		}
		announcement.ID = res.InsertedID.(primitive.ObjectID)
		return announcement, nil
	})
}

func (r *mongoAnnouncementRepository) Get(ctx context.Context, announcementID string) (*model.Announcement, error) {
	var announcement model.Announcement
	err := r.db.Collection(colAnnouncements).FindOne(ctx, bson.M{"announcementId": announcementID}).Decode(&announcement)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongoAnnouncementRepository.Get: %w", err)
	}
	return &announcement, nil
}

func (r *mongoAnnouncementRepository) compose(filter model.AnnouncementFilterOptions) bson.D {
	q := newQuery()
	addIn(q, "announcementId", filter.AnnouncementIDs)
	addIn(q, "ofContestId", filter.OfContestIDs)
	q.timeRange("timestamp", filter.Timestamp)
	return q.filter()
}

func (r *mongoAnnouncementRepository) List(ctx context.Context, filter model.AnnouncementFilterOptions) ([]model.Announcement, error) {
	opts := findOpts(filter.ListOptions, bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.db.Collection(colAnnouncements).Find(ctx, r.compose(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("mongoAnnouncementRepository.List: %w", err)
	}
	announcements := []model.Announcement{}
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, fmt.Errorf("mongoAnnouncementRepository.List decode: %w", err)
	}
	return announcements, nil
}

func (r *mongoAnnouncementRepository) Count(ctx context.Context, filter model.AnnouncementFilterOptions) (int64, error) {
	n, err := r.db.Collection(colAnnouncements).CountDocuments(ctx, r.compose(filter))
	if err != nil {
		return 0, fmt.Errorf("mongoAnnouncementRepository.Count: %w", err)
	}
	return n, nil
}

func (r *mongoAnnouncementRepository) Update(ctx context.Context, base model.AnnouncementBase) (*model.Announcement, error) {
	base.Normalize()
	if err := model.Validate(&base); err != nil {
		return nil, err
	}
	return withTxn(ctx, r.db, func(sc mongo.SessionContext) (*model.Announcement, error) {
		var current model.Announcement
		err := r.db.Collection(colAnnouncements).FindOne(sc, bson.M{"announcementId": base.AnnouncementID}).Decode(&current)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &common.AnnouncementNotFoundError{AnnouncementID: base.AnnouncementID}
		}
		if err != nil {
			return nil, fmt.Errorf("mongoAnnouncementRepository.Update: %w", err)
		}

		set := bson.M{
			"timestamp": base.Timestamp,
			"subject":   base.Subject,
			"content":   base.Content,
		}
		// moving an announcement re-resolves the denormalized contest pair
		if base.OfContestID != current.OfContestID {
			contest, err := resolveContest(sc, r.db, base.OfContestID)
			if err != nil {
				return nil, err
			}
			set["ofContest"] = contest.ID
			set["ofContestId"] = contest.ContestID
		}
		_, err = r.db.Collection(colAnnouncements).UpdateOne(sc,
			bson.M{"_id": current.ID}, bson.M{"$set": set})
		if err != nil {
			return nil, fmt.Errorf("mongoAnnouncementRepository.Update: %w", err)
		}
		var updated model.Announcement
		if err := r.db.Collection(colAnnouncements).FindOne(sc, bson.M{"_id": current.ID}).Decode(&updated); err != nil {
			return nil, fmt.Errorf("mongoAnnouncementRepository.Update reload: %w", err)
		}
		return &updated, nil
	})
}

func (r *mongoAnnouncementRepository) Delete(ctx context.Context, announcementID string) error {
	res, err := r.db.Collection(colAnnouncements).DeleteOne(ctx, bson.M{"announcementId": announcementID})
	if err != nil {
		return fmt.Errorf("mongoAnnouncementRepository.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return &common.AnnouncementNotFoundError{AnnouncementID: announcementID}
	}
	return nil
}
