package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Announcement struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	AnnouncementID string             `bson:"announcementId" json:"announcementId"`
	OfContest      primitive.ObjectID `bson:"ofContest" json:"-"`
	OfContestID    string             `bson:"ofContestId" json:"ofContestId"`
	Timestamp      time.Time          `bson:"timestamp" json:"timestamp"`
	Subject        string             `bson:"subject" json:"subject"`
	Content        string             `bson:"content" json:"content"`
}

// AnnouncementBase is the write shape. AnnouncementID is immutable after
// creation; a changed OfContestID moves the announcement to that contest.
type AnnouncementBase struct {
	AnnouncementID string    `json:"announcementId" validate:"required"`
	OfContestID    string    `json:"ofContestId" validate:"required"`
	Timestamp      time.Time `json:"timestamp"`
	Subject        string    `json:"subject" validate:"required"`
	Content        string    `json:"content"`
}

func (b *AnnouncementBase) Normalize() {
	b.Subject = SanitizeText(b.Subject)
	b.Content = SanitizeText(b.Content)
}

type AnnouncementFilterOptions struct {
	AnnouncementIDs []string   `json:"announcementIds,omitempty"`
	OfContestIDs    []string   `json:"ofContestIds,omitempty"`
	Timestamp       *TimeRange `json:"timestamp,omitempty"`
	ListOptions
}
