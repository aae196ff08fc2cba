package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContestFormat string

const (
	FormatIOI  ContestFormat = "IOI"
	FormatICPC ContestFormat = "ICPC"
)

// MinContestDuration is the shortest contest the platform accepts, in
// milliseconds.
const MinContestDuration = 300000

type Contest struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ContestID         string             `bson:"contestId" json:"contestId"`
	Organizer         primitive.ObjectID `bson:"organizer" json:"-"`
	OrganizerUsername string             `bson:"organizerUsername" json:"organizerUsername"`
	DisplayName       string             `bson:"displayName" json:"displayName"`
	Format            ContestFormat      `bson:"format" json:"format"`
	StartTime         time.Time          `bson:"startTime" json:"startTime"`
	Duration          int                `bson:"duration" json:"duration"`
	Description       string             `bson:"description" json:"description"`
	IsPublic          bool               `bson:"isPublic" json:"isPublic"`

	ProblemIDs     []primitive.ObjectID `bson:"problems" json:"-"`
	ParticipantIDs []primitive.ObjectID `bson:"participants" json:"-"`

	// Populated relations. Announcements is a reverse relation: the
	// contest document stores nothing, announcements point back here.
	Problems      []Problem      `bson:"-" json:"problems,omitempty"`
	Participants  []User         `bson:"-" json:"participants,omitempty"`
	Announcements []Announcement `bson:"-" json:"announcements,omitempty"`
}

// ContestBase is the write shape. ContestID and OrganizerUsername are
// immutable after creation.
type ContestBase struct {
	ContestID         string        `json:"contestId" validate:"required"`
	OrganizerUsername string        `json:"organizerUsername" validate:"required"`
	DisplayName       string        `json:"displayName" validate:"required,min=1,max=128"`
	Format            ContestFormat `json:"format" validate:"required,oneof=IOI ICPC"`
	StartTime         time.Time     `json:"startTime"`
	Duration          int           `json:"duration" validate:"gte=300000"`
	Description       string        `json:"description"`
	IsPublic          bool          `json:"isPublic"`
}

func (b *ContestBase) Normalize() {
	b.DisplayName = strings.TrimSpace(b.DisplayName)
	b.Description = SanitizeText(b.Description)
}

type ContestFilterOptions struct {
	ContestIDs         []string        `json:"contestIds,omitempty"`
	OrganizerUsernames []string        `json:"organizerUsernames,omitempty"`
	Formats            []ContestFormat `json:"formats,omitempty"`
	IsPublic           *bool           `json:"isPublic,omitempty"`
	StartTime          *TimeRange      `json:"startTime,omitempty"`
	ListOptions
}

type ContestInclude struct {
	Problems      bool `json:"problems"`
	Participants  bool `json:"participants"`
	Announcements bool `json:"announcements"`
}
