package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Collection struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CollectionID  string             `bson:"collectionId" json:"collectionId"`
	Owner         primitive.ObjectID `bson:"owner" json:"-"`
	OwnerUsername string             `bson:"ownerUsername" json:"ownerUsername"`
	DisplayName   string             `bson:"displayName" json:"displayName"`
	CreationDate  time.Time          `bson:"creationDate" json:"creationDate"`
	Description   string             `bson:"description" json:"description"`
	IsPublic      bool               `bson:"isPublic" json:"isPublic"`

	ProblemIDs []primitive.ObjectID `bson:"problems" json:"-"`
	Problems   []Problem            `bson:"-" json:"problems,omitempty"`
}

// CollectionBase is the write shape. CollectionID and OwnerUsername are
// immutable after creation.
type CollectionBase struct {
	CollectionID  string    `json:"collectionId" validate:"required"`
	OwnerUsername string    `json:"ownerUsername" validate:"required"`
	DisplayName   string    `json:"displayName" validate:"required,min=1,max=128"`
	CreationDate  time.Time `json:"creationDate"`
	Description   string    `json:"description"`
	IsPublic      bool      `json:"isPublic"`
}

func (b *CollectionBase) Normalize() {
	b.DisplayName = strings.TrimSpace(b.DisplayName)
	b.Description = SanitizeText(b.Description)
}

type CollectionFilterOptions struct {
	CollectionIDs  []string   `json:"collectionIds,omitempty"`
	OwnerUsernames []string   `json:"ownerUsernames,omitempty"`
	IsPublic       *bool      `json:"isPublic,omitempty"`
	CreationDate   *TimeRange `json:"creationDate,omitempty"`
	ListOptions
}

type CollectionInclude struct {
	Problems bool `json:"problems"`
}
