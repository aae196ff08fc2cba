package model

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Username    string             `bson:"username" json:"username"`
	DisplayName string             `bson:"displayName" json:"displayName"`
}

// UserBase is the write shape for users. Username is immutable after
// creation; updates identify the user by it and may only change the
// display name.
type UserBase struct {
	Username    string `json:"username" validate:"required,username"`
	DisplayName string `json:"displayName" validate:"required,min=1,max=64"`
}

func (b *UserBase) Normalize() {
	b.DisplayName = strings.TrimSpace(b.DisplayName)
}

type UserFilterOptions struct {
	Usernames    []string `json:"usernames,omitempty"`
	DisplayNames []string `json:"displayNames,omitempty"`
	ListOptions
}
