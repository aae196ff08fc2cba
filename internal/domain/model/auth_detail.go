package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type AuthenticationMethod string

const (
	MethodPassword AuthenticationMethod = "Password"
)

// AuthenticationDetail is one credential record owned by a user. A user
// holds at most one detail per method. Password values are stored hashed.
type AuthenticationDetail struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"-"`
	OfUserID primitive.ObjectID   `bson:"ofUserId" json:"-"`
	Username string               `bson:"username" json:"username"`
	Method   AuthenticationMethod `bson:"method" json:"method"`
	Value    string               `bson:"value" json:"-"`
}

type AuthenticationDetailBase struct {
	Username string               `json:"username" validate:"required"`
	Method   AuthenticationMethod `json:"method" validate:"required,oneof=Password"`
	Value    string               `json:"value" validate:"required"`
}
