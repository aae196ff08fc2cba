package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// TestCase rows carry no back-reference to their problem; the owning
// problem's testCases set is the only link.
type TestCase struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	TestCaseID string             `bson:"testCaseId" json:"testCaseId"`
	InputFile  string             `bson:"inputFile" json:"inputFile"`
	OutputFile string             `bson:"outputFile" json:"outputFile"`
	IsHidden   bool               `bson:"isHidden" json:"isHidden"`
	Score      int                `bson:"score" json:"score"`
}

// TestCaseBase is the write shape. TestCaseID is immutable after creation.
type TestCaseBase struct {
	TestCaseID string `json:"testCaseId" validate:"required"`
	InputFile  string `json:"inputFile" validate:"required"`
	OutputFile string `json:"outputFile" validate:"required"`
	IsHidden   bool   `json:"isHidden"`
	Score      int    `json:"score" validate:"gte=0"`
}

type TestCaseFilterOptions struct {
	TestCaseIDs []string  `json:"testCaseIds,omitempty"`
	IsHidden    *bool     `json:"isHidden,omitempty"`
	Score       *IntRange `json:"score,omitempty"`
	ListOptions
}
