package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SourceStdio is the sentinel meaning a program reads/writes the standard
// streams instead of a named file.
const SourceStdio = "stdio"

type Checker string

const (
	CheckerExact  Checker = "exact"
	CheckerTokens Checker = "tokens"
	CheckerFloats Checker = "floats"
)

// IsBuiltin reports whether c names a built-in checker. Any other value is
// taken as a custom-checker file name.
func (c Checker) IsBuiltin() bool {
	switch c {
	case CheckerExact, CheckerTokens, CheckerFloats:
		return true
	}
	return false
}

type Problem struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ProblemID      string             `bson:"problemId" json:"problemId"`
	Author         primitive.ObjectID `bson:"author" json:"-"`
	AuthorUsername string             `bson:"authorUsername" json:"authorUsername"`
	DisplayName    string             `bson:"displayName" json:"displayName"`
	CreationDate   time.Time          `bson:"creationDate" json:"creationDate"`
	IsPublic       bool               `bson:"isPublic" json:"isPublic"`
	TimeLimit      int                `bson:"timeLimit" json:"timeLimit"`
	MemoryLimit    int                `bson:"memoryLimit" json:"memoryLimit"`
	InputSource    string             `bson:"inputSource" json:"inputSource"`
	OutputSource   string             `bson:"outputSource" json:"outputSource"`
	Checker        Checker            `bson:"checker" json:"checker"`

	// TestCaseIDs is the stored set of references; TestCases is populated
	// only when the caller asks for the relation.
	TestCaseIDs []primitive.ObjectID `bson:"testCases" json:"-"`
	TestCases   []TestCase           `bson:"-" json:"testCases,omitempty"`
}

// ProblemBase is the write shape. ProblemID, AuthorUsername and
// CreationDate are immutable after creation.
type ProblemBase struct {
	ProblemID      string    `json:"problemId" validate:"required"`
	AuthorUsername string    `json:"authorUsername" validate:"required"`
	DisplayName    string    `json:"displayName" validate:"required,min=1,max=128"`
	CreationDate   time.Time `json:"creationDate"`
	IsPublic       bool      `json:"isPublic"`
	TimeLimit      int       `json:"timeLimit" validate:"gte=100"`
	MemoryLimit    int       `json:"memoryLimit" validate:"gte=16"`
	InputSource    string    `json:"inputSource" validate:"required"`
	OutputSource   string    `json:"outputSource" validate:"required"`
	Checker        Checker   `json:"checker" validate:"required"`
}

func (b *ProblemBase) Normalize() {
	b.DisplayName = strings.TrimSpace(b.DisplayName)
}

type ProblemFilterOptions struct {
	ProblemIDs      []string   `json:"problemIds,omitempty"`
	AuthorUsernames []string   `json:"authorUsernames,omitempty"`
	IsPublic        *bool      `json:"isPublic,omitempty"`
	CreationDate    *TimeRange `json:"creationDate,omitempty"`
	ListOptions
}

type ProblemInclude struct {
	TestCases bool `json:"testCases"`
}
