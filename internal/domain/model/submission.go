package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubmissionStatus string

// Status transitions are driven by the external judge:
// Submitted -> InQueue -> Compiling -> {CE | Judging} ->
// {TLE | MLE | RuntimeError | WA | Accepted}.
// This layer validates membership only, never transition legality.
const (
	StatusSubmitted    SubmissionStatus = "Submitted"
	StatusInQueue      SubmissionStatus = "InQueue"
	StatusCompiling    SubmissionStatus = "Compiling"
	StatusJudging      SubmissionStatus = "Judging"
	StatusCE           SubmissionStatus = "CE"
	StatusTLE          SubmissionStatus = "TLE"
	StatusMLE          SubmissionStatus = "MLE"
	StatusRuntimeError SubmissionStatus = "RuntimeError"
	StatusWA           SubmissionStatus = "WA"
	StatusAccepted     SubmissionStatus = "Accepted"
)

type SubmissionResult struct {
	Score            int                `bson:"score" json:"score"`
	RunTime          int                `bson:"runTime" json:"runTime"`
	FailedTestCase   primitive.ObjectID `bson:"failedTestCase,omitempty" json:"-"`
	FailedTestCaseID string             `bson:"failedTestCaseId,omitempty" json:"failedTestCaseId,omitempty"`
	ActualOutput     string             `bson:"actualOutput,omitempty" json:"actualOutput,omitempty"`
	Log              string             `bson:"log,omitempty" json:"log,omitempty"`
}

type Submission struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SubmissionID   string             `bson:"submissionId" json:"submissionId"`
	Author         primitive.ObjectID `bson:"author" json:"-"`
	AuthorUsername string             `bson:"authorUsername" json:"authorUsername"`
	ProblemRef     primitive.ObjectID `bson:"problem" json:"-"`
	ProblemID      string             `bson:"problemId" json:"problemId"`

	// Contest is optional: submissions outside a contest carry neither field.
	ContestRef *primitive.ObjectID `bson:"contest,omitempty" json:"-"`
	ContestID  string              `bson:"contestId,omitempty" json:"contestId,omitempty"`

	SourceFile     string            `bson:"sourceFile" json:"sourceFile"`
	Language       Language          `bson:"language" json:"language"`
	SubmissionTime time.Time         `bson:"submissionTime" json:"submissionTime"`
	Status         SubmissionStatus  `bson:"status" json:"status"`
	Result         *SubmissionResult `bson:"result,omitempty" json:"result,omitempty"`

	Problem *Problem `bson:"-" json:"problem,omitempty"`
	Contest *Contest `bson:"-" json:"contest,omitempty"`
}

// SubmissionResultBase carries a result patch using the denormalized test
// case reference.
type SubmissionResultBase struct {
	Score            int    `json:"score" validate:"gte=0"`
	RunTime          int    `json:"runTime" validate:"gte=0"`
	FailedTestCaseID string `json:"failedTestCaseId,omitempty"`
	ActualOutput     string `json:"actualOutput,omitempty"`
	Log              string `json:"log,omitempty"`
}

// SubmissionBase is the write shape. SubmissionID, AuthorUsername,
// ProblemID and ContestID are immutable after creation.
type SubmissionBase struct {
	SubmissionID   string                `json:"submissionId" validate:"required"`
	AuthorUsername string                `json:"authorUsername" validate:"required"`
	ProblemID      string                `json:"problemId" validate:"required"`
	ContestID      string                `json:"contestId,omitempty"`
	SourceFile     string                `json:"sourceFile" validate:"required"`
	Language       Language              `json:"language" validate:"required,oneof=C Cpp Java Python3"`
	SubmissionTime time.Time             `json:"submissionTime"`
	Status         SubmissionStatus      `json:"status" validate:"required,oneof=Submitted InQueue Compiling Judging CE TLE MLE RuntimeError WA Accepted"`
	Result         *SubmissionResultBase `json:"result,omitempty"`
}

type SubmissionFilterOptions struct {
	SubmissionIDs   []string           `json:"submissionIds,omitempty"`
	AuthorUsernames []string           `json:"authorUsernames,omitempty"`
	ProblemIDs      []string           `json:"problemIds,omitempty"`
	ContestIDs      []string           `json:"contestIds,omitempty"`
	Languages       []Language         `json:"languages,omitempty"`
	Statuses        []SubmissionStatus `json:"statuses,omitempty"`
	SubmissionTime  *TimeRange         `json:"submissionTime,omitempty"`
	ListOptions
}

type SubmissionInclude struct {
	Problem bool `json:"problem"`
	Contest bool `json:"contest"`
}
