package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"codearena/internal/common"
	"codearena/internal/common/security"
	"codearena/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// testDB connects to the Mongo instance named by TEST_MONGO_URI (it must
// be a replica set, transactions need one) and hands back a throwaway
// database that is dropped on cleanup.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database(fmt.Sprintf("codearena_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func seedUser(t *testing.T, repo UserRepository, username string) *model.User {
	t.Helper()
	u, err := repo.Create(context.Background(), model.UserBase{Username: username, DisplayName: "User " + username})
	require.NoError(t, err)
	return u
}

func seedProblem(t *testing.T, repo ProblemRepository, problemID, author string, public bool) *model.Problem {
	t.Helper()
	p, err := repo.Create(context.Background(), model.ProblemBase{
		ProblemID:      problemID,
		AuthorUsername: author,
		DisplayName:    "Problem " + problemID,
		CreationDate:   time.Now().UTC(),
		IsPublic:       public,
		TimeLimit:      1000,
		MemoryLimit:    256,
		InputSource:    model.SourceStdio,
		OutputSource:   model.SourceStdio,
		Checker:        model.CheckerTokens,
	})
	require.NoError(t, err)
	return p
}

func seedTestCase(t *testing.T, repo TestCaseRepository, testCaseID string) *model.TestCase {
	t.Helper()
	tc, err := repo.Create(context.Background(), model.TestCaseBase{
		TestCaseID: testCaseID,
		InputFile:  testCaseID + ".in",
		OutputFile: testCaseID + ".out",
		Score:      10,
	})
	require.NoError(t, err)
	return tc
}

func TestUserLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)

	created := seedUser(t, users, "alice_dev")
	assert.Equal(t, "alice_dev", created.Username)

	got, err := users.Get(ctx, "alice_dev")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	// Absent rows are a nil value, not an error.
	missing, err := users.Get(ctx, "nobody_here")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Duplicate username hits the unique index.
	_, err = users.Create(ctx, model.UserBase{Username: "alice_dev", DisplayName: "Another Alice"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))

	updated, err := users.Update(ctx, model.UserBase{Username: "alice_dev", DisplayName: "Alice Renamed"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Alice Renamed", updated.DisplayName)
	assert.Equal(t, created.ID, updated.ID)

	// Update of an absent user is a nil result.
	gone, err := users.Update(ctx, model.UserBase{Username: "nobody_here", DisplayName: "Ghost"})
	require.NoError(t, err)
	assert.Nil(t, gone)

	n, err := users.Delete(ctx, "alice_dev")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = users.Delete(ctx, "alice_dev")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestUserListFiltering(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)

	seedUser(t, users, "alice_dev")
	seedUser(t, users, "bob_coder")
	seedUser(t, users, "carol_js")

	all, err := users.List(ctx, model.UserFilterOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Default order is by username ascending.
	assert.Equal(t, "alice_dev", all[0].Username)
	assert.Equal(t, "carol_js", all[2].Username)

	some, err := users.List(ctx, model.UserFilterOptions{Usernames: []string{"bob_coder"}})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "bob_coder", some[0].Username)

	// An explicit empty list matches nothing; nil would mean no filter.
	none, err := users.List(ctx, model.UserFilterOptions{Usernames: []string{}})
	require.NoError(t, err)
	assert.Empty(t, none)

	count, err := users.Count(ctx, model.UserFilterOptions{Usernames: []string{"alice_dev", "carol_js"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	start, limit := int64(1), int64(1)
	page, err := users.List(ctx, model.UserFilterOptions{
		ListOptions: model.ListOptions{StartIndex: &start, ItemCount: &limit},
	})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "bob_coder", page[0].Username)
}

func TestAuthDetailLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	hasher := security.NewBcryptHasher()
	users := NewMongoUserRepository(db)
	auth := NewMongoAuthDetailRepository(db, hasher)

	seedUser(t, users, "alice_dev")

	// Adding for a missing user raises a typed error.
	_, err := auth.Add(ctx, model.AuthenticationDetailBase{
		Username: "nobody_here", Method: model.MethodPassword, Value: "hunter22",
	})
	var unf *common.UserNotFoundError
	require.ErrorAs(t, err, &unf)
	assert.Equal(t, "nobody_here", unf.Username)

	added, err := auth.Add(ctx, model.AuthenticationDetailBase{
		Username: "alice_dev", Method: model.MethodPassword, Value: "hunter22",
	})
	require.NoError(t, err)
	// Password values are stored hashed, never verbatim.
	assert.NotEqual(t, "hunter22", added.Value)
	assert.True(t, hasher.Compare(added.Value, "hunter22"))

	// Only one detail per method: a second add conflicts and the stored
	// credential stays the first one.
	_, err = auth.Add(ctx, model.AuthenticationDetailBase{
		Username: "alice_dev", Method: model.MethodPassword, Value: "other-secret",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))

	got, err := auth.Get(ctx, "alice_dev", model.MethodPassword)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, hasher.Compare(got.Value, "hunter22"))

	// Absence, either kind, is a nil value on reads.
	none, err := auth.Get(ctx, "nobody_here", model.MethodPassword)
	require.NoError(t, err)
	assert.Nil(t, none)

	// Update and delete of a missing detail raise typed errors instead.
	_, err = auth.Update(ctx, model.AuthenticationDetailBase{
		Username: "bob_coder", Method: model.MethodPassword, Value: "x",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	updated, err := auth.Update(ctx, model.AuthenticationDetailBase{
		Username: "alice_dev", Method: model.MethodPassword, Value: "new-secret",
	})
	require.NoError(t, err)
	assert.True(t, hasher.Compare(updated.Value, "new-secret"))
	assert.False(t, hasher.Compare(updated.Value, "hunter22"))

	require.NoError(t, auth.Delete(ctx, "alice_dev", model.MethodPassword))
	err = auth.Delete(ctx, "alice_dev", model.MethodPassword)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestProblemTestCaseRelation(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)
	problems := NewMongoProblemRepository(db)
	testCases := NewMongoTestCaseRepository(db)

	seedUser(t, users, "alice_dev")
	seedProblem(t, problems, "two-sum", "alice_dev", true)
	tc1 := seedTestCase(t, testCases, "tc-1")
	tc2 := seedTestCase(t, testCases, "tc-2")

	// The owner is checked before the referenced entity.
	_, err := problems.AddTestCase(ctx, "no-such-problem", "no-such-case")
	var pnf *common.ProblemNotFoundError
	require.ErrorAs(t, err, &pnf)

	_, err = problems.AddTestCase(ctx, "two-sum", "no-such-case")
	var tnf *common.TestCaseNotFoundError
	require.ErrorAs(t, err, &tnf)

	// The failed mutation left no partial write behind.
	unchanged, err := problems.Get(ctx, "two-sum", model.ProblemInclude{})
	require.NoError(t, err)
	assert.Empty(t, unchanged.TestCaseIDs)

	_, err = problems.AddTestCase(ctx, "two-sum", "tc-2")
	require.NoError(t, err)
	_, err = problems.AddTestCase(ctx, "two-sum", "tc-1")
	require.NoError(t, err)
	// Re-adding is a no-op, not a duplicate.
	p, err := problems.AddTestCase(ctx, "two-sum", "tc-2")
	require.NoError(t, err)
	assert.Len(t, p.TestCaseIDs, 2)

	// Unrequested relations stay nil.
	bare, err := problems.Get(ctx, "two-sum", model.ProblemInclude{})
	require.NoError(t, err)
	assert.Nil(t, bare.TestCases)

	// Expansion preserves the stored insertion order.
	full, err := problems.Get(ctx, "two-sum", model.ProblemInclude{TestCases: true})
	require.NoError(t, err)
	require.Len(t, full.TestCases, 2)
	assert.Equal(t, tc2.TestCaseID, full.TestCases[0].TestCaseID)
	assert.Equal(t, tc1.TestCaseID, full.TestCases[1].TestCaseID)

	// A dangling reference is skipped rather than failing the read.
	_, err = testCases.Delete(ctx, "tc-2")
	require.NoError(t, err)
	full, err = problems.Get(ctx, "two-sum", model.ProblemInclude{TestCases: true})
	require.NoError(t, err)
	require.Len(t, full.TestCases, 1)
	assert.Equal(t, "tc-1", full.TestCases[0].TestCaseID)

	_, err = problems.RemoveTestCase(ctx, "two-sum", "tc-1")
	require.NoError(t, err)
	full, err = problems.Get(ctx, "two-sum", model.ProblemInclude{TestCases: true})
	require.NoError(t, err)
	assert.Empty(t, full.TestCases)
}

func TestProblemUpdateDiscardsImmutables(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)
	problems := NewMongoProblemRepository(db)

	seedUser(t, users, "alice_dev")
	created := seedProblem(t, problems, "two-sum", "alice_dev", true)

	updated, err := problems.Update(ctx, model.ProblemBase{
		ProblemID:      "two-sum",
		AuthorUsername: "mallory_x",
		DisplayName:    "Two Sum Reloaded",
		CreationDate:   created.CreationDate.Add(48 * time.Hour),
		IsPublic:       false,
		TimeLimit:      2000,
		MemoryLimit:    512,
		InputSource:    model.SourceStdio,
		OutputSource:   model.SourceStdio,
		Checker:        model.CheckerExact,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	// Mutable fields took; author and creation date silently kept their
	// stored values.
	assert.Equal(t, "Two Sum Reloaded", updated.DisplayName)
	assert.Equal(t, 2000, updated.TimeLimit)
	assert.Equal(t, "alice_dev", updated.AuthorUsername)
	assert.Equal(t, created.Author, updated.Author)
	assert.WithinDuration(t, created.CreationDate, updated.CreationDate, time.Second)
}

func TestProblemVisibility(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)
	problems := NewMongoProblemRepository(db)

	seedUser(t, users, "alice_dev")
	seedUser(t, users, "bob_coder")
	seedProblem(t, problems, "public-one", "alice_dev", true)
	seedProblem(t, problems, "private-one", "alice_dev", false)

	// The owner sees both, another user only the public one.
	mine, err := problems.List(ctx, model.ProblemFilterOptions{}, "alice_dev", model.ProblemInclude{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := problems.List(ctx, model.ProblemFilterOptions{}, "bob_coder", model.ProblemInclude{})
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "public-one", theirs[0].ProblemID)

	n, err := problems.Count(ctx, model.ProblemFilterOptions{}, "bob_coder")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestContestRelations(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)
	problems := NewMongoProblemRepository(db)
	contests := NewMongoContestRepository(db)

	seedUser(t, users, "alice_dev")
	seedUser(t, users, "bob_coder")
	seedProblem(t, problems, "two-sum", "alice_dev", true)

	_, err := contests.Create(ctx, model.ContestBase{
		ContestID:         "spring-open",
		OrganizerUsername: "alice_dev",
		DisplayName:       "Spring Open",
		StartTime:         time.Now().UTC().Add(24 * time.Hour),
		Duration:          2 * 60 * 60 * 1000,
		Format:            model.FormatICPC,
		IsPublic:          true,
	})
	require.NoError(t, err)

	// Organizer must exist before anything else is looked at.
	_, err = contests.Create(ctx, model.ContestBase{
		ContestID:         "ghost-cup",
		OrganizerUsername: "nobody_here",
		DisplayName:       "Ghost Cup",
		StartTime:         time.Now().UTC(),
		Duration:          model.MinContestDuration,
		Format:            model.FormatIOI,
	})
	var unf *common.UserNotFoundError
	require.ErrorAs(t, err, &unf)

	_, err = contests.AddProblem(ctx, "spring-open", "two-sum")
	require.NoError(t, err)
	_, err = contests.AddParticipant(ctx, "spring-open", "bob_coder")
	require.NoError(t, err)

	_, err = contests.AddProblem(ctx, "no-such-contest", "two-sum")
	var cnf *common.ContestNotFoundError
	require.ErrorAs(t, err, &cnf)

	full, err := contests.Get(ctx, "spring-open", model.ContestInclude{Problems: true, Participants: true})
	require.NoError(t, err)
	require.Len(t, full.Problems, 1)
	assert.Equal(t, "two-sum", full.Problems[0].ProblemID)
	require.Len(t, full.Participants, 1)
	assert.Equal(t, "bob_coder", full.Participants[0].Username)
	// A populated nested problem never carries its test cases.
	assert.Nil(t, full.Problems[0].TestCases)

	_, err = contests.RemoveParticipant(ctx, "spring-open", "bob_coder")
	require.NoError(t, err)
	full, err = contests.Get(ctx, "spring-open", model.ContestInclude{Participants: true})
	require.NoError(t, err)
	assert.Empty(t, full.Participants)
}

func TestAnnouncementLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)
	contests := NewMongoContestRepository(db)
	announcements := NewMongoAnnouncementRepository(db)

	seedUser(t, users, "alice_dev")
	_, err := contests.Create(ctx, model.ContestBase{
		ContestID:         "spring-open",
		OrganizerUsername: "alice_dev",
		DisplayName:       "Spring Open",
		StartTime:         time.Now().UTC(),
		Duration:          model.MinContestDuration,
		Format:            model.FormatIOI,
	})
	require.NoError(t, err)

	_, err = announcements.Create(ctx, model.AnnouncementBase{
		AnnouncementID: "a-1",
		OfContestID:    "no-such-contest",
		Timestamp:      time.Now().UTC(),
		Subject:        "Hello",
	})
	var cnf *common.ContestNotFoundError
	require.ErrorAs(t, err, &cnf)

	created, err := announcements.Create(ctx, model.AnnouncementBase{
		AnnouncementID: "a-1",
		OfContestID:    "spring-open",
		Timestamp:      time.Now().UTC(),
		Subject:        "  Clarification <b>one</b>  ",
		Content:        "Read the statement again.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Clarification one", created.Subject)

	// An update with a different contest moves the announcement there,
	// re-resolving the reference; an unresolvable target aborts it.
	_, err = contests.Create(ctx, model.ContestBase{
		ContestID:         "autumn-open",
		OrganizerUsername: "alice_dev",
		DisplayName:       "Autumn Open",
		StartTime:         time.Now().UTC(),
		Duration:          model.MinContestDuration,
		Format:            model.FormatIOI,
	})
	require.NoError(t, err)
	moved, err := announcements.Update(ctx, model.AnnouncementBase{
		AnnouncementID: "a-1",
		OfContestID:    "autumn-open",
		Timestamp:      created.Timestamp,
		Subject:        "Clarification one",
	})
	require.NoError(t, err)
	assert.Equal(t, "autumn-open", moved.OfContestID)

	_, err = announcements.Update(ctx, model.AnnouncementBase{
		AnnouncementID: "a-1",
		OfContestID:    "no-such-contest",
		Timestamp:      created.Timestamp,
		Subject:        "Clarification one",
	})
	require.ErrorAs(t, err, &cnf)

	// Unlike most entities, announcement update and delete raise on a
	// missing target.
	_, err = announcements.Update(ctx, model.AnnouncementBase{
		AnnouncementID: "a-2",
		OfContestID:    "spring-open",
		Timestamp:      time.Now().UTC(),
		Subject:        "Nope",
	})
	var anf *common.AnnouncementNotFoundError
	require.ErrorAs(t, err, &anf)

	require.NoError(t, announcements.Delete(ctx, "a-1"))
	err = announcements.Delete(ctx, "a-1")
	require.ErrorAs(t, err, &anf)
}

func TestSubmissionLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)
	problems := NewMongoProblemRepository(db)
	testCases := NewMongoTestCaseRepository(db)
	submissions := NewMongoSubmissionRepository(db)

	seedUser(t, users, "bob_coder")
	seedProblem(t, problems, "two-sum", "bob_coder", true)
	seedTestCase(t, testCases, "tc-1")

	base := model.SubmissionBase{
		SubmissionID:   "s-1",
		AuthorUsername: "bob_coder",
		ProblemID:      "two-sum",
		SourceFile:     "main.cpp",
		Language:       model.LanguageCpp,
		SubmissionTime: time.Now().UTC(),
		Status:         model.StatusSubmitted,
	}

	missingAuthor := base
	missingAuthor.AuthorUsername = "nobody_here"
	_, err := submissions.Create(ctx, missingAuthor)
	var unf *common.UserNotFoundError
	require.ErrorAs(t, err, &unf)

	missingProblem := base
	missingProblem.ProblemID = "no-such-problem"
	_, err = submissions.Create(ctx, missingProblem)
	var pnf *common.ProblemNotFoundError
	require.ErrorAs(t, err, &pnf)

	created, err := submissions.Create(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, created.Status)
	assert.Nil(t, created.ContestRef)

	// The judge posts a verdict with a failed-test-case reference.
	verdict := base
	verdict.Status = model.StatusWA
	verdict.Result = &model.SubmissionResultBase{
		Score:            40,
		RunTime:          120,
		FailedTestCaseID: "tc-1",
		ActualOutput:     "3",
	}
	updated, err := submissions.Update(ctx, verdict)
	require.NoError(t, err)
	require.NotNil(t, updated.Result)
	assert.Equal(t, 40, updated.Result.Score)
	assert.Equal(t, "tc-1", updated.Result.FailedTestCaseID)

	badVerdict := verdict
	badVerdict.Result = &model.SubmissionResultBase{FailedTestCaseID: "no-such-case"}
	_, err = submissions.Update(ctx, badVerdict)
	var tnf *common.TestCaseNotFoundError
	require.ErrorAs(t, err, &tnf)

	// Authors only ever see their own submissions.
	listed, err := submissions.List(ctx, model.SubmissionFilterOptions{}, "bob_coder", model.SubmissionInclude{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
	listed, err = submissions.List(ctx, model.SubmissionFilterOptions{}, "alice_dev", model.SubmissionInclude{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSubmissionExpansionStripping(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)
	problems := NewMongoProblemRepository(db)
	testCases := NewMongoTestCaseRepository(db)
	contests := NewMongoContestRepository(db)
	submissions := NewMongoSubmissionRepository(db)

	seedUser(t, users, "bob_coder")
	seedProblem(t, problems, "two-sum", "bob_coder", true)
	seedTestCase(t, testCases, "tc-1")
	_, err := problems.AddTestCase(ctx, "two-sum", "tc-1")
	require.NoError(t, err)

	_, err = contests.Create(ctx, model.ContestBase{
		ContestID:         "spring-open",
		OrganizerUsername: "bob_coder",
		DisplayName:       "Spring Open",
		StartTime:         time.Now().UTC(),
		Duration:          model.MinContestDuration,
		Format:            model.FormatICPC,
		IsPublic:          true,
	})
	require.NoError(t, err)
	_, err = contests.AddProblem(ctx, "spring-open", "two-sum")
	require.NoError(t, err)

	_, err = submissions.Create(ctx, model.SubmissionBase{
		SubmissionID:   "s-1",
		AuthorUsername: "bob_coder",
		ProblemID:      "two-sum",
		ContestID:      "spring-open",
		SourceFile:     "main.cpp",
		Language:       model.LanguageCpp,
		SubmissionTime: time.Now().UTC(),
		Status:         model.StatusSubmitted,
	})
	require.NoError(t, err)

	got, err := submissions.Get(ctx, "s-1", model.SubmissionInclude{Problem: true, Contest: true})
	require.NoError(t, err)
	require.NotNil(t, got.Problem)
	require.NotNil(t, got.Contest)

	// Nested documents come stripped of their own relations.
	assert.Nil(t, got.Problem.TestCases)
	assert.Nil(t, got.Contest.Problems)
	assert.Nil(t, got.Contest.Participants)
	assert.Nil(t, got.Contest.Announcements)

	bare, err := submissions.Get(ctx, "s-1", model.SubmissionInclude{})
	require.NoError(t, err)
	assert.Nil(t, bare.Problem)
	assert.Nil(t, bare.Contest)
}

func TestCollectionLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewMongoUserRepository(db)
	problems := NewMongoProblemRepository(db)
	collections := NewMongoCollectionRepository(db)

	seedUser(t, users, "alice_dev")
	seedProblem(t, problems, "two-sum", "alice_dev", true)
	seedProblem(t, problems, "fizzbuzz", "alice_dev", true)

	created, err := collections.Create(ctx, model.CollectionBase{
		CollectionID:  "warmups",
		OwnerUsername: "alice_dev",
		DisplayName:   "Warmups",
		CreationDate:  time.Now().UTC(),
		IsPublic:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice_dev", created.OwnerUsername)

	_, err = collections.AddProblem(ctx, "warmups", "fizzbuzz")
	require.NoError(t, err)
	_, err = collections.AddProblem(ctx, "warmups", "two-sum")
	require.NoError(t, err)

	_, err = collections.AddProblem(ctx, "warmups", "no-such-problem")
	var pnf *common.ProblemNotFoundError
	require.ErrorAs(t, err, &pnf)

	full, err := collections.Get(ctx, "warmups", model.CollectionInclude{Problems: true})
	require.NoError(t, err)
	require.Len(t, full.Problems, 2)
	assert.Equal(t, "fizzbuzz", full.Problems[0].ProblemID)
	assert.Equal(t, "two-sum", full.Problems[1].ProblemID)

	_, err = collections.RemoveProblem(ctx, "warmups", "fizzbuzz")
	require.NoError(t, err)
	full, err = collections.Get(ctx, "warmups", model.CollectionInclude{Problems: true})
	require.NoError(t, err)
	require.Len(t, full.Problems, 1)

	// creationDate is mutable on collections; the owner is not.
	moved := created.CreationDate.Add(-72 * time.Hour)
	updated, err := collections.Update(ctx, model.CollectionBase{
		CollectionID:  "warmups",
		OwnerUsername: "mallory_x",
		DisplayName:   "Warmups v2",
		CreationDate:  moved,
		IsPublic:      false,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Warmups v2", updated.DisplayName)
	assert.Equal(t, "alice_dev", updated.OwnerUsername)
	assert.WithinDuration(t, moved, updated.CreationDate, time.Second)

	n, err := collections.Delete(ctx, "warmups")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestFetchOrderedSkipsDangling(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	col := db.Collection(colTestCases)

	a := model.TestCase{ID: primitive.NewObjectID(), TestCaseID: "tc-a"}
	b := model.TestCase{ID: primitive.NewObjectID(), TestCaseID: "tc-b"}
	_, err := col.InsertMany(ctx, []interface{}{a, b})
	require.NoError(t, err)

	dangling := primitive.NewObjectID()
	got, err := fetchOrdered(ctx, col, []primitive.ObjectID{b.ID, dangling, a.ID},
		func(tc *model.TestCase) primitive.ObjectID { return tc.ID })
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "tc-b", got[0].TestCaseID)
	assert.Equal(t, "tc-a", got[1].TestCaseID)
}
