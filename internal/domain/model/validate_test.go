package model

import (
	"errors"
	"testing"
	"time"

	"codearena/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsernameRule(t *testing.T) {
	valid := []string{"alice_dev", "bob123", "UPPER_lower_9", "sixsix"}
	for _, u := range valid {
		assert.NoError(t, Validate(&UserBase{Username: u, DisplayName: "Someone"}), u)
	}

	invalid := []string{
		"short",
		"has space",
		"has-dash",
		"ümlaut_name",
		"",
		"a_very_long_username_that_goes_on_and_over_thirty_two",
	}
	for _, u := range invalid {
		err := Validate(&UserBase{Username: u, DisplayName: "Someone"})
		require.Error(t, err, u)
		assert.True(t, errors.Is(err, common.ErrValidation), u)
	}
}

func TestUserBaseDisplayName(t *testing.T) {
	err := Validate(&UserBase{Username: "alice_dev", DisplayName: ""})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestProblemBaseLimits(t *testing.T) {
	base := func() ProblemBase {
		return ProblemBase{
			ProblemID:      "two-sum",
			AuthorUsername: "alice_dev",
			DisplayName:    "Two Sum",
			TimeLimit:      1000,
			MemoryLimit:    256,
			InputSource:    SourceStdio,
			OutputSource:   SourceStdio,
			Checker:        CheckerTokens,
		}
	}

	assert.NoError(t, Validate(ptr(base())))

	b := base()
	b.TimeLimit = 50
	assert.Error(t, Validate(&b), "time limit below 100ms")

	b = base()
	b.MemoryLimit = 8
	assert.Error(t, Validate(&b), "memory limit below 16MB")

	b = base()
	b.InputSource = ""
	assert.Error(t, Validate(&b), "missing input source")
}

func TestContestBaseConstraints(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	base := func() ContestBase {
		return ContestBase{
			ContestID:         "spring-open",
			OrganizerUsername: "alice_dev",
			DisplayName:       "Spring Open",
			StartTime:         start,
			Duration:          2 * 60 * 60 * 1000,
			Format:            FormatICPC,
		}
	}

	assert.NoError(t, Validate(ptr(base())))

	b := base()
	b.Duration = MinContestDuration - 1
	assert.Error(t, Validate(&b), "duration under five minutes")

	b = base()
	b.Format = "Codeforces"
	assert.Error(t, Validate(&b), "unknown format")
}

func TestSubmissionBaseEnums(t *testing.T) {
	base := func() SubmissionBase {
		return SubmissionBase{
			SubmissionID:   "s-0001",
			AuthorUsername: "bob_coder",
			ProblemID:      "two-sum",
			SourceFile:     "main.cpp",
			Language:       LanguageCpp,
			Status:         StatusSubmitted,
		}
	}

	assert.NoError(t, Validate(ptr(base())))

	b := base()
	b.Language = "Rust"
	assert.Error(t, Validate(&b), "unsupported language")

	b = base()
	b.Status = "Pending"
	assert.Error(t, Validate(&b), "unknown status")
}

func TestCheckerIsBuiltin(t *testing.T) {
	assert.True(t, CheckerExact.IsBuiltin())
	assert.True(t, CheckerTokens.IsBuiltin())
	assert.True(t, CheckerFloats.IsBuiltin())
	assert.False(t, Checker("spj.cpp").IsBuiltin())
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Two Sum", SanitizeText("  Two Sum  "))
	assert.Equal(t, "hello", SanitizeText("<script>alert(1)</script>hello"))
	assert.Equal(t, "bold move", SanitizeText("<b>bold</b> move"))
}

func TestNormalizeTrims(t *testing.T) {
	ub := UserBase{Username: "alice_dev", DisplayName: " Alice "}
	ub.Normalize()
	assert.Equal(t, "Alice", ub.DisplayName)

	pb := ProblemBase{DisplayName: "\tTwo Sum\n"}
	pb.Normalize()
	assert.Equal(t, "Two Sum", pb.DisplayName)
}

func ptr[T any](v T) *T { return &v }
