package repository

import (
	"testing"
	"time"

	"codearena/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestAddIn(t *testing.T) {
	t.Run("nil slice adds no condition", func(t *testing.T) {
		q := newQuery()
		addIn(q, "username", []string(nil))
		assert.Empty(t, q.filter())
	})

	t.Run("empty slice is a literal empty $in", func(t *testing.T) {
		q := newQuery()
		addIn(q, "username", []string{})
		f := q.filter()
		require.Len(t, f, 1)
		assert.Equal(t, "username", f[0].Key)
		assert.Equal(t, bson.M{"$in": []string{}}, f[0].Value)
	})

	t.Run("values become $in", func(t *testing.T) {
		q := newQuery()
		addIn(q, "status", []model.SubmissionStatus{model.StatusAccepted, model.StatusWA})
		f := q.filter()
		require.Len(t, f, 1)
		assert.Equal(t, bson.M{"$in": []model.SubmissionStatus{model.StatusAccepted, model.StatusWA}}, f[0].Value)
	})
}

func TestEqBool(t *testing.T) {
	q := newQuery()
	q.eqBool("isPublic", nil)
	assert.Empty(t, q.filter())

	public := true
	q.eqBool("isPublic", &public)
	f := q.filter()
	require.Len(t, f, 1)
	assert.Equal(t, bson.E{Key: "isPublic", Value: true}, f[0])
}

func TestTimeRange(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		r    *model.TimeRange
		want interface{}
	}{
		{"nil range", nil, nil},
		{"empty range", &model.TimeRange{}, nil},
		{"from only", &model.TimeRange{From: &from}, bson.M{"$gte": from}},
		{"to only", &model.TimeRange{To: &to}, bson.M{"$lte": to}},
		{"both bounds", &model.TimeRange{From: &from, To: &to}, bson.M{"$gte": from, "$lte": to}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := newQuery()
			q.timeRange("creationDate", tc.r)
			f := q.filter()
			if tc.want == nil {
				assert.Empty(t, f)
				return
			}
			require.Len(t, f, 1)
			assert.Equal(t, "creationDate", f[0].Key)
			assert.Equal(t, tc.want, f[0].Value)
		})
	}
}

func TestIntRange(t *testing.T) {
	min, max := 100, 2000
	q := newQuery()
	q.intRange("timeLimit", &model.IntRange{Min: &min, Max: &max})
	f := q.filter()
	require.Len(t, f, 1)
	assert.Equal(t, bson.M{"$gte": 100, "$lte": 2000}, f[0].Value)
}

func TestVisibleTo(t *testing.T) {
	t.Run("anonymous caller adds nothing", func(t *testing.T) {
		q := newQuery()
		q.visibleTo("authorUsername", "")
		assert.Empty(t, q.filter())
	})

	t.Run("named caller sees own plus public", func(t *testing.T) {
		q := newQuery()
		q.visibleTo("authorUsername", "alice_dev")
		f := q.filter()
		require.Len(t, f, 1)
		assert.Equal(t, "$or", f[0].Key)
		assert.Equal(t, bson.A{
			bson.M{"authorUsername": "alice_dev"},
			bson.M{"isPublic": true},
		}, f[0].Value)
	})
}

func TestAuthoredBy(t *testing.T) {
	q := newQuery()
	q.authoredBy("authorUsername", "bob_coder")
	f := q.filter()
	require.Len(t, f, 1)
	assert.Equal(t, bson.E{Key: "authorUsername", Value: "bob_coder"}, f[0])
}

func TestProblemCompose(t *testing.T) {
	r := &mongoProblemRepository{}
	public := true

	t.Run("all filters combine with AND", func(t *testing.T) {
		f := r.compose(model.ProblemFilterOptions{
			ProblemIDs:      []string{"two-sum", "fizzbuzz"},
			AuthorUsernames: []string{"alice_dev"},
			IsPublic:        &public,
		}, "alice_dev")
		require.Len(t, f, 4)
		assert.Equal(t, "problemId", f[0].Key)
		assert.Equal(t, "authorUsername", f[1].Key)
		assert.Equal(t, "isPublic", f[2].Key)
		assert.Equal(t, "$or", f[3].Key)
	})

	t.Run("zero filter is empty document", func(t *testing.T) {
		f := r.compose(model.ProblemFilterOptions{}, "")
		assert.Empty(t, f)
	})
}

func TestSubmissionCompose(t *testing.T) {
	r := &mongoSubmissionRepository{}

	f := r.compose(model.SubmissionFilterOptions{
		Statuses: []model.SubmissionStatus{model.StatusAccepted},
	}, "bob_coder")
	require.Len(t, f, 2)
	assert.Equal(t, "status", f[0].Key)
	// Submissions are never public: a caller only ever sees their own.
	assert.Equal(t, bson.E{Key: "authorUsername", Value: "bob_coder"}, f[1])
}

func TestFindOpts(t *testing.T) {
	defaultSort := bson.D{{Key: "creationDate", Value: -1}}

	t.Run("defaults apply without directives", func(t *testing.T) {
		opts := findOpts(model.ListOptions{}, defaultSort)
		assert.Equal(t, defaultSort, opts.Sort)
		assert.Nil(t, opts.Skip)
		assert.Nil(t, opts.Limit)
	})

	t.Run("caller sort overrides default", func(t *testing.T) {
		opts := findOpts(model.ListOptions{
			Sort: []model.SortField{
				{Field: "displayName", Ascending: true},
				{Field: "creationDate", Ascending: false},
			},
		}, defaultSort)
		assert.Equal(t, bson.D{
			{Key: "displayName", Value: 1},
			{Key: "creationDate", Value: -1},
		}, opts.Sort)
	})

	t.Run("pagination maps to skip and limit", func(t *testing.T) {
		start, count := int64(40), int64(20)
		opts := findOpts(model.ListOptions{StartIndex: &start, ItemCount: &count}, nil)
		require.NotNil(t, opts.Skip)
		require.NotNil(t, opts.Limit)
		assert.EqualValues(t, 40, *opts.Skip)
		assert.EqualValues(t, 20, *opts.Limit)
	})
}
