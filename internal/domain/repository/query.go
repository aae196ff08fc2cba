package repository

import (
	"codearena/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// query accumulates filter conditions, ANDed together. A nil slice means
// "no filter on this field"; a non-nil slice, including an empty one, is
// applied literally, so an explicit empty list matches nothing.
type query struct {
	conds bson.D
}

func newQuery() *query {
	return &query{}
}

func addIn[T any](q *query, field string, values []T) *query {
	if values == nil {
		return q
	}
	q.conds = append(q.conds, bson.E{Key: field, Value: bson.M{"$in": values}})
	return q
}

func (q *query) eqBool(field string, value *bool) *query {
	if value == nil {
		return q
	}
	q.conds = append(q.conds, bson.E{Key: field, Value: *value})
	return q
}

func (q *query) timeRange(field string, r *model.TimeRange) *query {
	if r == nil || (r.From == nil && r.To == nil) {
		return q
	}
	bounds := bson.M{}
	if r.From != nil {
		bounds["$gte"] = *r.From
	}
	if r.To != nil {
		bounds["$lte"] = *r.To
	}
	q.conds = append(q.conds, bson.E{Key: field, Value: bounds})
	return q
}

func (q *query) intRange(field string, r *model.IntRange) *query {
	if r == nil || (r.Min == nil && r.Max == nil) {
		return q
	}
	bounds := bson.M{}
	if r.Min != nil {
		bounds["$gte"] = *r.Min
	}
	if r.Max != nil {
		bounds["$lte"] = *r.Max
	}
	q.conds = append(q.conds, bson.E{Key: field, Value: bounds})
	return q
}

// visibleTo ANDs in the platform's sole data-layer access control: private
// documents are visible only to their owner/organizer/author.
func (q *query) visibleTo(ownerField, asUser string) *query {
	if asUser == "" {
		return q
	}
	q.conds = append(q.conds, bson.E{Key: "$or", Value: bson.A{
		bson.M{ownerField: asUser},
		bson.M{"isPublic": true},
	}})
	return q
}

// authoredBy restricts to a single author; used where visibility has no
// public side (submissions carry no isPublic flag).
func (q *query) authoredBy(authorField, asUser string) *query {
	if asUser == "" {
		return q
	}
	q.conds = append(q.conds, bson.E{Key: authorField, Value: asUser})
	return q
}

func (q *query) filter() bson.D {
	if len(q.conds) == 0 {
		return bson.D{}
	}
	return q.conds
}

// findOpts translates sort directives and pagination into find options.
// defaultSort applies only when the caller gave no directives.
func findOpts(lo model.ListOptions, defaultSort bson.D) *options.FindOptions {
	opts := options.Find()
	sort := defaultSort
	if len(lo.Sort) > 0 {
		s := bson.D{}
		for _, f := range lo.Sort {
			dir := -1
			if f.Ascending {
				dir = 1
			}
			s = append(s, bson.E{Key: f.Field, Value: dir})
		}
		sort = s
	}
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	if lo.StartIndex != nil {
		opts.SetSkip(*lo.StartIndex)
	}
	if lo.ItemCount != nil {
		opts.SetLimit(*lo.ItemCount)
	}
	return opts
}
