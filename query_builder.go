package assetdex

import (
	"context"
	"time"
)

// QueryBuilder is a fluent builder for queries.
type QueryBuilder struct {
	client *Client
	q      Query
	limit  int
}

// Text sets the free text. Field scopes such as "tags: nike" are honored.
func (b *QueryBuilder) Text(s string) *QueryBuilder {
	b.q.Text = s
	return b
}

// Facet picks a facet value. Values of one field are OR-ed.
func (b *QueryBuilder) Facet(field, value string) *QueryBuilder {
	b.q.Facets = append(b.q.Facets, Selection{Field: field, Value: value})
	return b
}

// TagsAll requires every listed tag.
func (b *QueryBuilder) TagsAll(tags ...string) *QueryBuilder {
	b.q.Filters.TagsAll = append(b.q.Filters.TagsAll, tags...)
	return b
}

// Creators restricts results to the listed creator ids.
func (b *QueryBuilder) Creators(ids ...string) *QueryBuilder {
	b.q.Filters.CreatorIDs = append(b.q.Filters.CreatorIDs, ids...)
	return b
}

// Kinds restricts results to the listed media kinds.
func (b *QueryBuilder) Kinds(kinds ...string) *QueryBuilder {
	b.q.Filters.MediaKinds = append(b.q.Filters.MediaKinds, kinds...)
	return b
}

// InContainer restricts results to assets grouped under one of ids.
func (b *QueryBuilder) InContainer(ids ...string) *QueryBuilder {
	b.q.Filters.ContainerIDs = append(b.q.Filters.ContainerIDs, ids...)
	return b
}

// Between bounds creation time inclusively. A zero bound is open.
func (b *QueryBuilder) Between(from, to time.Time) *QueryBuilder {
	b.q.Filters.From = from
	b.q.Filters.To = to
	return b
}

// Order sets the result order.
func (b *QueryBuilder) Order(o Order) *QueryBuilder {
	b.q.Order = o
	return b
}

// Limit truncates the returned hits. Facet counts still cover the full result.
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.limit = n
	return b
}

// Build returns the accumulated query.
func (b *QueryBuilder) Build() Query { return b.q }

// Do executes the query.
func (b *QueryBuilder) Do(ctx context.Context) (Result, error) {
	res, err := b.client.Search(ctx, b.q)
	if err != nil {
		return Result{}, err
	}
	if b.limit > 0 && b.limit < len(res.Hits) {
		res.Hits = res.Hits[:b.limit]
	}
	return res, nil
}
