package store

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/uptrace/bun"
)

// Criteria collects select criteria so entity filters can be composed
// conditionally before a query runs.
type Criteria []repository.SelectCriteria

// Add appends c when it is not nil.
func (c *Criteria) Add(criteria ...repository.SelectCriteria) {
	for _, fn := range criteria {
		if fn != nil {
			*c = append(*c, fn)
		}
	}
}

// Paginate applies the limit/offset pair.
func Paginate(page types.Pagination) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if page.Limit > 0 {
			q = q.Limit(page.Limit)
		}
		if page.Offset > 0 {
			q = q.Offset(page.Offset)
		}
		return q
	}
}

// Eq matches rows where column equals value.
func Eq(column string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? = ?", bun.Ident(column), value)
	}
}

// NotEq matches rows where column differs from value.
func NotEq(column string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? != ?", bun.Ident(column), value)
	}
}

// In matches rows whose column holds one of values. An empty list matches
// nothing.
func In[V any](column string, values []V) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if len(values) == 0 {
			return q.Where("1 = 0")
		}
		return q.Where("? IN (?)", bun.Ident(column), bun.In(values))
	}
}

// Gte matches rows where column >= value.
func Gte(column string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? >= ?", bun.Ident(column), value)
	}
}

// Lte matches rows where column <= value.
func Lte(column string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? <= ?", bun.Ident(column), value)
	}
}

// Lt matches rows where column < value.
func Lt(column string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? < ?", bun.Ident(column), value)
	}
}

// Search matches rows where any column contains term, ignoring case. A blank
// term yields nil so callers can Add it unconditionally.
func Search(term string, columns ...string) repository.SelectCriteria {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return nil
	}
	pattern := "%" + term + "%"
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			for _, col := range columns {
				q = q.WhereOr("LOWER(?) LIKE LOWER(?)", bun.Ident(col), pattern)
			}
			return q
		})
	}
}

// Between bounds a string column inclusively. Empty bounds are open and a
// zero range yields nil.
func Between(column string, r types.DateRange) repository.SelectCriteria {
	if r.IsZero() {
		return nil
	}
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if from := strings.TrimSpace(r.From); from != "" {
			q = q.Where("? >= ?", bun.Ident(column), from)
		}
		if to := strings.TrimSpace(r.To); to != "" {
			q = q.Where("? <= ?", bun.Ident(column), to)
		}
		return q
	}
}

// FloatBetween bounds a numeric column inclusively.
func FloatBetween(column string, r types.FloatRange) repository.SelectCriteria {
	if r.Min == nil && r.Max == nil {
		return nil
	}
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if r.Min != nil {
			q = q.Where("? >= ?", bun.Ident(column), *r.Min)
		}
		if r.Max != nil {
			q = q.Where("? <= ?", bun.Ident(column), *r.Max)
		}
		return q
	}
}

// IntBetween bounds an integer column inclusively.
func IntBetween(column string, r types.IntRange) repository.SelectCriteria {
	if r.Min == nil && r.Max == nil {
		return nil
	}
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if r.Min != nil {
			q = q.Where("? >= ?", bun.Ident(column), *r.Min)
		}
		if r.Max != nil {
			q = q.Where("? <= ?", bun.Ident(column), *r.Max)
		}
		return q
	}
}

// OrderBy applies a raw ORDER BY expression.
func OrderBy(expr string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr(expr)
	}
}

// OrderDesc sorts by column, newest or largest first.
func OrderDesc(column string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("? DESC", bun.Ident(column))
	}
}
