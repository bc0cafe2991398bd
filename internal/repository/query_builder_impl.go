package repository

import (
	"github.com/doug-martin/goqu/v9"
)

// queryBuilder accumulates equality filters keyed by their external
// name. Column mapping happens late, in BuildConditions, so handlers
// never learn the table layout.
type queryBuilder struct {
	filters map[string]interface{}
}

func NewQueryBuilder() QueryBuilder {
	return &queryBuilder{filters: make(map[string]interface{})}
}

func (q *queryBuilder) AddCondition(key string, value interface{}) {
	q.filters[key] = value
}

// BuildConditions renders the collected filters as a goqu expression,
// translating keys through the alias map. Unaliased keys are assumed to
// already be column names.
func (q *queryBuilder) BuildConditions(aliases map[string]string) goqu.Ex {
	ex := goqu.Ex{}
	for key, value := range q.filters {
		column := key
		if alias, ok := aliases[key]; ok {
			column = alias
		}
		ex[column] = value
	}
	return ex
}
