// Package sqlkit executes SQL templates with named placeholders.
//
// A Factory holds the connection pool, the placeholder dialect and the
// logger. Templates created from it bind values by name; values may be plain
// parameters, slices, or fragments produced by the qb builders:
//
//	f.Template("SELECT :columns FROM users WHERE :where ORDER BY :order LIMIT :limit").
//		Param("columns", qb.NewSelect().Columns("id", "name")).
//		Param("where", qb.NewExpression().Column("team").Eq().Value(7)).
//		Param("order", qb.NewOrderBy().By("name")).
//		Param("limit", qb.NewLimit(20))
//
// Query, QueryOptional, Aggregate and InsertKeys run templates and map rows
// with the mapper package.
package sqlkit
