// Package filter compiles the run filter language into canonical filter trees.
//
// The language is a small subset of Python expressions:
//
//	State == 'crashed' and team == 'amazing team'
//	Runtime >= 0 && Runtime <= 6000 || JobType not in ['training', 'testing']
//
// Predicates are NAME <op> LITERAL with op one of ==, !=, <, <=, >, >=, in and
// not in. Literals are strings, numbers, True/False, None (or null) and lists
// of those. Predicates are joined by and/&& into groups, and groups by or/||.
// Parentheses may group, but an or may never appear inside an and. A leading
// not on a single comparison inverts its operator. Anything else, such as calls,
// attribute access or arithmetic, is rejected with UnsupportedExpressionError.
//
// Names are resolved with a columns.Resolver. The result is always the two-level
// types.FilterTree; an empty expression compiles to types.EmptyFilterTree.
//
// The same tree can be expressed as an OperatorTree:
//
//	{"$or": [{"$and": [{"state": "crashed"}, {"summary_metrics.team": "amazing team"}]}]}
//
// Each condition is its own single-key entry, so two bounds on one path are kept.
package filter
