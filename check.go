package worldtest

import (
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
)

// QueryCheck performs assertions on a query's result set. Checks can be chained, and any check
// can be inverted by calling Not immediately before it. A failed check fails the test fatally
// with a message carrying the actual and expected values.
//
// Rows are compared structurally with go-cmp, so component types with unexported fields must
// provide an Equal method.
//
//	worldtest.Query[Position](app).
//		Has(Position{X: 1, Y: 2}).
//		Not().Has(Position{X: 4, Y: -3}).
//		Length(3)
type QueryCheck[T any] struct {
	tb     testing.TB
	rows   []T
	negate bool
}

func newQueryCheck[T any](tb testing.TB, rows []T) *QueryCheck[T] {
	return &QueryCheck[T]{
		tb:     tb,
		rows:   rows,
		negate: false,
	}
}

// Rows returns the collected result rows.
func (c *QueryCheck[T]) Rows() []T {
	return c.rows
}

// Not inverts the next check. The inversion only applies to the immediately following check;
// every check resets it.
//
//	worldtest.Query[Position](app).
//		Not().Has(Position{X: 4, Y: -3}).
//		Not().Length(5)
func (c *QueryCheck[T]) Not() *QueryCheck[T] {
	c.negate = !c.negate
	return c
}

// consumeNegate returns whether the next check is inverted and resets the flag.
func (c *QueryCheck[T]) consumeNegate() bool {
	negated := c.negate
	c.negate = false
	return negated
}

// equalRows reports whether two rows are structurally equal.
func equalRows[T any](a, b T) bool {
	return gocmp.Equal(a, b)
}

// containsRow reports whether the result set contains the given row.
func containsRow[T any](rows []T, row T) bool {
	for i := range rows {
		if equalRows(rows[i], row) {
			return true
		}
	}
	return false
}

// Matches checks that the result set contains the given rows and only the given rows. Order is
// ignored but multiplicities are not: a result set with a duplicated row only matches an
// expected set with the same duplication.
func (c *QueryCheck[T]) Matches(expected ...T) *QueryCheck[T] {
	c.tb.Helper()

	extra, missing := multisetDiff(c.rows, expected)
	matched := len(extra) == 0 && len(missing) == 0

	if c.consumeNegate() {
		if matched {
			c.unexpectedMatch("the query matches the given rows", expected)
		}
		return c
	}

	if !matched {
		c.mismatch("the query does not match the given rows"+diffDetail(c.rows, expected), c.rows, expected)
	}
	return c
}

// multisetDiff compares two row sets as multisets. It returns the rows present in actual but
// not expected, and the rows present in expected but not actual.
func multisetDiff[T any](actual, expected []T) (extra, missing []T) {
	remaining := make([]T, len(expected))
	copy(remaining, expected)

	for _, row := range actual {
		found := false
		for i := range remaining {
			if equalRows(remaining[i], row) {
				remaining = append(remaining[:i], remaining[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			extra = append(extra, row)
		}
	}
	return extra, remaining
}

// Has checks that the result set contains the given row.
func (c *QueryCheck[T]) Has(row T) *QueryCheck[T] {
	c.tb.Helper()

	found := containsRow(c.rows, row)

	if c.consumeNegate() {
		if found {
			c.unexpectedMatch("the query contains the given row", row)
		}
		return c
	}

	if !found {
		c.mismatch("the given row was not found in the query", c.rows, row)
	}
	return c
}

// HasAll checks that every given row is present in the result set. Use Matches to check for
// exact equality between the result set and the given rows.
func (c *QueryCheck[T]) HasAll(rows ...T) *QueryCheck[T] {
	c.tb.Helper()

	missing := make([]T, 0)
	for _, row := range rows {
		if !containsRow(c.rows, row) {
			missing = append(missing, row)
		}
	}

	if c.consumeNegate() {
		if len(missing) == 0 {
			c.unexpectedMatch("the query contains all given rows", rows)
		}
		return c
	}

	if len(missing) > 0 {
		c.mismatch("some of the given rows were not found in the query", c.rows, missing)
	}
	return c
}

// HasAny checks that at least one of the given rows is present in the result set.
func (c *QueryCheck[T]) HasAny(rows ...T) *QueryCheck[T] {
	c.tb.Helper()

	found := false
	for _, row := range rows {
		if containsRow(c.rows, row) {
			found = true
			break
		}
	}

	if c.consumeNegate() {
		if found {
			c.unexpectedMatch("the query contains one of the given rows", rows)
		}
		return c
	}

	if !found {
		c.mismatch("none of the given rows were found in the query", c.rows, rows)
	}
	return c
}

// All checks that every row of the result set satisfies the predicate. An empty result set
// passes vacuously.
func (c *QueryCheck[T]) All(predicate func(T) bool) *QueryCheck[T] {
	c.tb.Helper()

	allMatch := true
	var firstFailing T
	for _, row := range c.rows {
		if !predicate(row) {
			allMatch = false
			firstFailing = row
			break
		}
	}

	if c.consumeNegate() {
		if allMatch {
			c.unexpectedMatch("the predicate holds for every row of the query", c.rows)
		}
		return c
	}

	if !allMatch {
		c.mismatch("the predicate fails on one of the rows", c.rows, firstFailing)
	}
	return c
}

// Any checks that at least one row of the result set satisfies the predicate. An empty result
// set fails.
func (c *QueryCheck[T]) Any(predicate func(T) bool) *QueryCheck[T] {
	c.tb.Helper()

	anyMatch := false
	var firstMatching T
	for _, row := range c.rows {
		if predicate(row) {
			anyMatch = true
			firstMatching = row
			break
		}
	}

	if c.consumeNegate() {
		if anyMatch {
			c.unexpectedMatch("the predicate holds for one of the rows", firstMatching)
		}
		return c
	}

	if !anyMatch {
		c.mismatch("the predicate does not hold for any row of the query", c.rows, nil)
	}
	return c
}

// Length checks that the result set contains exactly n rows.
func (c *QueryCheck[T]) Length(n int) *QueryCheck[T] {
	c.tb.Helper()

	matched := len(c.rows) == n

	if c.consumeNegate() {
		if matched {
			c.unexpectedMatch("the length of the query result matches", n)
		}
		return c
	}

	if !matched {
		c.mismatch("the length of the query result mismatches", len(c.rows), n)
	}
	return c
}
