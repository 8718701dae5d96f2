package db

import (
	"fmt"
	"strconv"
	"strings"
)

// Rebind rewrites $1-style placeholders into the form the driver expects
// and returns the arguments in the order the rewritten query binds them.
//
// Postgres takes the query as is. SQLite gets ?NNN, which keeps the index.
// MySQL only has positional ?, so arguments are reordered and repeated to
// follow the placeholders. Every $n must satisfy 1 <= n <= len(args),
// otherwise ErrInvalidPlaceholder is returned.
// Placeholders inside string literals are not detected, so keep literals free of $n.
func Rebind(driver, query string, args ...any) (string, []any, error) {
	if !strings.Contains(query, "$") {
		return query, args, nil
	}

	var (
		b   strings.Builder
		out []any
	)
	b.Grow(len(query))

	for i := 0; i < len(query); i++ {
		if query[i] != '$' || i+1 >= len(query) || !isDigit(query[i+1]) {
			b.WriteByte(query[i])
			continue
		}

		start := i + 1
		for i+1 < len(query) && isDigit(query[i+1]) {
			i++
		}
		n, err := strconv.Atoi(query[start : i+1])
		if err != nil || n < 1 || n > len(args) {
			return "", nil, fmt.Errorf("%w: $%s with %d arguments", ErrInvalidPlaceholder, query[start:i+1], len(args))
		}

		switch driver {
		case DriverMySQL:
			b.WriteByte('?')
			out = append(out, args[n-1])
		case DriverSQLite:
			b.WriteByte('?')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		}
	}

	if driver != DriverMySQL {
		return b.String(), args, nil
	}
	return b.String(), out, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
