// Package naming converts identifiers between the snake_case of database
// schemas and the PascalCase of generated entity code.
package naming

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// normalize rewrites separators so hyphenated or spaced identifiers convert
// the same way as underscored ones.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

// Pascal converts an identifier to PascalCase: "order_item" -> "OrderItem".
func Pascal(s string) string {
	return inflect.Camelize(normalize(s))
}

// Snake converts an identifier to snake_case: "OrderItem" -> "order_item".
func Snake(s string) string {
	return inflect.Underscore(normalize(s))
}
