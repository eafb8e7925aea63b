package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPascal(t *testing.T) {
	tests := map[string]string{
		"users":       "Users",
		"order_item":  "OrderItem",
		"user_id":     "UserId",
		"OrderItem":   "OrderItem",
		"order-item":  "OrderItem",
		"order item":  "OrderItem",
		" user_id ":   "UserId",
		"set null":    "SetNull",
		"v2_settings": "V2Settings",
	}
	for in, want := range tests {
		assert.Equal(t, want, Pascal(in), "Pascal(%q)", in)
	}
}

func TestSnake(t *testing.T) {
	tests := map[string]string{
		"OrderItem":  "order_item",
		"order_item": "order_item",
		"UserID":     "user_id",
		"users":      "users",
	}
	for in, want := range tests {
		assert.Equal(t, want, Snake(in), "Snake(%q)", in)
	}
}
