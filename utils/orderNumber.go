package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber produces a human-readable order identifier like
// EID-20260830-4F21A7C09B3D: a configurable prefix, the order date, and a
// random 48-bit suffix. Uniqueness is probabilistic; the unique index on
// orders.order_number is the backstop.
func GenerateOrderNumber(prefix string) string {
	if prefix == "" {
		prefix = "EID"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), suffix)
}
