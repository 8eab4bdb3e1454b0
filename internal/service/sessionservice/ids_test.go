package sessionservice

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderIDGenerator_MonotonicWithinSameMillisecond(t *testing.T) {
	gen := NewOrderIDGenerator().(*ulidGenerator)
	frozen := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	gen.now = func() time.Time { return frozen }

	prev := ""
	for i := 0; i < 1000; i++ {
		id := gen.NewOrderID()
		assert.True(t, strings.HasPrefix(id, "order-"))
		assert.Greater(t, id, prev)
		prev = id
	}
}
