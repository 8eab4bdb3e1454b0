package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"furnishop/internal/pkg/money"
)

func TestFormatter_ConvertsWithRate(t *testing.T) {
	f := money.NewFormatter("ru", 90, "₽")

	assert.InDelta(t, 14400.0, f.Convert(160), 1e-9)
}

func TestFormatter_FormatSmallAmount(t *testing.T) {
	f := money.NewFormatter("en", 1, "$")

	assert.Equal(t, "160 $", f.Format(160))
	assert.Equal(t, "0 $", f.Format(0))
}

func TestFormatter_InvalidInputsFallBack(t *testing.T) {
	f := money.NewFormatter("not a locale!", 0, "")

	assert.InDelta(t, 42.0, f.Convert(42), 1e-9)
	assert.Equal(t, "42", f.Format(42))
}
