package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPricesPair(t *testing.T) {
	newPrice, oldPrice, discount := ExtractPrices("Now €49.99 was €89.99, save 40%")

	require.NotNil(t, newPrice)
	require.NotNil(t, oldPrice)
	require.NotNil(t, discount)
	assert.Equal(t, 49.99, *newPrice)
	assert.Equal(t, 89.99, *oldPrice)
	assert.Equal(t, 40, *discount)
}

func TestExtractPricesSingle(t *testing.T) {
	newPrice, oldPrice, discount := ExtractPrices("€19.50 only")

	require.NotNil(t, newPrice)
	assert.Equal(t, 19.50, *newPrice)
	assert.Nil(t, oldPrice)
	assert.Nil(t, discount)
}

func TestExtractPricesNone(t *testing.T) {
	newPrice, oldPrice, discount := ExtractPrices("no price here")

	assert.Nil(t, newPrice)
	assert.Nil(t, oldPrice)
	assert.Nil(t, discount)
}

func TestExtractPricesDiscountWithoutAmount(t *testing.T) {
	newPrice, oldPrice, discount := ExtractPrices("everything up to 70% off")

	assert.Nil(t, newPrice)
	assert.Nil(t, oldPrice)
	require.NotNil(t, discount)
	assert.Equal(t, 70, *discount)
}

func TestExtractPricesCommaDecimal(t *testing.T) {
	newPrice, oldPrice, _ := ExtractPrices("was EUR 89,99 now EUR 49,99")

	require.NotNil(t, newPrice)
	require.NotNil(t, oldPrice)
	assert.Equal(t, 49.99, *newPrice)
	assert.Equal(t, 89.99, *oldPrice)
}

func TestExtractPricesFirstTwoOnly(t *testing.T) {
	// Only the first two amounts matter; the larger becomes the old price.
	newPrice, oldPrice, _ := ExtractPrices("€10.00 €30.00 €99.00 €5.00")

	require.NotNil(t, newPrice)
	require.NotNil(t, oldPrice)
	assert.Equal(t, 10.0, *newPrice)
	assert.Equal(t, 30.0, *oldPrice)
}

func TestExtractPricesPoundAndCode(t *testing.T) {
	newPrice, _, _ := ExtractPrices("reduced to £12.99")
	require.NotNil(t, newPrice)
	assert.Equal(t, 12.99, *newPrice)

	newPrice, _, _ = ExtractPrices("GBP 7.50 click and collect")
	require.NotNil(t, newPrice)
	assert.Equal(t, 7.50, *newPrice)
}
