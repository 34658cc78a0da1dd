package models_test

import (
	"encoding/json"
	"testing"

	"resep/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	samples := [][2]string{
		{"test1@EXAMPLE.com", "test1@example.com"},
		{"Test2@Example.com", "Test2@example.com"},
		{"TEST3@EXAMPLE.COM", "TEST3@example.com"},
		{"test4@example.COM", "test4@example.com"},
		{"  padded@Example.ORG ", "padded@example.org"},
		{"no-at-sign", "no-at-sign"},
	}
	for _, s := range samples {
		assert.Equal(t, s[1], models.NormalizeEmail(s[0]))
	}
}

func TestParsePrice(t *testing.T) {
	valid := map[string]models.Price{
		"5.25":   525,
		"5.2":    520,
		"5":      500,
		"0":      0,
		"2.00":   200,
		"999.99": 99999,
		"007.10": 710,
		" 1.5 ":  150,
	}
	for raw, want := range valid {
		got, err := models.ParsePrice(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	invalid := map[string]error{
		"":        models.ErrPriceFormat,
		"abc":     models.ErrPriceFormat,
		"1,50":    models.ErrPriceFormat,
		"-1.00":   models.ErrPriceNegative,
		"5.255":   models.ErrPriceDecimals,
		"5.250":   models.ErrPriceDecimals,
		"1000.00": models.ErrPriceMaxDigits,
	}
	for raw, want := range invalid {
		_, err := models.ParsePrice(raw)
		assert.ErrorIs(t, err, want, raw)
	}
}

func TestPriceJSON(t *testing.T) {
	out, err := json.Marshal(models.Price(525))
	require.NoError(t, err)
	assert.Equal(t, `"5.25"`, string(out))

	out, err = json.Marshal(models.Price(7))
	require.NoError(t, err)
	assert.Equal(t, `"0.07"`, string(out))

	var fromNumber, fromString models.Price
	require.NoError(t, json.Unmarshal([]byte(`2.00`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`"12.5"`), &fromString))
	assert.Equal(t, models.Price(200), fromNumber)
	assert.Equal(t, models.Price(1250), fromString)

	var bad models.Price
	assert.ErrorIs(t, bad.UnmarshalJSON([]byte(`1.234`)), models.ErrPriceDecimals)
	assert.ErrorIs(t, bad.UnmarshalJSON([]byte(`"abc"`)), models.ErrPriceFormat)
	assert.ErrorIs(t, bad.UnmarshalJSON([]byte(`true`)), models.ErrPriceFormat)
	assert.Zero(t, bad)

	assert.Equal(t, "5.25", models.Price(525).Decimal().String())
}
