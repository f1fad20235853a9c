package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDTO(t *testing.T) {
	dto := struct {
		Name  string
		Price float64
	}{Name: "  Sandalia dama  ", Price: 19999.999}

	NormalizeDTO(&dto)

	assert.Equal(t, "Sandalia dama", dto.Name)
	assert.Equal(t, 20000.0, dto.Price)
}

func TestUpdatesFromPtrDTO(t *testing.T) {
	name := "proveedor"
	dto := struct {
		Name  *string  `json:"name"`
		Email *string  `json:"email"`
		Score *float64 `json:"score"`
	}{Name: &name}

	updates := UpdatesFromPtrDTO(&dto, nil)

	assert.Equal(t, map[string]any{"name": "proveedor"}, updates)
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 42, ParseIntDefault(" 42 ", 7))
	assert.Equal(t, 7, ParseIntDefault("nope", 7))
	assert.Equal(t, 7, ParseIntDefault("-3", 7))
}
