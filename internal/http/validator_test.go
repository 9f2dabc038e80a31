package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequired(t *testing.T) {
	assert.Nil(t, ValidateRequired(CreateBookRequest{
		Title:       "Dune",
		Author:      "Frank Herbert",
		Description: "Desert planet.",
	}))

	missing := ValidateRequired(CreateBookRequest{Title: "Dune"})
	assert.Equal(t, []string{"author", "description"}, missing)

	missing = ValidateRequired(CreateBookRequest{})
	assert.Equal(t, []string{"title", "author", "description"}, missing)
}
