package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sweets-api/internal/domain/entity"
)

func TestParseRole(t *testing.T) {
	r, err := entity.ParseRole("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, r)

	r, err = entity.ParseRole("USER")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, r)

	for _, s := range []string{"", "admin", "ROOT"} {
		_, err := entity.ParseRole(s)
		assert.Error(t, err, "rol %q", s)
	}
}

func TestSweetClone_EsIndependiente(t *testing.T) {
	s := &entity.Sweet{ID: "1", Quantity: 3}
	c := s.Clone()
	c.Quantity = 0
	assert.EqualValues(t, 3, s.Quantity)

	var nilSweet *entity.Sweet
	assert.Nil(t, nilSweet.Clone())
}
