package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSelector(t *testing.T) {
	u, err := buildSelector("uniform")
	assert.NoError(t, err)
	assert.NotNil(t, u)

	w, err := buildSelector("weighted")
	assert.NoError(t, err)
	assert.NotNil(t, w)

	def, err := buildSelector("")
	assert.NoError(t, err)
	assert.NotNil(t, def)

	_, err = buildSelector("bogus")
	assert.Error(t, err)
}
