package icons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	assert.Equal(t, "✓", Get("check"))
	assert.Equal(t, "🌙", Get("moon"))
	assert.Equal(t, Fallback, Get("rocket"))
}
