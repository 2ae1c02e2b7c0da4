package recorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputFPS(t *testing.T) {
	assert.Equal(t, 15.0, OutputFPS(15, 30))
	assert.Equal(t, 29.97, OutputFPS(0, 29.97))
	assert.Equal(t, 25.0, OutputFPS(0, 0))
	assert.Equal(t, 25.0, OutputFPS(-1, -1))
}
