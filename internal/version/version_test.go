package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "v1.1.1-beta", String())
	assert.Equal(t, "1.1.1", Short())

	old := Build
	t.Cleanup(func() { Build = old })
	Build = "abc123"
	assert.Equal(t, "v1.1.1-beta+abc123", String())
}
