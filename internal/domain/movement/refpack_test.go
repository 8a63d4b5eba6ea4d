package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackClientRef(t *testing.T) {
	assert.Equal(t, "        C001", PackClientRef("C001"))
	assert.Equal(t, "            ", PackClientRef(""))
	assert.Equal(t, "ABCDEFGHIJKL", PackClientRef("ABCDEFGHIJKL"))
}

func TestPackDocTypeRef(t *testing.T) {
	assert.Equal(t, "          FA", PackDocTypeRef("FA"))
}

func TestPackNumberRef(t *testing.T) {
	assert.Equal(t, "000000000042", PackNumberRef(42))
	assert.Equal(t, "000000000000", PackNumberRef(0))
	assert.Equal(t, "000999999999", PackNumberRef(999999999))
}

func TestPackRefOverlongKeepsLeftmost(t *testing.T) {
	assert.Equal(t, "ABCDEFGHIJKL", PackClientRef("ABCDEFGHIJKLM"))
	assert.Equal(t, "123456789012", PackNumberRef(1234567890123))
	assert.Equal(t, "ABCDEFGHIJKL", PackDocTypeRef("ABCDEFGHIJKLM"))
}
