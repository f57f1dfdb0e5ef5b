package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUID(t *testing.T) {
	a := GenerateUUID("rtbfa")
	b := GenerateUUID("rtbfa")

	assert.True(t, strings.HasPrefix(a, "rtbfa_"))
	assert.NotEqual(t, a, b)
	assert.Len(t, a, len("rtbfa_")+26) // ULID text form is 26 chars
}
