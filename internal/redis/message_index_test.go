package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageKey(t *testing.T) {
	assert.Equal(t, "karma:msg:-1001:42", messageKey(-1001, 42))
}
