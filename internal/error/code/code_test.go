package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryCodeHasMessageAndStatus(t *testing.T) {
	for c := range codeStatusMap {
		_, ok := codeMessageMap[c]
		assert.True(t, ok, "code %d has no message", c)
	}
	assert.Len(t, codeMessageMap, len(codeStatusMap))
}

func TestDispatchStatuses(t *testing.T) {
	assert.Equal(t, 404, GetStatus(ErrResourceNotFound))
	assert.Equal(t, 409, GetStatus(ErrResourceConflict))
	assert.Equal(t, 412, GetStatus(ErrPreconditionFailed))
	assert.Equal(t, 400, GetStatus(ErrValidation))
	assert.Equal(t, 500, GetStatus(999999))
	assert.Equal(t, "未知错误", GetMessage(999999))
}
