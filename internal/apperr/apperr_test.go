package apperr

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesOnKind(t *testing.T) {
	err := RoleMismatch("teacher")

	assert.True(t, errors.Is(err, ErrRoleMismatch))
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
	assert.Equal(t, "This email is registered as a teacher. Please select the correct role.", err.Error())
}

func TestIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("Enroll: %w", ErrRollNumberTaken)

	assert.True(t, errors.Is(err, ErrRollNumberTaken))
	assert.Equal(t, KindRollNumberTaken, KindOf(err))
}

func TestOperationFailedKeepsCause(t *testing.T) {
	err := OperationFailed(io.ErrUnexpectedEOF)

	assert.True(t, errors.Is(err, ErrOperationFailed))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, "Operation failed", err.Error())
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindOperationFailed, KindOf(errors.New("boom")))
}
