package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreWrapsOnce(t *testing.T) {
	base := errors.New("unavailable")

	err := Store("tiers.list", base)
	require.Error(t, err)
	assert.True(t, IsStore(err))
	assert.ErrorIs(t, err, base)

	again := Store("outer", fmt.Errorf("ctx: %w", err))
	var se *StoreError
	require.True(t, errors.As(again, &se))
	assert.Equal(t, "tiers.list", se.Op)

	assert.NoError(t, Store("noop", nil))
}

func TestKinds(t *testing.T) {
	conflict := fmt.Errorf("delete: %w", &ConflictError{TierID: "gold", Count: 3})
	assert.True(t, IsConflict(conflict))
	assert.False(t, IsValidation(conflict))

	var ce *ConflictError
	require.True(t, errors.As(conflict, &ce))
	assert.EqualValues(t, 3, ce.Count)
	assert.Contains(t, ce.Error(), "3 customer(s)")

	assert.True(t, IsValidation(Validation("rewardRate", "must be within [0,1]")))
	assert.True(t, IsCursorInvalid(&CursorInvalidError{Cursor: "p-1"}))
	assert.Equal(t, "invalid argument: boom", (&ValidationError{Reason: "boom"}).Error())
}
