package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrorFamily(t *testing.T) {
	t.Parallel()

	for _, err := range []error{ErrProfileNotFound, ErrItemNotFound, ErrReviewNotFound} {
		assert.ErrorIs(t, err, ErrNotFound)
		assert.True(t, IsNotFoundError(err))
		assert.True(t, IsNotFoundError(fmt.Errorf("lookup: %w", err)))
	}

	assert.False(t, IsNotFoundError(ErrDuplicate))
	assert.False(t, IsNotFoundError(errors.New("something else")))
	assert.False(t, IsNotFoundError(nil))
}
