package attr

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", CorrelationID(ctx))

	ctx = WithCorrelationID(ctx, "abc-123")
	assert.Equal(t, "abc-123", CorrelationID(ctx))
	assert.Equal(t, "abc-123", ExtractCorrelationID(ctx).Value.String())

	// empty ids do not overwrite an existing one
	ctx = WithCorrelationID(ctx, "")
	assert.Equal(t, "abc-123", CorrelationID(ctx))
}

func TestErrorAndUUID(t *testing.T) {
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
	assert.Equal(t, "", Error(nil).Value.String())

	id := uuid.New()
	a := UUID("tournament_id", id)
	assert.Equal(t, "tournament_id", a.Key)
	assert.Equal(t, id.String(), a.Value.String())
}
