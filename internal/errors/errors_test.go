package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driftcrew/wildsea-api/internal/errors"
)

func TestWrapPreservesCode(t *testing.T) {
	base := errors.NotFound("character char_123 not found")
	wrapped := errors.Wrap(base, "failed to load character")

	assert.True(t, errors.IsNotFound(wrapped))
	assert.Contains(t, wrapped.Error(), "failed to load character")
	assert.Contains(t, wrapped.Error(), "char_123")
}

func TestWrapForeignErrorDefaultsToInternal(t *testing.T) {
	wrapped := errors.Wrap(fmt.Errorf("connection refused"), "failed to save ship")

	assert.True(t, errors.IsInternal(wrapped))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, "ignored"))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeInvalidArgument, errors.GetCode(errors.InvalidArgument("bad")))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
}

func TestWithMeta(t *testing.T) {
	err := errors.InvalidArgument("aspect budget exceeded").
		WithMeta("character_id", "char_1").
		WithMeta("budget", 4)

	assert.Equal(t, "char_1", err.Meta["character_id"])
	assert.Equal(t, 4, err.Meta["budget"])
}

func TestValidationBuilder(t *testing.T) {
	vb := errors.NewValidationBuilder()
	assert.NoError(t, vb.Build())
	assert.Empty(t, vb.Messages())

	vb.Fieldf("aspects", "must select exactly %d aspects", 4)
	vb.RequiredField("name")

	err := vb.Build()
	assert.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Len(t, vb.Messages(), 2)
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, 404, errors.CodeNotFound.HTTPStatus())
	assert.Equal(t, 400, errors.CodeInvalidArgument.HTTPStatus())
	assert.Equal(t, 409, errors.CodeAlreadyExists.HTTPStatus())
	assert.Equal(t, 412, errors.CodeFailedPrecondition.HTTPStatus())
	assert.Equal(t, 500, errors.CodeInternal.HTTPStatus())
}
