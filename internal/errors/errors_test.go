package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
)

func TestError_Error(t *testing.T) {
	err := errors.NotFound("spell not found")
	assert.Equal(t, "NOT_FOUND: spell not found", err.Error())

	wrapped := errors.Wrap(stderrors.New("boom"), "fetch failed")
	assert.Equal(t, "INTERNAL: fetch failed: boom", wrapped.Error())
}

func TestWrap_PreservesCode(t *testing.T) {
	inner := errors.NotFound("page missing")
	wrapped := errors.Wrap(inner, "failed to drop")

	assert.Equal(t, errors.CodeNotFound, wrapped.Code)
	assert.True(t, errors.IsNotFound(wrapped))
	assert.True(t, stderrors.Is(wrapped, inner))
}

func TestWrapWithCode(t *testing.T) {
	inner := stderrors.New("connection refused")
	wrapped := errors.WrapWithCode(inner, errors.CodeUnavailable, "compendium unreachable")

	assert.Equal(t, errors.CodeUnavailable, wrapped.Code)
	assert.True(t, errors.IsUnavailable(wrapped))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, "should be nil"))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeInvalidArgument, errors.GetCode(errors.InvalidArgument("bad input")))
}

func TestWithMeta(t *testing.T) {
	err := errors.NotFound("no pages").
		WithMeta("category", "spell").
		WithMeta("name", "Fireball")

	meta := errors.GetMeta(err)
	assert.Equal(t, "spell", meta["category"])
	assert.Equal(t, "Fireball", meta["name"])
}

func TestValidationBuilder(t *testing.T) {
	err := errors.NewValidationBuilder().Build()
	assert.NoError(t, err)

	vb := errors.NewValidationBuilder()
	vb.RequiredField("Client")
	vb.InvalidField("BookItemID", "must not be empty")
	err = vb.Build()

	assert.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "Client")
}

func TestValidateRequired(t *testing.T) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", "  ", vb)
	errors.ValidateRequired("category", "spell", vb)

	err := vb.Build()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "name")
	assert.NotContains(t, err.Error(), "category")
}
