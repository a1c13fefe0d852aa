package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	cause := stderrors.New("net::ERR_NAME_NOT_RESOLVED")
	err := Navigation("https://www.pixiv.net/artworks/1", cause)

	assert.Equal(t,
		"navigation error: navigation failed (url https://www.pixiv.net/artworks/1): net::ERR_NAME_NOT_RESOLVED",
		err.Error())
	assert.Equal(t, "validation error: bad url (url x)", Validation("bad url", "x").Error())
	assert.Equal(t, "config error: missing", New(ErrorTypeConfig, "missing").Error())
}

func TestUnwrapAndTypeOf(t *testing.T) {
	cause := stderrors.New("disk full")
	err := fmt.Errorf("saving image: %w", Write("files/1.jpg", cause))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorTypeWrite, TypeOf(err))
	assert.True(t, Is(err, ErrorTypeWrite))
	assert.False(t, Is(err, ErrorTypeNavigation))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(stderrors.New("plain")))
	assert.False(t, Is(nil, ErrorTypeUnknown))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		errType  ErrorType
		expected bool
	}{
		{ErrorTypeNavigation, true},
		{ErrorTypeBrowser, true},
		{ErrorTypeValidation, false},
		{ErrorTypeParsing, false},
		{ErrorTypeWrite, false},
		{ErrorTypeConfig, false},
		{ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.errType))
		})
	}
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ErrorTypeValidation))
	assert.True(t, IsFatal(ErrorTypeBrowser))
	assert.True(t, IsFatal(ErrorTypeConfig))
	assert.False(t, IsFatal(ErrorTypeNavigation))
	assert.False(t, IsFatal(ErrorTypeWrite))
}
