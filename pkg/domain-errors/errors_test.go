package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	base := New(CodeNotFound, "contract not found")
	wrapped := fmt.Errorf("load: %w", base)

	assert.True(t, HasCode(base, CodeNotFound))
	assert.True(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(wrapped, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
	assert.False(t, HasCode(nil, CodeNotFound))
}

func TestHasCode_NestedDomainErrors(t *testing.T) {
	inner := New(CodeGatewayFailure, "declined")
	outer := Wrap(inner, CodeInternal, "deposit failed")

	assert.True(t, HasCode(outer, CodeInternal))
	assert.True(t, HasCode(outer, CodeGatewayFailure))
	assert.Equal(t, CodeInternal, CodeOf(outer))
}

func TestCodeOf_ForeignError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.False(t, Is(errors.New("boom")))
	assert.True(t, Is(New(CodeValidation, "x")))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeGatewayFailure, "charge failed")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "charge failed: connection reset", err.Error())
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeNotFound:             http.StatusNotFound,
		CodeUnauthorized:         http.StatusForbidden,
		CodeValidation:           http.StatusBadRequest,
		CodeUnsupportedCurrency:  http.StatusBadRequest,
		CodeInvalidTransition:    http.StatusConflict,
		CodeAlreadyReleased:      http.StatusConflict,
		CodeDuplicateDeposit:     http.StatusConflict,
		CodeProviderNotVerified:  http.StatusUnprocessableEntity,
		CodeMilestoneNotApproved: http.StatusUnprocessableEntity,
		CodeNoEscrowFound:        http.StatusUnprocessableEntity,
		CodeRateUnavailable:      http.StatusBadGateway,
		CodeGatewayFailure:       http.StatusBadGateway,
		CodeTimeout:              http.StatusGatewayTimeout,
		CodeInternal:             http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
