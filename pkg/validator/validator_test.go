package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shippingStruct struct {
	FullName   string `json:"full_name" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,phone"`
	PostalCode string `json:"postal_code" validate:"required,numeric,len=5"`
	Payment    string `json:"payment_method" validate:"oneof=credit-card bank-transfer e-wallet"`
}

func validShipping() shippingStruct {
	return shippingStruct{
		FullName:   "Sari Wulandari",
		Email:      "sari@example.com",
		Phone:      "+62 812-3456-7890",
		PostalCode: "12190",
		Payment:    "e-wallet",
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	return valErr.Fields()
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(validShipping()))
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	s := validShipping()
	s.FullName = ""

	fields := fieldsOf(t, Validate(s))
	assert.Equal(t, "is required", fields["full_name"])
	assert.NotContains(t, fields, "FullName")
}

func TestValidate_Phone(t *testing.T) {
	for _, phone := range []string{"08123456789", "+6281234567890", "021 555-1234"} {
		s := validShipping()
		s.Phone = phone
		assert.NoError(t, Validate(s), phone)
	}

	for _, phone := range []string{"abc", "12", "+62-abc-999"} {
		s := validShipping()
		s.Phone = phone
		fields := fieldsOf(t, Validate(s))
		assert.Equal(t, "must be a valid phone number", fields["phone"], phone)
	}
}

func TestValidate_PostalCode(t *testing.T) {
	s := validShipping()
	s.PostalCode = "1234"
	assert.Equal(t, "must be exactly 5 characters", fieldsOf(t, Validate(s))["postal_code"])

	s.PostalCode = "12a45"
	assert.Equal(t, "must contain digits only", fieldsOf(t, Validate(s))["postal_code"])
}

func TestValidate_OneOf(t *testing.T) {
	s := validShipping()
	s.Payment = "cash"
	assert.Contains(t, fieldsOf(t, Validate(s))["payment_method"], "one of")
}

func TestValidate_MultipleErrors(t *testing.T) {
	fields := fieldsOf(t, Validate(shippingStruct{Payment: "e-wallet"}))
	assert.Contains(t, fields, "full_name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "postal_code")
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(shippingStruct{Payment: "e-wallet"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'full_name'")
	assert.Contains(t, err.Error(), "is required")
}

type uuidStruct struct {
	ID string `validate:"uuid"`
}

func TestValidate_UUID(t *testing.T) {
	assert.Equal(t, "must be a valid UUID", fieldsOf(t, Validate(uuidStruct{ID: "not-a-uuid"}))["ID"])
	assert.NoError(t, Validate(uuidStruct{ID: "550e8400-e29b-41d4-a716-446655440000"}))
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"full_name":"Sari","email":"sari@example.com","phone":"08123456789","postal_code":"12190","payment_method":"bank-transfer"}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s shippingStruct
	require.NoError(t, DecodeAndValidate(req, &s))
	assert.Equal(t, "Sari", s.FullName)
	assert.Equal(t, "bank-transfer", s.Payment)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var s shippingStruct
	err := DecodeAndValidate(req, &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
