package http

import (
	"errors"

	apperrors "github.com/utafrali/fashly/pkg/errors"
	"github.com/utafrali/fashly/pkg/validator"
)

// badRequest turns a body decoding failure into INVALID_INPUT and leaves
// validation errors to be reported field by field.
func badRequest(err error) error {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		return err
	}
	return apperrors.InvalidInput("invalid request body: " + err.Error())
}
