// Package request decodes and validates JSON request bodies.
//
// Decode folds the three steps every write handler repeats (decode the
// body, reject an empty body, run the validate:"..." tags) into one call.
// On failure it has already written the 400 response and returns false:
//
//	var in account.LoginInput
//	if !request.Decode(w, r, &in) {
//	    return
//	}
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/attendance-api/internal/utils/response"
)

// validate caches struct metadata, so one instance is shared.
var validate = validator.New()

// Decode reads r.Body as JSON into v and validates it.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)

	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return false
	}

	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}

	if err := validate.Struct(v); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}

	return true
}
