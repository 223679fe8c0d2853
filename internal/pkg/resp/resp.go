/*
Package resp provides helper functions for sending HTTP JSON responses.

Successful responses carry the endpoint's own payload shape. Failures share a single
envelope holding the success flag, the business code and a user-facing message.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"izmetro/internal/pkg/errs"
	"izmetro/internal/pkg/logx"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	// Success is always false.
	Success bool `json:"success"`

	// Code is the business error code (see the errs package).
	Code int `json:"code"`

	// Message is the user-facing error description.
	Message string `json:"message"`
}

// SuccessResponse is the body of endpoints that only acknowledge.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// RespondJSON sets the Content-Type and writes payload with the given status.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
			"path", r.URL.Path,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondOK writes payload with 200 OK.
func RespondOK(w http.ResponseWriter, r *http.Request, payload any) {
	RespondJSON(w, r, http.StatusOK, payload)
}

// RespondCreated writes payload with 201 Created.
func RespondCreated(w http.ResponseWriter, r *http.Request, payload any) {
	RespondJSON(w, r, http.StatusCreated, payload)
}

// RespondSuccess writes {"success": true}.
func RespondSuccess(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}

// RespondError writes the error envelope using the status carried by customErr.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	res := ErrorResponse{
		Success: false,
		Code:    customErr.Code,
		Message: customErr.Message,
	}
	RespondJSON(w, r, customErr.Status, res)
}
