/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and the notifications shown by the client.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// Entries without an explicit Status answer with 400 Bad Request.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Malformed JSON body."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: User and Station Errors
	ErrUserNotFound:   {Code: ErrUserNotFound, Message: "User not found.", Status: http.StatusNotFound},
	ErrUnknownCity:    {Code: ErrUnknownCity, Message: "Unknown city."},
	ErrUnknownStation: {Code: ErrUnknownStation, Message: "Unknown station %q."},

	// 4xxx: Client-side Validation Errors
	ErrCityRequired:    {Code: ErrCityRequired, Message: "Choose a city first."},
	ErrGenderRequired:  {Code: ErrGenderRequired, Message: "Choose a gender first."},
	ErrColorRequired:   {Code: ErrColorRequired, Message: "Tell others the colour of your clothes."},
	ErrStationRequired: {Code: ErrStationRequired, Message: "Pick your station on the map."},
	ErrNotRegistered:   {Code: ErrNotRegistered, Message: "You are not registered yet."},
	ErrWrongScreen:     {Code: ErrWrongScreen, Message: "This action is not available here."},
	ErrTimerRunning:    {Code: ErrTimerRunning, Message: "The timer is already running."},
	ErrInvalidTimer:    {Code: ErrInvalidTimer, Message: "Pick one of the offered timer durations."},

	// 5xxx: Internal System Errors
	ErrUnknown:             {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrUpstreamUnavailable: {Code: ErrUpstreamUnavailable, Message: "Server is unreachable. Check your connection.", Status: http.StatusBadGateway},
}
