/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific request, presence and client-side validation failures
both inside the server and on the wire, where they travel in the error envelope.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: User and Station Errors
const (
	// ErrUserNotFound indicates that no user record exists for the given id.
	ErrUserNotFound = 2101

	// ErrUnknownCity indicates that the city is not present in the station catalog.
	ErrUnknownCity = 2201

	// ErrUnknownStation indicates that the station does not belong to the user's city.
	ErrUnknownStation = 2202
)

// 4xxx: Client-side Validation Errors. These never reach the server.
const (
	// ErrCityRequired indicates that registration was attempted without a city.
	ErrCityRequired = 4001

	// ErrGenderRequired indicates that registration was attempted without a gender.
	ErrGenderRequired = 4002

	// ErrColorRequired indicates that joining was attempted without a clothing colour.
	ErrColorRequired = 4003

	// ErrStationRequired indicates that joining was attempted without a selected station.
	ErrStationRequired = 4004

	// ErrNotRegistered indicates that an operation needs a current user id and none is set.
	ErrNotRegistered = 4005

	// ErrWrongScreen indicates that a flow was triggered from a screen where it is not available.
	ErrWrongScreen = 4006

	// ErrTimerRunning indicates that a countdown was started while another one is running.
	ErrTimerRunning = 4007

	// ErrInvalidTimer indicates a countdown duration outside the offered options.
	ErrInvalidTimer = 4008
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrUpstreamUnavailable indicates that the client could not reach the user store.
	ErrUpstreamUnavailable = 5001
)
