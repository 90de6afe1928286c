package errors

import "errors"

var ErrUnauthorized = errors.New("user is not authorized")
var ErrForbidden = errors.New("operation is forbidden for user")
var ErrNotFound = errors.New("resource not found")
var ErrUnavailable = errors.New("platform api is unavailable")
