package domain

import "errors"

var ErrValidation = errors.New("validation failed")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrMissingToken = errors.New("missing token")
var ErrInvalidToken = errors.New("invalid or expired token")
var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateEmail = errors.New("email already exists")
var ErrReferentialConflict = errors.New("user is referenced in another table")
var ErrDuplicateSubmission = errors.New("duplicate submission")
