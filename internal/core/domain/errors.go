package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrSessionNotFound = errors.New("session not found")
var ErrAttemptInFlight = errors.New("authentication attempt already in flight")
var ErrInvalidRole = errors.New("invalid role")
var ErrUpstreamUnavailable = errors.New("authentication service unavailable")
