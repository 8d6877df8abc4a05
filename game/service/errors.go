package service

import "errors"

// Error classes shared by the managers behind the service. Manager
// sentinels wrap one of them so transports can pick a status code with
// errors.Is without importing every manager package.
var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
	ErrConflict = errors.New("already exists")
)
