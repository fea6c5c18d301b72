package main

import "errors"

// Sentinel errors for command operations
var (
	ErrValidationFailed = errors.New("fixture validation failed")
)
