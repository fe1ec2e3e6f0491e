// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Errors of the signer middleware and path parsing. All of them are answered
// with 401 or 400 before the request reaches the service layer.
var (
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")
	ErrReplayedToken            = errors.New("request token was already used")
	ErrInvalidPathParam         = errors.New("invalid path parameter")
	ErrInvalidBody              = errors.New("invalid request body")
	ErrMethodNotAllowed         = errors.New("method not allowed")
)
