// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains message strings shared by the claim vault HTTP
// handlers and middleware. They are written into response bodies where the
// underlying error must not leak to the caller.
package app

const (
	// MsgInternalServerError replaces the message of any error that is not
	// one of the classified request failures.
	MsgInternalServerError = "internal server error"

	// MsgReplayGuardUnavailable is returned when the replay store cannot be
	// reached, so a signed request can be neither accepted nor rejected.
	MsgReplayGuardUnavailable = "replay protection unavailable, retry later"

	// MsgSignedBodyUnreadable is logged when the body bound to a request
	// token cannot be read.
	MsgSignedBodyUnreadable = "error reading signed body"

	// MsgTokenRejected is logged when a request token fails verification.
	MsgTokenRejected = "request token rejected"
)
