// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks the shape of incoming requests before they
// reach the services.
//
// Validators are stateless: they look only at the value passed in. Rules
// that depend on stored state (ownership, schedule status, proofs) belong
// to the service layer.
package validators

import "context"

// Validator validates the provided input and optionally restricts
// validation to the named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
