// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package access

import (
	"strings"

	"github.com/danghuy/inkwell/internal/platform/constants"
)

// # Admin Navigation Policy

// Decision is the access verdict the redirect policy consumes.
type Decision struct {
	// Authenticated reports whether any principal is signed in.
	Authenticated bool

	// Elevated reports whether the principal passed the claims gate.
	Elevated bool
}

/*
Redirect applies the admin-area navigation policy.

Description: Given the verdict for the current principal and the requested
path, it returns where the principal should be sent instead, and whether the
session must be terminated first.

Rules:
  - Elevated principal on the sign-in entry point  -> admin landing page.
  - Non-elevated principal inside the admin area   -> sign out, then sign-in page.
  - Anonymous principal inside the admin area      -> sign-in page.
  - Anything else                                  -> no redirect.

The sign-in entry point itself is exempt from the two forced-redirect rules;
redirecting it to itself would loop.

Parameters:
  - verdict: Decision
  - path: string (requested navigation target)

Returns:
  - string: redirect target, empty when the requested path should render
  - bool: true when the session must be forcibly terminated first
*/
func Redirect(verdict Decision, path string) (string, bool) {
	onSignIn := path == constants.AdminSignInPath
	underAdmin := strings.HasPrefix(path, constants.AdminPathPrefix)

	switch {
	case verdict.Authenticated && verdict.Elevated && onSignIn:
		return constants.AdminHomePath, false

	case verdict.Authenticated && !verdict.Elevated && underAdmin && !onSignIn:
		return constants.AdminSignInPath, true

	case !verdict.Authenticated && underAdmin && !onSignIn:
		return constants.AdminSignInPath, false

	default:
		return "", false
	}
}
