// Package session models the access session the pipeline consumes before a
// run. Token issuance, one-time codes, and credential storage are external
// collaborators; this package only answers "may a run start right now".
package session

import (
	"strings"
	"time"
)

// Session is the validated-access value handed to the orchestrator at
// construction. Its lifecycle is owned by the caller.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Checker reports whether a token/expiry pair still grants access.
type Checker interface {
	IsValid(token string, expiresAt time.Time) bool
}

// TimeChecker is the default Checker: a session is valid while it carries a
// non-blank token that has not expired. Now is injectable for tests.
type TimeChecker struct {
	Now func() time.Time
}

func (c TimeChecker) IsValid(token string, expiresAt time.Time) bool {
	if strings.TrimSpace(token) == "" {
		return false
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return expiresAt.After(now())
}
