package auth

import "time"

// Scope distinguishes end-user sessions from merchant sessions.
type Scope string

const (
	ScopeUser     Scope = "user"
	ScopeMerchant Scope = "merchant"
)

type Strategy interface {
	IssueToken(subjectID int64, scope Scope) (string, error)
	ParseToken(token string) (int64, Scope, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
