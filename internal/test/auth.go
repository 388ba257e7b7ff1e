package test

import (
	"errors"

	pkgAuth "github.com/printmart/printmart/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied secret.
func (h HasherStub) Hash(secret string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(secret)
	}
	return "hash:" + secret, nil
}

// Compare validates a secret against the stored hash.
func (h HasherStub) Compare(hash string, secret string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, secret)
	}
	if hash != "hash:"+secret {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(int64, pkgAuth.Scope) (string, error)
	ParseFn func(string) (int64, pkgAuth.Scope, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(subjectID int64, scope pkgAuth.Scope) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(subjectID, scope)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (int64, pkgAuth.Scope, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, pkgAuth.ScopeUser, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub implements the middleware token parsing contract.
type TokenParserStub struct {
	ID      int64
	Scope   pkgAuth.Scope
	Err     error
	ParseFn func(string) (int64, pkgAuth.Scope, error)
}

// ParseToken either delegates to the override or returns the canned result.
func (s TokenParserStub) ParseToken(token string) (int64, pkgAuth.Scope, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return 0, "", s.Err
	}
	scope := s.Scope
	if scope == "" {
		scope = pkgAuth.ScopeUser
	}
	return s.ID, scope, nil
}

var _ pkgAuth.KeyHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
