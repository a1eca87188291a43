// Package acl models the external capability-lookup service the
// permission evaluator consults. The service itself (a secrets-vault
// ACL engine) is a black box; this package carries the token vocabulary
// it grants and the clients that query it.
package acl

// Token is a single capability granted at a vault path.
type Token string

const (
	TokenCreate Token = "create"
	TokenRead   Token = "read"
	TokenUpdate Token = "update"
	TokenDelete Token = "delete"
	TokenList   Token = "list"

	// TokenRoot is the wildcard: a caller holding root on a path
	// satisfies every capability check against it.
	TokenRoot Token = "root"

	// TokenDeny is the explicit-denial signal. Policy said no: it
	// overrides every other token in the set, including root.
	TokenDeny Token = "deny"
)

// TokenSet is the set of capability tokens granted to a caller at one
// path. The empty set means "no matching capability", which is distinct
// from an explicit denial.
type TokenSet map[Token]struct{}

// NewTokenSet builds a set from the given tokens.
func NewTokenSet(tokens ...Token) TokenSet {
	set := make(TokenSet, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// ParseTokens converts wire strings into a token set. Unknown tokens are
// kept as-is; the evaluator only tests for the known vocabulary.
func ParseTokens(raw []string) TokenSet {
	set := make(TokenSet, len(raw))
	for _, s := range raw {
		set[Token(s)] = struct{}{}
	}
	return set
}

// Has reports whether the token is in the set.
func (s TokenSet) Has(token Token) bool {
	_, ok := s[token]
	return ok
}

// Denied reports whether the set carries the explicit-denial token.
func (s TokenSet) Denied() bool {
	return s.Has(TokenDeny)
}

// Tokens returns the set's members; order is unspecified.
func (s TokenSet) Tokens() []Token {
	out := make([]Token, 0, len(s))
	for token := range s {
		out = append(out, token)
	}
	return out
}
