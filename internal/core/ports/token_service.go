package ports

import "time"

// TokenService issues and validates the signed, time-bounded session tokens
// carried in the session cookie. Tokens are stateless: validity is purely a
// function of the signature and the clock, nothing is stored server-side.
type TokenService interface {
	Issue(subject string, ttl time.Duration) (string, error)

	// Validate returns the subject claim, or one of domain.ErrTokenMalformed,
	// domain.ErrTokenSignatureInvalid, domain.ErrTokenExpired. A token that
	// fails any single check yields no subject at all.
	Validate(token string) (string, error)
}
