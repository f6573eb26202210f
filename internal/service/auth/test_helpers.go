package auth

import "time"

// NewTestJWTService creates a JWT service with an injectable time function.
// Tests use this to pin token issuance and validation to a fixed clock so
// expiry behavior is deterministic.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
		clockSkew:     0,
	}
}
