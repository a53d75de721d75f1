package auth

import "time"

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Admin is the single configured editor account.
type Admin struct {
	Email        string
	PasswordHash string // bcrypt
}

// loginAttempts tracks failed logins for one email.
type loginAttempts struct {
	failed      int
	lockedUntil time.Time
}

func (a loginAttempts) locked(now time.Time) bool {
	return now.Before(a.lockedUntil)
}

func (a loginAttempts) recordFailure(max int, lock time.Duration, now time.Time) loginAttempts {
	a.failed++
	if a.failed >= max {
		a.lockedUntil = now.Add(lock)
		a.failed = 0
	}
	return a
}
