// Package identity is the port to the identity collaborator that vouches
// for who a caller is. Adapters translate their native failures into the
// sentinel errors below so services never see provider-specific types.
package identity

import "errors"

var (
	ErrUserExists          = errors.New("identity: user already exists")
	ErrInvalidPassword     = errors.New("identity: password rejected by provider")
	ErrUserNotFound        = errors.New("identity: user not found")
	ErrUserNotConfirmed    = errors.New("identity: user not confirmed")
	ErrCredentialsMismatch = errors.New("identity: credentials mismatch")
	ErrCodeMismatch        = errors.New("identity: confirmation code mismatch")
	ErrCodeExpired         = errors.New("identity: confirmation code expired")
)

type Credentials struct {
	Email    string
	Password string
}

type Confirmation struct {
	Email string
	Code  string
}

// Account is what a provider hands back after signup. PasswordHash is only
// set by providers that leave credential storage to us.
type Account struct {
	Sub          string
	PasswordHash string
	Confirmed    bool
}

type Provider interface {
	SignUp(creds *Credentials) (*Account, error)
	SignIn(creds *Credentials) error
	ConfirmAccount(conf *Confirmation) error
	// DeleteAccount undoes a SignUp whose local side failed.
	DeleteAccount(sub string) error
}
