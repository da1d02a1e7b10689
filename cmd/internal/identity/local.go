package identity

import (
	"errors"
	"twoclouds/cmd/internal/domain/entity"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LocalUserStore is the slice of the user repository the local provider
// needs to check credentials.
type LocalUserStore interface {
	FindByEmail(email string) (*entity.User, error)
}

// LocalProvider manages credentials in our own database. It suits a
// single-household deployment where wiring up a hosted identity pool is
// overkill: subjects are random UUIDs and accounts are confirmed on signup.
type LocalProvider struct {
	Users LocalUserStore
}

func NewLocalProvider(users LocalUserStore) *LocalProvider {
	return &LocalProvider{Users: users}
}

func (l *LocalProvider) SignUp(creds *Credentials) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Account{
		Sub:          uuid.NewString(),
		PasswordHash: string(hash),
		Confirmed:    true,
	}, nil
}

func (l *LocalProvider) SignIn(creds *Credentials) error {
	user, err := l.Users.FindByEmail(creds.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !user.EmailVerified {
		return ErrUserNotConfirmed
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrCredentialsMismatch
	}
	return err
}

// ConfirmAccount is a no-op for local accounts, which are confirmed at
// signup; it only reports whether the account exists.
func (l *LocalProvider) ConfirmAccount(conf *Confirmation) error {
	user, err := l.Users.FindByEmail(conf.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return nil
}

// DeleteAccount has nothing external to undo.
func (l *LocalProvider) DeleteAccount(string) error { return nil }
