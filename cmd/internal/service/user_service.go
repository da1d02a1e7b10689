package service

import (
	"errors"
	"strconv"
	"time"
	"twoclouds/cmd/internal/domain/entity"
	"twoclouds/cmd/internal/identity"
	"twoclouds/cmd/internal/utils"
	"twoclouds/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// sessionTTL is how long an issued session token stays valid. Generous by
// design: there are exactly two users and they stay signed in.
const sessionTTL = 30 * 24 * time.Hour

type UserRepository interface {
	FindByID(id int) (*entity.User, error)
	FindBySub(sub string) (*entity.User, error)
	FindAll() ([]*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Save(user *entity.User) error
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64,nospaces,hasspecial,hasdigit,hasupper,haslower"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type ConfirmSignupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,min=1,max=6"`
}

type UserResponse struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type UserLoginResponse struct {
	AccessToken string `json:"access_token"`
}

type DefaultUserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	Provider identity.Provider
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, provider identity.Provider) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, Validate: validate, Provider: provider}
}

func (u *DefaultUserService) GetUsers() ([]*UserResponse, apierror.ErrorResponse) {
	users, err := u.UserRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch all users: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

func (u *DefaultUserService) GetUser(rawId, subId string) (*UserResponse, apierror.ErrorResponse) {
	id, err := strconv.Atoi(rawId)
	if err != nil {
		return nil, apierror.NewSimple(400, "ID is not a number")
	}

	caller, err := u.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.InvalidAuthTokenError
	}

	user, err := u.UserRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch user by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.NotFoundError
	}
	return toUserResponse(user), nil
}

// CreateUser registers the account with the identity provider and mirrors
// it in our database. If the database write fails, the provider-side
// account is reverted so signup can be retried cleanly.
func (u *DefaultUserService) CreateUser(req *CreateUserRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return apierror.InternalServerError
	}
	if found {
		return apierror.UserAlreadyExistsError
	}

	creds := &identity.Credentials{Email: req.Email, Password: req.Password}
	account, apierr, revert := handleUserSignup(u.Provider, creds)
	if apierr != nil {
		return apierr
	}

	now := utils.NowUTC()
	user := &entity.User{
		SubUUID:       account.Sub,
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  account.PasswordHash,
		EmailVerified: account.Confirmed,
		IsAdmin:       false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = u.UserRepo.Save(user)
	if err != nil {
		revert()
		log.Errorf("failed to create user: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (u *DefaultUserService) Login(req *UserLoginRequest) (*UserLoginResponse, apierror.ErrorResponse) {
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.IDPUserNotFoundError
	}

	creds := &identity.Credentials{Email: req.Email, Password: req.Password}
	if apierr := handleUserSignin(u.Provider, creds); apierr != nil {
		return nil, apierr
	}

	token, err := utils.NewSignedToken(user.SubUUID, user.Email, sessionTTL)
	if err != nil {
		log.Errorf("failed to issue session token for user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}
	return &UserLoginResponse{AccessToken: token}, nil
}

func (u *DefaultUserService) ConfirmSignup(req *ConfirmSignupRequest) apierror.ErrorResponse {
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return apierror.InternalServerError
	}
	if user == nil {
		return apierror.IDPUserNotFoundError
	}
	if user.EmailVerified {
		return apierror.UserAlreadyConfirmedError
	}

	conf := &identity.Confirmation{Email: req.Email, Code: req.Code}
	if apierr := handleSignupConfirmation(u.Provider, conf); apierr != nil {
		return apierr
	}

	user.EmailVerified = true
	user.UpdatedAt = utils.NowUTC()
	err = u.UserRepo.Save(user)
	if err != nil {
		log.Errorf("failed to update user (%d) verified status: %v", user.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func handleUserSignup(provider identity.Provider, creds *identity.Credentials) (*identity.Account, apierror.ErrorResponse, func()) {
	account, err := provider.SignUp(creds)
	if err == nil {
		revert := func() {
			if derr := provider.DeleteAccount(account.Sub); derr != nil {
				log.Errorf("failed to revert signup for user (%s): %v", creds.Email, derr)
			}
		}
		return account, nil, revert
	}

	noop := func() {}
	switch {
	case errors.Is(err, identity.ErrInvalidPassword):
		return nil, apierror.IDPInvalidPasswordError, noop
	case errors.Is(err, identity.ErrUserExists):
		return nil, apierror.IDPExistingEmailError, noop
	default:
		log.Errorf("failed to signup user (%s): %v", creds.Email, err)
		return nil, apierror.InternalServerError, noop
	}
}

func handleUserSignin(provider identity.Provider, creds *identity.Credentials) apierror.ErrorResponse {
	err := provider.SignIn(creds)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, identity.ErrUserNotFound):
		return apierror.IDPUserNotFoundError
	case errors.Is(err, identity.ErrUserNotConfirmed):
		return apierror.IDPUserNotConfirmedError
	case errors.Is(err, identity.ErrCredentialsMismatch):
		return apierror.IDPCredentialsMismatchError
	default:
		log.Errorf("failed to signin user (%s): %v", creds.Email, err)
		return apierror.InternalServerError
	}
}

func handleSignupConfirmation(provider identity.Provider, conf *identity.Confirmation) apierror.ErrorResponse {
	err := provider.ConfirmAccount(conf)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, identity.ErrCodeMismatch):
		return apierror.IDPConfirmCodeMismatchError
	case errors.Is(err, identity.ErrCodeExpired):
		return apierror.IDPConfirmCodeExpiredError
	case errors.Is(err, identity.ErrUserNotFound):
		return apierror.IDPUserNotFoundError
	default:
		log.Errorf("failed to confirm user (%s): %v", conf.Email, err)
		return apierror.InternalServerError
	}
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
		UpdatedAt: utils.FormatEpoch(user.UpdatedAt),
	}
}
