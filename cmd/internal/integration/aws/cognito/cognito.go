package cognitoclient

import (
	"context"
	"errors"
	"os"
	"twoclouds/cmd/internal/identity"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/labstack/gommon/log"
)

// CognitoClient adapts an AWS Cognito user pool to identity.Provider.
type CognitoClient struct {
	client     *cognitoidentityprovider.Client
	clientID   string
	userPoolID string
}

func InitCognitoClient() (*CognitoClient, error) {
	clientID := os.Getenv("COGNITO_CLIENT_ID")
	userPoolID := os.Getenv("COGNITO_USER_POOL_ID")
	if clientID == "" || userPoolID == "" {
		return nil, errors.New("COGNITO_CLIENT_ID and COGNITO_USER_POOL_ID must be set")
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, err
	}

	return &CognitoClient{
		client:     cognitoidentityprovider.NewFromConfig(cfg),
		clientID:   clientID,
		userPoolID: userPoolID,
	}, nil
}

func (c *CognitoClient) SignUp(creds *identity.Credentials) (*identity.Account, error) {
	out, err := c.client.SignUp(context.TODO(), &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(creds.Email),
		Password: aws.String(creds.Password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(creds.Email)},
		},
	})
	if err != nil {
		return nil, mapSignUpError(creds.Email, err)
	}

	// Cognito owns the credentials; confirmation happens via emailed code.
	return &identity.Account{Sub: aws.ToString(out.UserSub)}, nil
}

func (c *CognitoClient) SignIn(creds *identity.Credentials) error {
	_, err := c.client.InitiateAuth(context.TODO(), &cognitoidentityprovider.InitiateAuthInput{
		ClientId: aws.String(c.clientID),
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": creds.Email,
			"PASSWORD": creds.Password,
		},
	})
	if err != nil {
		return mapSignInError(creds.Email, err)
	}
	return nil
}

func (c *CognitoClient) ConfirmAccount(conf *identity.Confirmation) error {
	_, err := c.client.ConfirmSignUp(context.TODO(), &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(c.clientID),
		Username:         aws.String(conf.Email),
		ConfirmationCode: aws.String(conf.Code),
	})
	if err != nil {
		return mapConfirmError(conf.Email, err)
	}
	return nil
}

func (c *CognitoClient) DeleteAccount(sub string) error {
	_, err := c.client.AdminDeleteUser(context.TODO(), &cognitoidentityprovider.AdminDeleteUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(sub),
	})
	return err
}

func mapSignUpError(email string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidPasswordException":
			return identity.ErrInvalidPassword
		case "UsernameExistsException":
			return identity.ErrUserExists
		default:
			log.Errorf("signup failed for user (%s): %s - %s", email, apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
	}
	return err
}

func mapSignInError(email string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "UserNotFoundException":
			return identity.ErrUserNotFound
		case "UserNotConfirmedException":
			return identity.ErrUserNotConfirmed
		case "NotAuthorizedException":
			return identity.ErrCredentialsMismatch
		default:
			log.Errorf("signin failed for user (%s): %s - %s", email, apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
	}
	return err
}

func mapConfirmError(email string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "CodeMismatchException":
			return identity.ErrCodeMismatch
		case "ExpiredCodeException":
			return identity.ErrCodeExpired
		case "UserNotFoundException":
			return identity.ErrUserNotFound
		default:
			log.Errorf("confirmation failed for user (%s): %s - %s", email, apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
	}
	return err
}
