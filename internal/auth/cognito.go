// Package auth talks to the identity provider and verifies the access tokens
// it issues.
package auth

import (
	"context"
	"errors"
	"fmt"

	"watizat/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// CognitoAPI is the subset of the Cognito client used here.
type CognitoAPI interface {
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
}

type Session struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type Cognito struct {
	client   CognitoAPI
	clientID string
}

func NewCognito(client CognitoAPI, clientID string) *Cognito {
	return &Cognito{client: client, clientID: clientID}
}

// SignUp registers the account and returns the subject Cognito assigned to
// it. That subject is the user id everywhere else.
func (c *Cognito) SignUp(ctx context.Context, email, password, name string) (string, error) {
	out, err := c.client.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("name"), Value: aws.String(name)},
		},
	})
	if err != nil {
		return "", mapSignUpError(err)
	}

	sub := aws.ToString(out.UserSub)
	if sub == "" {
		return "", fmt.Errorf("signup returned no user sub")
	}

	return sub, nil
}

func (c *Cognito) SignIn(ctx context.Context, email, password string) (*Session, error) {
	out, err := c.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, mapSignInError(err)
	}

	if out.AuthenticationResult == nil || out.AuthenticationResult.AccessToken == nil {
		return nil, types.ErrInvalidCredentials
	}

	return &Session{
		AccessToken: aws.ToString(out.AuthenticationResult.AccessToken),
		ExpiresIn:   int(out.AuthenticationResult.ExpiresIn),
	}, nil
}

func mapSignUpError(err error) error {
	var invalidPw *ctypes.InvalidPasswordException
	if errors.As(err, &invalidPw) {
		return fmt.Errorf("%w: %s", types.ErrInvalidPassword, aws.ToString(invalidPw.Message))
	}

	var userExists *ctypes.UsernameExistsException
	if errors.As(err, &userExists) {
		return types.ErrAccountExists
	}

	return fmt.Errorf("failed to sign up: %w", err)
}

func mapSignInError(err error) error {
	var notAuthorized *ctypes.NotAuthorizedException
	if errors.As(err, &notAuthorized) {
		return types.ErrInvalidCredentials
	}

	var notFound *ctypes.UserNotFoundException
	if errors.As(err, &notFound) {
		return types.ErrInvalidCredentials
	}

	return fmt.Errorf("failed to sign in: %w", err)
}
