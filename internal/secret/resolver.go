// Package secret resolves database credentials stored in AWS Secrets Manager.
package secret

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"
)

// API is the subset of the Secrets Manager client used here.
type API interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Credentials is a username/password pair. It is fetched per invocation and
// never cached.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var (
	ErrEmptySecretID = errors.New("secret id is empty")
	ErrEmptySecret   = errors.New("secret has no value")
	ErrIncomplete    = errors.New("secret is missing username or password")
)

// Resolver fetches credentials by secret id.
type Resolver struct {
	api    API
	logger *zap.SugaredLogger
}

func NewResolver(api API, logger *zap.SugaredLogger) *Resolver {
	return &Resolver{api: api, logger: logger}
}

// Resolve makes one GetSecretValue call and decodes the JSON blob it returns.
func (r *Resolver) Resolve(ctx context.Context, secretID string) (Credentials, error) {
	if secretID == "" {
		return Credentials{}, ErrEmptySecretID
	}
	out, err := r.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(secretID)})
	if err != nil {
		r.logger.Errorw("unable to retrieve secret", "secret_id", secretID, "err", err)
		return Credentials{}, fmt.Errorf("get secret value: %w", err)
	}

	var raw []byte
	switch {
	case out.SecretString != nil:
		raw = []byte(aws.ToString(out.SecretString))
	case len(out.SecretBinary) > 0:
		raw = out.SecretBinary
	default:
		r.logger.Errorw("unable to retrieve secret", "secret_id", secretID, "err", ErrEmptySecret)
		return Credentials{}, ErrEmptySecret
	}

	var c Credentials
	if err := json.Unmarshal(raw, &c); err != nil {
		r.logger.Errorw("unable to decode secret", "secret_id", secretID, "err", err)
		return Credentials{}, fmt.Errorf("decode secret: %w", err)
	}
	if c.Username == "" || c.Password == "" {
		return Credentials{}, ErrIncomplete
	}
	return c, nil
}
