// Package app wires configuration, AWS clients and the user handler.
package app

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-user-lambda-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-user-lambda-go/internal/secret"
	"github.com/ovaphlow/pitchfork/service-user-lambda-go/internal/user"
)

// NewHandler builds the user handler on top of a Secrets Manager client
// created from the default AWS credential chain.
func NewHandler(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (*user.Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewHandlerWithSecrets(cfg, secretsmanager.NewFromConfig(awsCfg), logger), nil
}

// NewHandlerWithSecrets builds the user handler around any Secrets Manager
// compatible client.
func NewHandlerWithSecrets(cfg config.Config, sm secret.API, logger *zap.SugaredLogger) *user.Handler {
	resolver := secret.NewResolver(sm, logger)
	opener := user.NewDBOpener(cfg.Database, resolver)
	return user.NewHandler(user.NewUserService(opener, logger), logger)
}
