package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/ovaphlow/pitchfork/service-user-lambda-go/internal/app"
	"github.com/ovaphlow/pitchfork/service-user-lambda-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-user-lambda-go/pkg/utilities"
)

func main() {
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("load config: %v", err)
	}

	h, err := app.NewHandler(context.Background(), cfg, sugar)
	if err != nil {
		sugar.Fatalf("init handler: %v", err)
	}

	sugar.Infow("starting user function", "table", cfg.Database.Table, "engine", cfg.Database.Engine)
	lambda.Start(h.Handle)
}
