package utilities

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// RequestID returns the Lambda request id carried by ctx. Outside the Lambda
// runtime (local adapter, tests) it falls back to a fresh KSUID so every
// invocation still logs with a correlation id.
func RequestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return NewKSUID()
}
