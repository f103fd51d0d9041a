package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"
)

func TestRegisterRoutes_Health(t *testing.T) {
	h := RegisterRoutes(zap.NewNop().Sugar(), func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		t.Fatal("function should not be called for /health")
		return events.APIGatewayProxyResponse{}, nil
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("security headers missing: %v", rec.Header())
	}
}

func TestRegisterRoutes_ForwardsToFunction(t *testing.T) {
	var got events.APIGatewayProxyRequest
	var reqID string
	fn := func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		got = req
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			reqID = lc.AwsRequestID
		}
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusCreated,
			Headers:    map[string]string{"Content-Type": "application/json", "Access-Control-Allow-Origin": "*"},
			Body:       `{"message":"User created"}`,
		}, nil
	}
	h := RegisterRoutes(zap.NewNop().Sugar(), fn)

	req := httptest.NewRequest(http.MethodPost, "/users?id=7", strings.NewReader(`{"name":"Bob","email":"bob@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated || rec.Body.String() != `{"message":"User created"}` {
		t.Fatalf("response = %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("envelope headers not copied: %v", rec.Header())
	}
	if got.HTTPMethod != http.MethodPost || got.QueryStringParameters["id"] != "7" || got.Path != "/users" {
		t.Fatalf("forwarded request = %+v", got)
	}
	if got.Body != `{"name":"Bob","email":"bob@example.com"}` || got.Headers["Content-Type"] != "application/json" {
		t.Fatalf("forwarded body/headers = %q %v", got.Body, got.Headers)
	}
	if reqID == "" {
		t.Fatal("request id not propagated")
	}
}

func TestRegisterRoutes_AnyMethodReachesFunction(t *testing.T) {
	var method string
	h := RegisterRoutes(zap.NewNop().Sugar(), func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		method = req.HTTPMethod
		return events.APIGatewayProxyResponse{StatusCode: http.StatusMethodNotAllowed, Body: `{"error":"Method PATCH not allowed"}`}, nil
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/users", nil))
	if method != http.MethodPatch || rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("method=%q code=%d", method, rec.Code)
	}
}

func TestAdapt_HandlerError(t *testing.T) {
	h := Adapt(zap.NewNop().Sugar(), func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return events.APIGatewayProxyResponse{}, errors.New("boom")
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
}
