// Package response builds the API Gateway proxy envelope returned by every
// invocation.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// fallbackBody is used when even the error envelope cannot be encoded.
const fallbackBody = `{"error":"Internal server error"}`

// Headers returns the fixed header set. Each call returns a fresh map.
func Headers() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "OPTIONS,GET,POST,PUT,DELETE",
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

// JSON encodes body and wraps it with status and the fixed headers.
// time.Time values encode as RFC 3339 text; values encoding/json cannot
// represent (NaN, channels, funcs) return an error.
func JSON(status int, body any) (events.APIGatewayProxyResponse, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("encode response body: %w", err)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    Headers(),
		Body:       string(b),
	}, nil
}

// Message returns {"message": msg}.
func Message(status int, msg string) events.APIGatewayProxyResponse {
	return mustJSON(status, map[string]string{"message": msg})
}

// Error returns {"error": msg}.
func Error(status int, msg string) events.APIGatewayProxyResponse {
	return mustJSON(status, map[string]string{"error": msg})
}

func mustJSON(status int, body map[string]string) events.APIGatewayProxyResponse {
	resp, err := JSON(status, body)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    Headers(),
			Body:       fallbackBody,
		}
	}
	return resp
}
