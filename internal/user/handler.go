package user

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-user-lambda-go/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-user-lambda-go/pkg/response"
	"github.com/ovaphlow/pitchfork/service-user-lambda-go/pkg/utilities"
)

// Handler maps an API Gateway proxy event to one user operation.
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Handle is the Lambda entry point. It never returns an error: every
// failure becomes an envelope with the matching status code.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log := h.logger.With("request_id", utilities.RequestID(ctx), "method", req.HTTPMethod)

	body, err := parseBody(req)
	if err != nil {
		log.Debugw("invalid payload", "err", err)
		return h.fail(log, ErrInvalidJSON), nil
	}
	id := req.QueryStringParameters["id"]

	switch req.HTTPMethod {
	case http.MethodGet:
		if id == "" {
			return h.fail(log, ErrMissingID), nil
		}
		rec, err := h.svc.Get(ctx, id)
		if err != nil {
			return h.fail(log, err), nil
		}
		resp, err := response.JSON(http.StatusOK, rec)
		if err != nil {
			return h.fail(log, externalError(err)), nil
		}
		return resp, nil

	case http.MethodPost:
		in, ok := userInput(body)
		if !ok {
			return h.fail(log, ErrMissingFields), nil
		}
		if err := h.svc.Create(ctx, in); err != nil {
			return h.fail(log, err), nil
		}
		return response.Message(http.StatusCreated, "User created"), nil

	case http.MethodPut:
		if id == "" {
			return h.fail(log, ErrMissingID), nil
		}
		in, ok := userInput(body)
		if !ok {
			return h.fail(log, ErrMissingFields), nil
		}
		if err := h.svc.Update(ctx, id, in); err != nil {
			return h.fail(log, err), nil
		}
		return response.Message(http.StatusOK, fmt.Sprintf("User %s updated", id)), nil

	case http.MethodDelete:
		if id == "" {
			return h.fail(log, ErrMissingID), nil
		}
		if err := h.svc.Delete(ctx, id); err != nil {
			return h.fail(log, err), nil
		}
		return response.Message(http.StatusOK, fmt.Sprintf("User %s deleted", id)), nil

	default:
		return h.fail(log, &Error{
			Kind:    KindMethodNotAllowed,
			Message: fmt.Sprintf("Method %s not allowed", req.HTTPMethod),
		}), nil
	}
}

func (h *Handler) fail(log *zap.SugaredLogger, err error) events.APIGatewayProxyResponse {
	kind := KindOf(err)
	if kind == KindExternalService {
		log.Errorw("database operation failed", "err", err)
	} else {
		log.Debugw("request rejected", "kind", kind.String(), "err", err)
	}
	return response.Error(kind.Status(), err.Error())
}

// parseBody decodes the request body as a JSON object. An absent body is
// treated as {}.
func parseBody(req events.APIGatewayProxyRequest) (map[string]any, error) {
	raw := []byte(req.Body)
	if req.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, fmt.Errorf("decode base64 body: %w", err)
		}
		raw = b
	}
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("body is null")
	}
	return m, nil
}

// userInput extracts name and email; both must be non-empty strings.
func userInput(body map[string]any) (entity.UserInput, bool) {
	name, _ := body["name"].(string)
	email, _ := body["email"].(string)
	if name == "" || email == "" {
		return entity.UserInput{}, false
	}
	return entity.UserInput{Name: name, Email: email}, true
}
