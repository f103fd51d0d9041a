//go:build integration

package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-user-lambda-go/internal/config"
)

const usersDDL = `CREATE TABLE users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// setupMySQL starts MySQL, seeds the users table and returns a config
// pointing at it. The container is removed when the test finishes.
func setupMySQL(t *testing.T) (config.Config, *sqlx.DB) {
	t.Helper()
	ctx := context.Background()

	ctr, err := mysql.Run(ctx, "mysql:8.0.36",
		mysql.WithDatabase("customerdb"),
		mysql.WithUsername("lambda_user"),
		mysql.WithPassword("lambda_pass"),
	)
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := ctr.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MySQL container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "parseTime=true")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	db.MustExec(usersDDL)
	db.MustExec("INSERT INTO users (id, name, email) VALUES (42, 'Alice', 'alice@example.com')")

	host, err := ctr.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := ctr.MappedPort(ctx, "3306/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	cfg := config.Config{Database: config.DatabaseConfig{
		SecretName:     "lambda_user-mariadb-secret",
		Host:           host,
		Port:           port.Int(),
		Name:           "customerdb",
		Table:          "users",
		Engine:         "mysql",
		ConnectTimeout: 5 * time.Second,
	}}
	return cfg, db
}

func TestMySQL_EndToEnd(t *testing.T) {
	cfg, db := setupMySQL(t)
	sm := &stubSecrets{value: `{"username":"lambda_user","password":"lambda_pass"}`}
	h := NewHandlerWithSecrets(cfg, sm, zap.NewNop().Sugar())
	ctx := context.Background()

	call := func(req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
		t.Helper()
		resp, err := h.Handle(ctx, req)
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		return resp
	}

	resp := call(events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, QueryStringParameters: map[string]string{"id": "42"}})
	if resp.StatusCode != http.StatusOK || resp.Body != `{"id":42,"name":"Alice","email":"alice@example.com"}` {
		t.Fatalf("get 42: %d %s", resp.StatusCode, resp.Body)
	}

	resp = call(events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: `{"name":"Bob","email":"bob@example.com"}`})
	if resp.StatusCode != http.StatusCreated || resp.Body != `{"message":"User created"}` {
		t.Fatalf("post: %d %s", resp.StatusCode, resp.Body)
	}
	var n int
	if err := db.Get(&n, "SELECT COUNT(*) FROM users WHERE email = ?", "bob@example.com"); err != nil || n != 1 {
		t.Fatalf("bob rows = %d %v", n, err)
	}

	resp = call(events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPut, QueryStringParameters: map[string]string{"id": "42"},
		Body: `{"name":"Alicia","email":"alicia@example.com"}`,
	})
	if resp.StatusCode != http.StatusOK || resp.Body != `{"message":"User 42 updated"}` {
		t.Fatalf("put: %d %s", resp.StatusCode, resp.Body)
	}
	var name string
	if err := db.Get(&name, "SELECT name FROM users WHERE id = 42"); err != nil || name != "Alicia" {
		t.Fatalf("name = %q %v", name, err)
	}

	resp = call(events.APIGatewayProxyRequest{HTTPMethod: http.MethodDelete, QueryStringParameters: map[string]string{"id": "999"}})
	if resp.StatusCode != http.StatusOK || resp.Body != `{"message":"User 999 deleted"}` {
		t.Fatalf("delete 999: %d %s", resp.StatusCode, resp.Body)
	}

	resp = call(events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, QueryStringParameters: map[string]string{"id": "999"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get 999: %d %s", resp.StatusCode, resp.Body)
	}

	if sm.calls != 5 {
		t.Fatalf("secret calls = %d, want one per database request", sm.calls)
	}
}

func TestMySQL_BadCredentials(t *testing.T) {
	cfg, _ := setupMySQL(t)
	sm := &stubSecrets{value: `{"username":"lambda_user","password":"wrong"}`}
	h := NewHandlerWithSecrets(cfg, sm, zap.NewNop().Sugar())

	resp, _ := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, QueryStringParameters: map[string]string{"id": "42"}})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d %s", resp.StatusCode, resp.Body)
	}
}
