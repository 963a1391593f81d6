package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rogerio-castellano/catalog-service/internal/auth"
	"github.com/rogerio-castellano/catalog-service/internal/catalog"
	"github.com/rogerio-castellano/catalog-service/internal/db"
	handler "github.com/rogerio-castellano/catalog-service/internal/http/handlers"
	"github.com/rogerio-castellano/catalog-service/internal/http/router"
	"github.com/rogerio-castellano/catalog-service/internal/redissvc"
	"github.com/rogerio-castellano/catalog-service/internal/repo"
	"github.com/sirupsen/logrus"
)

var secret = []byte("integration-secret")

type suite struct {
	router   http.Handler
	database *sql.DB
	token    string
}

// setupSuite runs the API against Postgres, behind the Redis cache when a
// local Redis answers. Tests are skipped without TEST_DATABASE_URL.
func setupSuite(t *testing.T) *suite {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, dbURL)
	if err != nil {
		t.Fatalf("could not connect to database: %v", err)
	}
	if err := db.EnsureSchema(ctx, database); err != nil {
		t.Fatalf("could not create schema: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	var store repo.ProductStore = repo.NewPostgresProductRepository(database)
	if rdb, err := redissvc.Connect(ctx, "localhost:6379"); err == nil {
		store = repo.NewCachedProductStore(store, rdb, time.Minute, log)
		t.Cleanup(func() { rdb.Close() })
	}

	s := &suite{database: database}
	t.Cleanup(func() {
		s.clearAllProducts()
		database.Close()
	})
	s.clearAllProducts()

	s.router = router.NewRouter(router.Deps{
		Products:  handler.NewProductHandler(catalog.NewService(store, log), log),
		Log:       log,
		JWTSecret: secret,
		AdminRole: "admin",
	})
	s.token, err = auth.GenerateToken(secret, "admin", "admin", time.Hour)
	if err != nil {
		t.Fatalf("error generating token: %v", err)
	}
	return s
}

func (s *suite) clearAllProducts() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := s.database.ExecContext(ctx, "TRUNCATE TABLE products"); err != nil {
		panic(err)
	}
}

func (s *suite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+s.token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *suite) mustCreateProduct(t *testing.T, p handler.ProductRequest) handler.ProductResponse {
	t.Helper()
	w := s.do(http.MethodPost, "/products", p)
	if w.Code != http.StatusCreated {
		t.Fatalf("product creation failed: %d %s", w.Code, w.Body.String())
	}
	var resp handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return resp
}
