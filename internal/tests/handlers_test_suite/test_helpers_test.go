package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/catalog-service/internal/auth"
	"github.com/rogerio-castellano/catalog-service/internal/catalog"
	handler "github.com/rogerio-castellano/catalog-service/internal/http/handlers"
	"github.com/rogerio-castellano/catalog-service/internal/http/router"
	"github.com/rogerio-castellano/catalog-service/internal/repo"
	"github.com/sirupsen/logrus"
)

var (
	secret = []byte("suite-secret")
	token  string
)

func init() {
	var err error
	token, err = auth.GenerateToken(secret, "admin", "admin", time.Hour)
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

// newRouter wires the full API on a fresh in-memory store.
func newRouter(t *testing.T) http.Handler {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := catalog.NewService(repo.NewInMemoryProductRepository(), log)
	return router.NewRouter(router.Deps{
		Products:  handler.NewProductHandler(svc, log),
		Log:       log,
		JWTSecret: secret,
		AdminRole: "admin",
	})
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	return do(r, http.MethodPost, "/products", p)
}

func mustCreateProduct(t *testing.T, r http.Handler, p handler.ProductRequest) handler.ProductResponse {
	t.Helper()
	w := createProduct(r, p)
	if w.Code != http.StatusCreated {
		t.Fatalf("product creation failed: %d %s", w.Code, w.Body.String())
	}
	var resp handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return resp
}

func listProducts(t *testing.T, r http.Handler, query string) handler.ProductsPageResult {
	t.Helper()
	w := do(r, http.MethodGet, "/products?"+query, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK listing products, got %d", w.Code)
	}
	var resp handler.ProductsPageResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return resp
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func boolPtr(v bool) *bool { return &v }
