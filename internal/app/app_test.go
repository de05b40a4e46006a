package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kobe-cb/retail/internal/config"
	"github.com/kobe-cb/retail/internal/database/dbtest"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	db := dbtest.Open(t)
	dbtest.Seed(t, db)
	return New(db, &config.Config{
		StoreRadius:             30,
		SupplyGrantPolicy:       config.GrantRequested,
		AllowPlaintextPasswords: true,
		JWTSecret:               "test-secret",
		TokenTTL:                time.Hour,
	})
}

func login(t *testing.T, router http.Handler, name, password string) string {
	t.Helper()
	body := `{"name":"` + name + `","password":"` + password + `"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", name, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return resp.Token
}

func do(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouterOrderFlow(t *testing.T) {
	router := newTestApp(t).Router()

	if rec := do(router, http.MethodPost, "/api/v1/orders", "", `{"store_id":1,"product_name":"7up","units":1}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/api/v1/orders/recent", "garbage", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d", rec.Code)
	}

	token := login(t, router, "cara", "customerpw")
	rec := do(router, http.MethodPost, "/api/v1/orders", token, `{"store_id":1,"product_name":"7up","units":3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("place order: %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"order_number":41`) {
		t.Fatalf("expected order 41, got %s", rec.Body.String())
	}

	rec = do(router, http.MethodGet, "/api/v1/orders/recent", token, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"order_number":41`) {
		t.Fatalf("recent orders: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouterRoleGates(t *testing.T) {
	router := newTestApp(t).Router()
	customer := login(t, router, "cara", "customerpw")
	manager := login(t, router, "mia", "managerpw")
	adminToken := login(t, router, "ada", "adminpw")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"customer updates product", http.MethodPatch, "/api/v1/stores/1/products/7up", customer, `{"units":1}`, http.StatusForbidden},
		{"manager updates product", http.MethodPatch, "/api/v1/stores/1/products/7up", manager, `{"units":1}`, http.StatusOK},
		{"manager reads reports", http.MethodGet, "/api/v1/reports/popular-products", manager, "", http.StatusOK},
		{"manager opens admin", http.MethodGet, "/api/v1/admin/users/4", manager, "", http.StatusForbidden},
		{"admin opens admin", http.MethodGet, "/api/v1/admin/users/4", adminToken, "", http.StatusOK},
		{"customer sees nearby stores", http.MethodGet, "/api/v1/stores/nearby", customer, "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := do(router, tc.method, tc.path, tc.token, tc.body); rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouterSignUpAndMetrics(t *testing.T) {
	router := newTestApp(t).Router()

	rec := do(router, http.MethodPost, "/api/v1/users", "", `{"name":"dan","password":"pw","latitude":3,"longitude":4,"role":"customer"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("sign up: %d %s", rec.Code, rec.Body.String())
	}
	login(t, router, "dan", "pw")

	rec = do(router, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
	for _, want := range []string{`retail_operations_total{operation="sign_up",outcome="ok"}`, `operation="log_in"`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("metrics output is missing %s", want)
		}
	}
}
