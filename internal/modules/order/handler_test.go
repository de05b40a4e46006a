package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kobe-cb/retail/internal/modules/auth"
)

func TestPlaceOrderHandler(t *testing.T) {
	cases := []struct {
		name string
		sess *auth.Session
		body string
		want int
	}{
		{"ok", cara, `{"store_id":1,"product_name":"7up","units":2}`, http.StatusCreated},
		{"anonymous", nil, `{"store_id":1,"product_name":"7up","units":2}`, http.StatusUnauthorized},
		{"zero units", cara, `{"store_id":1,"product_name":"7up","units":0}`, http.StatusBadRequest},
		{"unknown product", cara, `{"store_id":1,"product_name":"Fanta","units":1}`, http.StatusNotFound},
		{"too many", cara, `{"store_id":2,"product_name":"7up","units":99}`, http.StatusConflict},
		{"bad json", cara, `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService(t, Options{})
			router := chi.NewRouter()
			router.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), tc.sess)))
				})
			})
			NewHandler(svc).RegisterRoutes(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(tc.body)))
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
			if tc.want != http.StatusCreated {
				return
			}
			var receipt Receipt
			if err := json.NewDecoder(rec.Body).Decode(&receipt); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if receipt.Order.Number != 41 || receipt.Total.String() != "6" {
				t.Fatalf("unexpected receipt: %+v total %s", receipt.Order, receipt.Total)
			}
		})
	}
}
