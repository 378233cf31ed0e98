package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	var gotUser, gotOrg string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUserID(r.Context())
		gotOrg, _ = GetOrgID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Auth(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/centers", nil)
	req.Header.Set(HeaderUserID, "user-1")
	req.Header.Set(HeaderOrgID, " org-1 ")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-1", gotUser)
	assert.Equal(t, "org-1", gotOrg)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/centers", nil)
	req.Header.Set(HeaderUserID, "user-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
