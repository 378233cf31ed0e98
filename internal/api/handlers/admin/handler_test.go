package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBoxService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/directory"
	"github.com/m04kA/SMC-ClinicBoxService/internal/testutil/memstore"
	importData "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/import_data"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/metrics"
)

func newRouter(store *memstore.Store) *mux.Router {
	log := logger.NewNop()
	uc := importData.NewUseCase(store, store, directory.NewService(store, log), (*metrics.Metrics)(nil), importData.Options{}, log)
	h := NewHandler(uc, log)

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)
	api.HandleFunc("/admin/import/{kind}", h.Import).Methods(http.MethodPost)
	api.HandleFunc("/admin/reservations/count", h.Count).Methods(http.MethodGet)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "user-1")
	req.Header.Set(middleware.HeaderOrgID, "org-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestImportAndCount(t *testing.T) {
	store := memstore.New()
	router := newRouter(store)

	rec := do(router, http.MethodPost, "/api/v1/admin/import/infrastructure", "cae,box\nCentro,Box 1\ncentro ,Box 2\n")
	require.Equal(t, http.StatusOK, rec.Code)

	var infra ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infra))
	assert.Equal(t, 1, infra.CentersCreated)
	assert.Equal(t, 2, infra.BoxesCreated)
	assert.NotEmpty(t, infra.Log)

	rec = do(router, http.MethodPost, "/api/v1/admin/import/Reservations",
		"location,description,summary,start_time\nCentro,Box 1 - Control,Dr. Soto,2024-03-04T13:00:00Z\n")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/admin/reservations/count", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var count CountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, int64(1), count.Count)
}

func TestImport_UnknownKind(t *testing.T) {
	rec := do(newRouter(memstore.New()), http.MethodPost, "/api/v1/admin/import/patients", "a,b\n1,2\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImport_StorageFailureReportsProgress(t *testing.T) {
	store := memstore.New()
	store.FailUpsertAfter = 1
	log := logger.NewNop()
	uc := importData.NewUseCase(store, store, directory.NewService(store, log), (*metrics.Metrics)(nil),
		importData.Options{BatchSize: 1}, log)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/import/reservations", strings.NewReader(
		"location,description,start_time\nCentro,Box 1,2024-03-04T13:00:00Z\nCentro,Box 1,2024-03-04T13:30:00Z\n"))
	req = mux.SetURLVars(req, map[string]string{"kind": "reservations"})
	req = req.WithContext(middleware.WithIdentity(req.Context(), "user-1", "org-1"))
	rec := httptest.NewRecorder()

	NewHandler(uc, log).Import(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.ReservationsCommitted)
	assert.NotEmpty(t, body.Error)
}
