package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/annemirova/innerflow/internal/identity"
	"github.com/annemirova/innerflow/internal/localstore"
	"github.com/annemirova/innerflow/internal/model"
	"github.com/annemirova/innerflow/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *service.Journal) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	log := zap.NewNop()
	svc := service.NewJournal(
		localstore.New(dir, log),
		identity.New(dir, time.Millisecond, 10*time.Millisecond, log),
		log,
	)
	return NewRouter(svc, log, []string{"*"}), svc
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAPI_SaveThenList(t *testing.T) {
	r, _ := newTestRouter(t)

	e := model.Entry{
		Date:         time.Now().UTC(),
		Achievements: []string{"did X", "", ""},
		Happiness:    []string{"", "", ""},
		DrainerLevel: model.DrainerNone,
		MITCompleted: true,
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/entries", e)
	require.Equal(t, http.StatusOK, w.Code)

	var saved model.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	require.NotEmpty(t, saved.ID) // server assigns missing ids
	require.NotZero(t, saved.Timestamp)

	w = doJSON(t, r, http.MethodGet, "/api/v1/entries", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []model.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, saved.ID, entries[0].ID)
}

func TestAPI_SaveRejectsBadJSON(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/entries", bytes.NewBufferString("{nope"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_ListEmpty(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/v1/entries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())
}

func TestAPI_TodayNotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/v1/entries/today", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_TodayAfterSave(t *testing.T) {
	r, _ := newTestRouter(t)
	e := model.Entry{Date: time.Now().UTC(), MITCompleted: true}
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/v1/entries", e).Code)

	w := doJSON(t, r, http.MethodGet, "/api/v1/entries/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_RelativeOffset(t *testing.T) {
	r, _ := newTestRouter(t)
	e := model.Entry{Date: time.Now().UTC().AddDate(0, 0, -1), MITCompleted: true}
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/v1/entries", e).Code)

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodGet, "/api/v1/entries/relative?offset=-1", nil).Code)
	require.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/api/v1/entries/relative?offset=-2", nil).Code)
	require.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/api/v1/entries/relative?offset=x", nil).Code)
}

func TestAPI_Stats(t *testing.T) {
	r, _ := newTestRouter(t)

	// One valid and one blank entry: only the valid one counts.
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/v1/entries",
		model.Entry{Date: time.Now().UTC(), MITCompleted: true}).Code)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/v1/entries",
		model.Entry{Date: time.Now().UTC().AddDate(0, 0, -1)}).Code)

	w := doJSON(t, r, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, 1, stats["recordedDays"])
}

func TestAPI_MigrateWithoutRemote(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/v1/entries",
		model.Entry{Date: time.Now().UTC(), MITCompleted: true}).Code)

	w := doJSON(t, r, http.MethodPost, "/api/v1/migrate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res model.MigrateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
}

func TestAPI_InsightUnknownEntry(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/entries/nope/insight", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_Health(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
