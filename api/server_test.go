package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxjournal/journal"
)

func newTestServer(t *testing.T) (*Server, *journal.MemoryBlob) {
	t.Helper()
	blob := journal.NewMemoryBlob()
	store := journal.NewStore(blob, "", nil)
	_, err := store.Load()
	require.NoError(t, err)
	return NewServer(store, nil, gin.TestMode), blob
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type tradeResponse struct {
	Trade   journal.Trade `json:"trade"`
	Warning string        `json:"warning"`
}

func winBody(date string) map[string]any {
	return map[string]any{
		"date":    date,
		"pair":    "EUR/USD",
		"entry":   1.1,
		"exit":    1.105,
		"size":    2,
		"outcome": "win",
		"news":    "high",
		"emotion": "happy",
		"notes":   "breakout",
		"profit":  9999,
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	for _, path := range []string{"/health", "/api/health"} {
		w := do(t, s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "healthy")
	}
}

func TestCreateListDeleteFlow(t *testing.T) {
	s, blob := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/trades", winBody("2024-01-05"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[tradeResponse](t, w)
	assert.NotEmpty(t, created.Trade.ID)
	assert.Empty(t, created.Warning)
	// body profit is ignored
	assert.Equal(t, 100.0, created.Trade.Profit)

	w = do(t, s, http.MethodPost, "/api/trades", winBody("2024-02-01"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, s, http.MethodGet, "/api/trades", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]journal.Trade](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-02-01", list[0].Date.String())

	w = do(t, s, http.MethodGet, "/api/trades/"+created.Trade.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.Trade, decode[journal.Trade](t, w))

	w = do(t, s, http.MethodDelete, "/api/trades/"+created.Trade.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/api/trades/"+created.Trade.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	data, err := blob.Get(journal.DefaultKey)
	require.NoError(t, err)
	var persisted []journal.Trade
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Len(t, persisted, 1)
}

func TestCreateRejectsInvalid(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"no date", map[string]any{"pair": "EUR/USD", "entry": 1.1, "exit": 1.2, "size": 1}},
		{"zero size", map[string]any{"date": "2024-01-05", "entry": 1.1, "exit": 1.2, "size": 0}},
		{"bad outcome", map[string]any{"date": "2024-01-05", "entry": 1.1, "exit": 1.2, "size": 1, "outcome": "draw"}},
		{"not an object", []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/trades", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Equal(t, 0, s.store.Len())
}

func TestUpdateRecomputesProfit(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/trades", winBody("2024-01-05"))
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[tradeResponse](t, w)

	body := winBody("2024-01-05")
	body["exit"] = 1.095
	body["outcome"] = "loss"
	w = do(t, s, http.MethodPut, "/api/trades/"+created.Trade.ID, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[tradeResponse](t, w)
	assert.Equal(t, created.Trade.ID, updated.Trade.ID)
	assert.Equal(t, -100.0, updated.Trade.Profit)
	assert.Equal(t, journal.OutcomeLoss, updated.Trade.Outcome)

	w = do(t, s, http.MethodPut, "/api/trades/nope", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPersistFailureWarns(t *testing.T) {
	s, blob := newTestServer(t)
	blob.PutErr = errors.New("quota exceeded")

	w := do(t, s, http.MethodPost, "/api/trades", winBody("2024-01-05"))
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode[tradeResponse](t, w)
	assert.Contains(t, resp.Warning, "quota exceeded")

	// kept in memory
	assert.Equal(t, 1, s.store.Len())
}

func TestStats(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"∞"`)

	do(t, s, http.MethodPost, "/api/trades", winBody("2024-01-05"))
	w = do(t, s, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.EqualValues(t, 1, summary["total"])
}

func TestCalendar(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/trades", winBody("2024-01-05"))

	w := do(t, s, http.MethodGet, "/api/calendar/2024-01", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Month string  `json:"month"`
		Title string  `json:"title"`
		NetPL float64 `json:"net_pl"`
		Prev  string  `json:"prev"`
		Next  string  `json:"next"`
		Days  []struct {
			Summary *struct {
				Count int    `json:"count"`
				Class string `json:"class"`
			} `json:"summary"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "January 2024", resp.Title)
	assert.Equal(t, "2023-12", resp.Prev)
	assert.Equal(t, "2024-02", resp.Next)
	assert.Equal(t, 100.0, resp.NetPL)
	require.Len(t, resp.Days, 31)
	require.NotNil(t, resp.Days[4].Summary)
	assert.Equal(t, "profit", resp.Days[4].Summary.Class)
	assert.Nil(t, resp.Days[5].Summary)

	w = do(t, s, http.MethodGet, "/api/calendar/january", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportCSV(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/export.csv", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	do(t, s, http.MethodPost, "/api/trades", winBody("2024-01-05"))
	w = do(t, s, http.MethodGet, "/api/export.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Date,Currency Pair,"))
	assert.Contains(t, w.Body.String(), "2024-01-05,EUR/USD,1.1,1.105,2,win,100,high,happy,breakout")
}

func upload(t *testing.T, s *Server, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestImport(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/trades", winBody("2023-06-01"))

	csv := "Date,Currency Pair,Entry Price,Exit Price,Position Size,Outcome\n" +
		"2024-01-05,EUR/USD,1.1,1.105,2,win\n" +
		"2024-01-06,USD/JPY,150,149,1,loss\n"

	w := upload(t, s, "trades.csv", csv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"imported":2`)

	trades := s.store.List()
	require.Len(t, trades, 2)
	assert.Equal(t, 100.0, trades[0].Profit)
	assert.Equal(t, -100.0, trades[1].Profit)
	assert.NotEmpty(t, trades[0].ID)
}

func TestImportFailureLeavesStore(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/trades", winBody("2023-06-01"))

	w := upload(t, s, "trades.csv", "Date,Entry Price,Exit Price,Position Size\n2024-01-05,x,1,1\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "row 2")

	w = upload(t, s, "trades.txt", "whatever")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/import", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 1, s.store.Len())
}
