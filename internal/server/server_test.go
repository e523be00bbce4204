package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/compliance-go/internal/config"
	"github.com/ukaji3/compliance-go/internal/source"
	"github.com/ukaji3/compliance-go/internal/store"
)

// The CSV fixture is one district sheet: stage row 1, village row 2 and
// one 9(2) item at row 3.
const districtCSV = ",,Label\n" +
	",,Stage,9(2) Published,13 Published,Above 90%\n" +
	",,Village,ALPHA,BETA,GAMMA\n" +
	",,Digital survey,0.5,Ready,1\n"

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Parse.FirstSheetIndex = 0
	cfg.Parse.Layout.StageRow = 1
	cfg.Parse.Layout.Sec92.Start = 3
	cfg.Parse.Layout.Sec92.End = 3
	cfg.Parse.Layout.Sec13.Start = 4
	cfg.Parse.Layout.Sec13.End = 4
	return cfg
}

type rewriteTransport struct {
	target string
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = "http"
	req.URL.Host = t.target
	return http.DefaultTransport.RoundTrip(req)
}

func newTestServer(t *testing.T, cfg *config.Config, upstream *httptest.Server) (*Server, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client := &http.Client{}
	if upstream != nil {
		client.Transport = rewriteTransport{target: upstream.Listener.Addr().String()}
	}
	st := store.New(store.Config{Options: cfg.Parse, CacheTTL: time.Minute}, nil)
	srv := New(cfg, st, source.NewFetcher(client, cfg.MaxUploadBytes()), nil)
	srv.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return srv, st
}

func do(t *testing.T, srv *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	return do(t, srv, httptest.NewRequest(http.MethodGet, path, nil))
}

func uploadRequest(t *testing.T, name string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/workbook", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	resp := struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Empty(t, resp.Error)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func loaded(t *testing.T) *Server {
	t.Helper()
	srv, _ := newTestServer(t, testConfig(), nil)
	w := do(t, srv, uploadRequest(t, "district.csv", []byte(districtCSV)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return srv
}

func TestStatusBeforeLoad(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)

	w := get(t, srv, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)
	var info StatusInfo
	decode(t, w, &info)
	assert.False(t, info.Loaded)

	w = get(t, srv, "/api/districts")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), store.ErrNotLoaded.Error())
}

func TestUpload(t *testing.T) {
	srv := loaded(t)

	var info StatusInfo
	decode(t, get(t, srv, "/api/status"), &info)
	assert.True(t, info.Loaded)
	assert.Equal(t, "upload:district.csv", info.Source)
	assert.Equal(t, 1, info.Districts)
	assert.Equal(t, 3, info.Villages)
}

func TestUploadRejectsBrokenWorkbook(t *testing.T) {
	srv := loaded(t)

	w := do(t, srv, uploadRequest(t, "broken.xlsx", []byte("PK\x03\x04broken")))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "parse failed")

	var info StatusInfo
	decode(t, get(t, srv, "/api/status"), &info)
	assert.Equal(t, "upload:district.csv", info.Source, "failed upload must keep the dataset")
}

func TestUploadMissingFile(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/workbook", strings.NewReader(""))
	w := do(t, srv, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDistricts(t *testing.T) {
	srv := loaded(t)

	var list []DistrictSummary
	decode(t, get(t, srv, "/api/districts"), &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Sheet1", list[0].Name)
	assert.Equal(t, 3, list[0].TotalVillages)
	assert.InDelta(t, (0.5+1+1)/3.0, list[0].Avg92Percent, 1e-9)

	var d struct {
		Name     string `json:"name"`
		Villages []struct {
			Name string `json:"name"`
		} `json:"villages"`
	}
	decode(t, get(t, srv, "/api/districts/Sheet1"), &d)
	assert.Len(t, d.Villages, 3)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/districts/Nowhere").Code)
}

func TestVillages(t *testing.T) {
	srv := loaded(t)

	var page struct {
		Villages []struct {
			Name string `json:"name"`
		} `json:"villages"`
		Total int `json:"total"`
	}
	decode(t, get(t, srv, "/api/villages?status=completed&section=92"), &page)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "BETA", page.Villages[0].Name)

	decode(t, get(t, srv, "/api/villages?stage=above90"), &page)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "GAMMA", page.Villages[0].Name)

	decode(t, get(t, srv, "/api/villages?sort=name&order=desc&page_size=2"), &page)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Villages, 2)
	assert.Equal(t, "GAMMA", page.Villages[0].Name)

	for _, bad := range []string{"section=7", "status=late", "sort=age", "order=up", "page=-1"} {
		assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/villages?"+bad).Code, bad)
	}
}

func TestSummaryAndCritical(t *testing.T) {
	srv := loaded(t)

	var summary struct {
		Villages  int `json:"villages"`
		Completed int `json:"completed"`
		Pending   int `json:"pending"`
	}
	decode(t, get(t, srv, "/api/summary?section=13"), &summary)
	assert.Equal(t, 3, summary.Villages)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 2, summary.Pending)

	var critical []json.RawMessage
	decode(t, get(t, srv, "/api/villages/critical"), &critical)
	assert.Empty(t, critical)
}

func TestExport(t *testing.T) {
	srv := loaded(t)

	w := get(t, srv, "/api/export?section=92&format=csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=compliance_92_2024-05-01.csv", w.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "District,Village,Status,Completion %,Item 1: Digital survey", lines[0])
	assert.Equal(t, "Sheet1,BETA,Completed,100%,Ready", lines[2])

	w = get(t, srv, "/api/export?section=13&format=xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/export?format=pdf").Code)

	w = get(t, srv, "/api/export/summary")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "District_Summary.xlsx")
}

func TestRefresh(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/spreadsheets/d/good/export":
			assert.Equal(t, "xlsx", r.URL.Query().Get("format"))
			_, _ = w.Write([]byte(districtCSV))
		default:
			http.Error(w, "gone", http.StatusGone)
		}
	}))
	defer upstream.Close()

	cfg := testConfig()
	cfg.Source.SheetURL = "https://docs.google.com/spreadsheets/d/good/edit"
	srv, st := newTestServer(t, cfg, upstream)

	w := do(t, srv, httptest.NewRequest(http.MethodPost, "/api/workbook/refresh", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap, err := st.Current()
	require.NoError(t, err)
	assert.Equal(t, "sheet:https://docs.google.com/spreadsheets/d/good/edit", snap.Source)

	body := strings.NewReader(`{"url":"https://docs.google.com/spreadsheets/d/missing/edit"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/workbook/refresh", body)
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadGateway, do(t, srv, req).Code)

	body = strings.NewReader(`{"url":"https://example.com/not-a-sheet"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/workbook/refresh", body)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, req).Code)

	current, err := st.Current()
	require.NoError(t, err)
	assert.Same(t, snap, current)
}

func TestRefreshWithoutURL(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)
	w := do(t, srv, httptest.NewRequest(http.MethodPost, "/api/workbook/refresh", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := do(t, srv, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
