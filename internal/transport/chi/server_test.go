package chi

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain/outline"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/usecase/validate"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	o, err := outline.New([]*outline.Page{
		{Squid: "tqa2:L_0001", Title: "Photosynthesis", Headings: []*outline.Heading{
			{ID: "T_0003", Title: "Light reactions"},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	svc := validate.New(o, validate.Default(), zap.NewNop())
	return NewServer(svc, zap.NewNop())
}

const validLine = `{"squid":"tqa2:L_0001","title":"t","run_id":"r","query_facets":[],"paragraphs":[{"para_id":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}]}` + "\n"

func TestHealthz(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate?name=myrun.jsonl", strings.NewReader(validLine))
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		Name    string `json:"name"`
		Pages   int    `json:"pages"`
		Correct bool   `json:"correct"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Name != "myrun.jsonl" || resp.Pages != 1 || !resp.Correct {
		t.Errorf("response = %+v", resp)
	}
}

func TestValidateEndpoint_Diagnostics(t *testing.T) {
	srv := testServer(t)
	bad := `{"squid":"tqa2:L_0001","title":"t","run_id":"r","paragraphs":[{"para_id":"short"}]}` + "\n"
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(bad)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Correct     bool              `json:"correct"`
		Diagnostics []json.RawMessage `json:"diagnostics"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Correct || len(resp.Diagnostics) == 0 {
		t.Errorf("response = %+v", resp)
	}
}

func TestValidateEndpoint_Gzip(t *testing.T) {
	srv := testServer(t)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(validLine))
	zw.Close()

	req := httptest.NewRequest(http.MethodPost, "/validate", &buf)
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestValidateEndpoint_MalformedLine(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader("{broken\n")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestValidateEndpoint_BadGzip(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
