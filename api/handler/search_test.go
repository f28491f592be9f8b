package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/totalome/shelfscout/models"
	"github.com/totalome/shelfscout/pipeline"
)

type stubSearcher struct {
	res     *pipeline.Result
	err     error
	lastReq models.SearchRequest
}

func (s *stubSearcher) Run(_ context.Context, req models.SearchRequest) (*pipeline.Result, error) {
	s.lastReq = req
	return s.res, s.err
}

func serve(s Searcher, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/search", Search(s, time.Second))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func price(v float64) *float64 { return &v }

func TestSearch_ProductList(t *testing.T) {
	s := &stubSearcher{res: &pipeline.Result{
		URL: "https://www.homedepot.com/s/sofa+bed",
		Products: []models.Product{
			{Title: "Sofa Bed", Price: price(499), URL: "https://www.homedepot.com/p/1", Retailer: models.RetailerHomeDepot},
			{Title: "Futon", URL: "https://www.homedepot.com/p/2", Retailer: models.RetailerHomeDepot},
		},
	}}

	w := serve(s, "/search?q=sofa%20bed&retailer=homedepot")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not a JSON array: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	if got[0]["title"] != "Sofa Bed" || got[1]["title"] != "Futon" {
		t.Errorf("order not preserved: %v", got)
	}
	// A card without a price serializes as an explicit null.
	if v, present := got[1]["price"]; !present || v != nil {
		t.Errorf("missing price must serialize as null, got %v (present=%v)", v, present)
	}
	if s.lastReq.Retailer != models.RetailerHomeDepot {
		t.Errorf("retailer parsed as %q", s.lastReq.Retailer)
	}
}

func TestSearch_MissingQueryIs400(t *testing.T) {
	s := &stubSearcher{}
	w := serve(s, "/search?retailer=homedepot")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Error == "" {
		t.Errorf("400 body missing error detail: %s", w.Body.String())
	}
}

func TestSearch_UnknownRetailerIsServedNotRejected(t *testing.T) {
	s := &stubSearcher{res: &pipeline.Result{Products: []models.Product{}}}
	w := serve(s, "/search?q=lamp&retailer=bobs-furniture")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (generic fallback is defined)", w.Code)
	}
	if s.lastReq.Retailer != models.RetailerUnknown {
		t.Errorf("retailer = %q, want unknown", s.lastReq.Retailer)
	}
}

func TestSearch_PipelineFailureIs500WithContext(t *testing.T) {
	s := &stubSearcher{
		res: &pipeline.Result{
			URL:  "https://www.homedepot.com/s/x",
			Logs: make([]string, 30),
		},
		err: models.NewPipelineError(models.ErrCodeSessionFailed, "failed to launch browser", errors.New("boom")),
	}
	w := serve(s, "/search?q=x")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad 500 body: %v", err)
	}
	if body.Error == "" || body.URL == "" {
		t.Errorf("500 body missing error/url: %+v", body)
	}
	if len(body.Logs) > 10 {
		t.Errorf("error logs not capped: %d", len(body.Logs))
	}
}

func TestSearch_DebugEnvelope(t *testing.T) {
	products := []models.Product{
		{Title: "A", URL: "u/a"}, {Title: "B", URL: "u/b"},
		{Title: "C", URL: "u/c"}, {Title: "D", URL: "u/d"},
	}
	s := &stubSearcher{res: &pipeline.Result{
		URL:      "https://www.wayfair.com/keyword.php?keyword=desk",
		Products: products,
		Logs:     []string{"log1", "log2"},
		Diagnostics: &models.PageDiagnostics{
			Title:      "desk | Wayfair",
			ReadyState: "complete",
			Screenshot: "data:image/png;base64,iVBOR",
		},
	}}

	w := serve(s, "/search?q=desk&retailer=wayfair&debug=true")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var env models.DebugEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if env.Request.Query != "desk" || env.Request.URL == "" {
		t.Errorf("request echo incomplete: %+v", env.Request)
	}
	if env.Page.Title != "desk | Wayfair" || env.Page.ReadyState != "complete" {
		t.Errorf("page info incomplete: %+v", env.Page)
	}
	if env.Count != 4 {
		t.Errorf("count = %d, want 4", env.Count)
	}
	if len(env.Sample) != 3 {
		t.Errorf("sample holds %d products, want first 3", len(env.Sample))
	}
	if env.Screenshot == "" {
		t.Error("screenshot data URI dropped from envelope")
	}
}

func TestSearch_ScreenshotBody(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	s := &stubSearcher{res: &pipeline.Result{ScreenshotPNG: png}}

	w := serve(s, "/search?q=x&shot=true")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
	if w.Body.String() != string(png) {
		t.Error("PNG bytes not served verbatim")
	}
}

func TestSearch_ScreenshotFallsBackToProductsWhenCaptureDegraded(t *testing.T) {
	s := &stubSearcher{res: &pipeline.Result{
		Products: []models.Product{{Title: "A", URL: "u"}},
	}}

	w := serve(s, "/search?q=x&shot=true")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got []models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil || len(got) != 1 {
		t.Errorf("expected product-list fallback, got: %s", w.Body.String())
	}
}
