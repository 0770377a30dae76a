package records

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(repo Repo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(repo).RegisterRoutes(r.Group("/"))
	return r
}

func TestListCollections(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	for _, name := range []string{"march-04-resumes", "march-05-resumes"} {
		if err := repo.EnsureCollection(ctx, name); err != nil {
			t.Fatalf("EnsureCollection: %v", err)
		}
	}

	resp := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/data", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Collections []string `json:"collections"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Collections) != 2 {
		t.Fatalf("collections = %v", body.Collections)
	}
}

func TestListCollectionsEmpty(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter(NewMemoryRepo()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/data", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d", resp.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] == "" {
		t.Fatalf("want message body, got %s", resp.Body.String())
	}
}

func TestListRecords(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.EnsureCollection(ctx, "march-05-resumes"); err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}
	id, err := repo.Insert(ctx, ResumeRecord{
		Collection:     "march-05-resumes",
		ResumeText:     "resume",
		JobDescription: "posting",
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := repo.Commit(ctx, id, Evaluation{Score: 85, Truthful: true, Owner: "alice"}); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	resp := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/data/march-05-resumes", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var body []recordResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("got %d records", len(body))
	}
	rec := body[0]
	if rec.ID != id || rec.ResumeText != "resume" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Score == nil || *rec.Score != 85 || rec.Truthfulness == nil || !*rec.Truthfulness {
		t.Errorf("evaluation fields = %+v", rec)
	}
	if rec.DidBy != "alice" {
		t.Errorf("did_by = %q", rec.DidBy)
	}
	if _, err := time.Parse(time.RFC3339, rec.CreatedAt); err != nil {
		t.Errorf("created_at %q not RFC3339: %v", rec.CreatedAt, err)
	}
}

func TestListRecordsUnknownCollection(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter(NewMemoryRepo()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/data/march-05-resumes", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d", resp.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "Collection march-05-resumes not found" {
		t.Fatalf("message = %q", body["message"])
	}
}

func TestListRecordsEmptyCollectionIsOK(t *testing.T) {
	repo := NewMemoryRepo()
	if err := repo.EnsureCollection(context.Background(), "march-05-resumes"); err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}

	resp := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/data/march-05-resumes", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	if resp.Body.String() != "[]" {
		t.Fatalf("body = %s, want empty array", resp.Body.String())
	}
}
