package records

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/shared/server/respond"
)

// Handler serves the read-only records API.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches the data routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/data", h.listCollections)
	rg.GET("/data/:name", h.listRecords)
}

// recordResponse is the wire shape of one record. Evaluation fields are
// omitted until set.
type recordResponse struct {
	ID              string `json:"id"`
	ResumeText      string `json:"resume_text"`
	JobDescription  string `json:"job_description"`
	GeneratedResume string `json:"generated_resume,omitempty"`
	Prompt          string `json:"prompt,omitempty"`
	OriginalID      string `json:"original_id,omitempty"`
	Claiming        bool   `json:"claiming"`
	Score           *int   `json:"score,omitempty"`
	Truthfulness    *bool  `json:"truthfulness,omitempty"`
	DidBy           string `json:"did_by,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func toResponse(rec ResumeRecord) recordResponse {
	return recordResponse{
		ID:              rec.ID,
		ResumeText:      rec.ResumeText,
		JobDescription:  rec.JobDescription,
		GeneratedResume: rec.GeneratedResume,
		Prompt:          rec.Prompt,
		OriginalID:      rec.OriginalID,
		Claiming:        rec.Claiming,
		Score:           rec.Score,
		Truthfulness:    rec.Truthfulness,
		DidBy:           rec.DidBy,
		CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) listCollections(c *gin.Context) {
	names, err := h.Repo.ListCollections(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "store_unavailable", "failed to list collections", nil)
		return
	}
	if len(names) == 0 {
		// 404 with a message body matches the existing API contract.
		respond.JSON(c, http.StatusNotFound, gin.H{"message": "No collections found"})
		return
	}
	respond.OK(c, gin.H{"collections": names})
}

func (h *Handler) listRecords(c *gin.Context) {
	name := c.Param("name")
	ctx := c.Request.Context()

	ok, err := h.Repo.HasCollection(ctx, name)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "store_unavailable", "failed to look up collection", nil)
		return
	}
	if !ok {
		respond.JSON(c, http.StatusNotFound, gin.H{"message": "Collection " + name + " not found"})
		return
	}

	recs, err := h.Repo.FetchAll(ctx, name)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			respond.Error(c, http.StatusInternalServerError, "store_unavailable", "failed to fetch records", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to fetch records", nil)
		return
	}

	out := make([]recordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toResponse(rec))
	}
	respond.OK(c, out)
}
