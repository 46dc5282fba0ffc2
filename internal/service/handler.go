// HTTP handlers for the matching service.
//
// All routes expect an x-user-id header forwarded by the Gateway.
//
// Routes:
//
//	GET  /workers/top                → top rated workers card
//	GET  /workers                    → browse workers with filter criteria
//	GET  /workers/{id}/reviews       → a worker's reviews, newest first
//	POST /workers/{id}/reviews       → submit a review
//	GET  /jobs                       → upcoming open listings with criteria
//	GET  /jobs/featured              → "jobs available" teaser (top 3)
//	POST /jobs                       → create a posting
//	POST /jobs/{id}/accept           → consume one slot for the caller
//	POST /jobs/{id}/apply            → apply to an open listing
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"localhire/matching-service/internal/jobs"
	"localhire/matching-service/internal/model"
	"localhire/matching-service/internal/review"
	"localhire/matching-service/internal/store"
)

// Handler maps HTTP requests onto the Service.
type Handler struct {
	svc *Service
}

// NewHandler returns a Handler over svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes attaches all matching-service routes to mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/workers", h.handleWorkers)
	mux.HandleFunc("/workers/", h.handleWorkerSubresource)
	mux.HandleFunc("/jobs", h.handleJobs)
	mux.HandleFunc("/jobs/", h.handleJobAction)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

func (h *Handler) handleWorkers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.browseWorkers(w, r)
}

// handleWorkerSubresource handles /workers/top and /workers/{id}/reviews.
func (h *Handler) handleWorkerSubresource(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 2 && parts[1] == "top":
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.topWorkers(w, r)
	case len(parts) == 3 && parts[2] == "reviews":
		workerID := parts[1]
		switch r.Method {
		case http.MethodGet:
			h.workerReviews(w, r, workerID)
		case http.MethodPost:
			h.submitReview(w, r, workerID)
		default:
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		jsonError(w, "invalid path", http.StatusNotFound)
	}
}

func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.availableJobs(w, r)
	case http.MethodPost:
		h.postJob(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJobAction handles /jobs/featured and POST /jobs/{id}/accept|apply.
func (h *Handler) handleJobAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	if len(parts) == 2 && parts[1] == "featured" {
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.featuredJobs(w, r)
		return
	}

	if len(parts) != 3 || r.Method != http.MethodPost {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	jobID := parts[1]
	switch parts[2] {
	case "accept":
		h.acceptApplicant(w, r, jobID)
	case "apply":
		h.apply(w, r, jobID)
	default:
		jsonError(w, fmt.Sprintf("unknown action %q", parts[2]), http.StatusNotFound)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) topWorkers(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	workers, err := h.svc.TopWorkers(r.Context(), userID)
	if err != nil {
		h.writeError(w, "topWorkers", err)
		return
	}
	jsonOK(w, workers)
}

func (h *Handler) browseWorkers(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	workers, err := h.svc.BrowseWorkers(r.Context(), userID, criteriaFromQuery(r))
	if err != nil {
		h.writeError(w, "browseWorkers", err)
		return
	}
	jsonOK(w, workers)
}

func (h *Handler) workerReviews(w http.ResponseWriter, r *http.Request, workerID string) {
	reviews, err := h.svc.WorkerReviews(r.Context(), workerID)
	if err != nil {
		h.writeError(w, "workerReviews", err)
		return
	}
	jsonOK(w, reviews)
}

func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request, workerID string) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var body struct {
		Rating   float64 `json:"rating"`
		Feedback string  `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	rev, err := h.svc.SubmitReview(r.Context(), workerID, userID, body.Rating, body.Feedback)
	if err != nil {
		h.writeError(w, "submitReview", err)
		return
	}
	jsonOK(w, rev)
}

func (h *Handler) availableJobs(w http.ResponseWriter, r *http.Request) {
	requireOpenSlots := r.URL.Query().Get("open_slots") == "true"
	listings, err := h.svc.AvailableJobs(r.Context(), criteriaFromQuery(r), requireOpenSlots)
	if err != nil {
		h.writeError(w, "availableJobs", err)
		return
	}
	jsonOK(w, listings)
}

func (h *Handler) featuredJobs(w http.ResponseWriter, r *http.Request) {
	listings, err := h.svc.FeaturedJobs(r.Context())
	if err != nil {
		h.writeError(w, "featuredJobs", err)
		return
	}
	jsonOK(w, listings)
}

func (h *Handler) postJob(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var body struct {
		model.JobPosting
		ReceiverID string `json:"receiverId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	job, err := h.svc.PostJob(r.Context(), userID, body.ReceiverID, body.JobPosting)
	if err != nil {
		h.writeError(w, "postJob", err)
		return
	}
	jsonOK(w, job)
}

func (h *Handler) acceptApplicant(w http.ResponseWriter, r *http.Request, jobID string) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	job, err := h.svc.AcceptApplicant(r.Context(), userID, jobID)
	if err != nil {
		h.writeError(w, "acceptApplicant", err)
		return
	}
	jsonOK(w, job)
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, jobID string) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	if err := h.svc.Apply(r.Context(), userID, jobID); err != nil {
		h.writeError(w, "apply", err)
		return
	}
	jsonOK(w, map[string]string{"status": "applied"})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// criteriaFromQuery builds SearchCriteria from query parameters; blank or
// unparsable values are simply absent criteria.
func criteriaFromQuery(r *http.Request) model.SearchCriteria {
	q := r.URL.Query()
	c := model.SearchCriteria{
		Location: q.Get("location"),
		Skill:    q.Get("skill"),
		Date:     q.Get("date"),
		JobType:  q.Get("job_type"),
	}
	if rating, err := strconv.ParseFloat(q.Get("rating"), 64); err == nil {
		c.Rating = rating
	}
	return c
}

// writeError maps domain errors to HTTP status codes.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	var jve *jobs.ValidationError
	var rve *review.ValidationError
	switch {
	case errors.As(err, &jve):
		jsonError(w, jve.Msg, http.StatusBadRequest)
	case errors.As(err, &rve):
		jsonError(w, rve.Msg, http.StatusBadRequest)
	case errors.Is(err, jobs.ErrNoAvailablePositions):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, jobs.ErrNotFound), errors.Is(err, store.ErrNotFound):
		jsonError(w, "not found", http.StatusNotFound)
	case errors.Is(err, store.ErrConflict):
		jsonError(w, "conflicting update, try again", http.StatusConflict)
	default:
		log.Printf("[matching] %s error: %v", op, err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
