package handler

import (
	"encoding/json"
	"net/http"

	"codearena/internal/api/middleware"
	"codearena/internal/app/service"
	"codearena/internal/common"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
	submissionRepo    repository.SubmissionRepository
}

func NewSubmissionHandler(ss *service.SubmissionService, submissionRepo repository.SubmissionRepository) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss, submissionRepo: submissionRepo}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.listSubmissions)
	r.Get("/count", h.countSubmissions)
	r.Get("/{submissionId}", h.getSubmission)
	r.Post("/", h.createSubmission)
}

func (h *SubmissionHandler) filterFromQuery(r *http.Request) model.SubmissionFilterOptions {
	var languages []model.Language
	if raw := csvParam(r, "languages"); raw != nil {
		languages = make([]model.Language, 0, len(raw))
		for _, l := range raw {
			languages = append(languages, model.Language(l))
		}
	}
	var statuses []model.SubmissionStatus
	if raw := csvParam(r, "statuses"); raw != nil {
		statuses = make([]model.SubmissionStatus, 0, len(raw))
		for _, s := range raw {
			statuses = append(statuses, model.SubmissionStatus(s))
		}
	}
	return model.SubmissionFilterOptions{
		SubmissionIDs:   csvParam(r, "submissionIds"),
		AuthorUsernames: csvParam(r, "authorUsernames"),
		ProblemIDs:      csvParam(r, "problemIds"),
		ContestIDs:      csvParam(r, "contestIds"),
		Languages:       languages,
		Statuses:        statuses,
		SubmissionTime:  timeRangeParam(r, "submissionTime"),
		ListOptions:     listOptions(r),
	}
}

func submissionIncludeFromQuery(r *http.Request) model.SubmissionInclude {
	return model.SubmissionInclude{
		Problem: boolFlag(r, "includeProblem"),
		Contest: boolFlag(r, "includeContest"),
	}
}

func (h *SubmissionHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	asUser, _ := middleware.GetUsernameFromContext(r.Context())
	submissions, err := h.submissionRepo.List(r.Context(), h.filterFromQuery(r), asUser, submissionIncludeFromQuery(r))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissions)
}

func (h *SubmissionHandler) countSubmissions(w http.ResponseWriter, r *http.Request) {
	asUser, _ := middleware.GetUsernameFromContext(r.Context())
	n, err := h.submissionRepo.Count(r.Context(), h.filterFromQuery(r), asUser)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.CountResponse{Count: n})
}

func (h *SubmissionHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	submission, err := h.submissionRepo.Get(r.Context(), chi.URLParam(r, "submissionId"), submissionIncludeFromQuery(r))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if submission == nil {
		common.RespondWithError(w, http.StatusNotFound, "submission not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submission)
}

func (h *SubmissionHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
	author, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	var req service.CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	submission, err := h.submissionService.CreateSubmission(r.Context(), author, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, submission)
}
