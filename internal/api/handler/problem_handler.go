package handler

import (
	"encoding/json"
	"net/http"

	"codearena/internal/api/middleware"
	"codearena/internal/common"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	"github.com/gosimple/slug"
)

type ProblemHandler struct {
	problemRepo repository.ProblemRepository
}

func NewProblemHandler(problemRepo repository.ProblemRepository) *ProblemHandler {
	return &ProblemHandler{problemRepo: problemRepo}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProblems)
	r.Get("/count", h.countProblems)
	r.Get("/{problemId}", h.getProblem)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/", h.createProblem)
		authed.Put("/{problemId}", h.updateProblem)
		authed.Delete("/{problemId}", h.deleteProblem)
		authed.Put("/{problemId}/testcases/{testCaseId}", h.addTestCase)
		authed.Delete("/{problemId}/testcases/{testCaseId}", h.removeTestCase)
	})
}

func (h *ProblemHandler) filterFromQuery(r *http.Request) model.ProblemFilterOptions {
	return model.ProblemFilterOptions{
		ProblemIDs:      csvParam(r, "problemIds"),
		AuthorUsernames: csvParam(r, "authorUsernames"),
		IsPublic:        boolParam(r, "isPublic"),
		CreationDate:    timeRangeParam(r, "creationDate"),
		ListOptions:     listOptions(r),
	}
}

func includeFromQuery(r *http.Request) model.ProblemInclude {
	return model.ProblemInclude{TestCases: boolFlag(r, "includeTestCases")}
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	asUser, _ := middleware.GetUsernameFromContext(r.Context())
	problems, err := h.problemRepo.List(r.Context(), h.filterFromQuery(r), asUser, includeFromQuery(r))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problems)
}

func (h *ProblemHandler) countProblems(w http.ResponseWriter, r *http.Request) {
	asUser, _ := middleware.GetUsernameFromContext(r.Context())
	n, err := h.problemRepo.Count(r.Context(), h.filterFromQuery(r), asUser)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.CountResponse{Count: n})
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problem, err := h.problemRepo.Get(r.Context(), chi.URLParam(r, "problemId"), includeFromQuery(r))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if problem == nil {
		common.RespondWithError(w, http.StatusNotFound, "problem not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) createProblem(w http.ResponseWriter, r *http.Request) {
	author, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	var base model.ProblemBase
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	base.AuthorUsername = author
	if base.ProblemID == "" {
		base.ProblemID = slug.Make(base.DisplayName)
	}
	problem, err := h.problemRepo.Create(r.Context(), base)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, problem)
}

func (h *ProblemHandler) updateProblem(w http.ResponseWriter, r *http.Request) {
	var base model.ProblemBase
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	base.ProblemID = chi.URLParam(r, "problemId")
	if base.AuthorUsername == "" {
		// the field is immutable anyway; fill it so validation passes
		base.AuthorUsername, _ = middleware.GetUsernameFromContext(r.Context())
	}
	problem, err := h.problemRepo.Update(r.Context(), base)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if problem == nil {
		common.RespondWithError(w, http.StatusNotFound, "problem not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) deleteProblem(w http.ResponseWriter, r *http.Request) {
	n, err := h.problemRepo.Delete(r.Context(), chi.URLParam(r, "problemId"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.CountResponse{Count: n})
}

func (h *ProblemHandler) addTestCase(w http.ResponseWriter, r *http.Request) {
	problem, err := h.problemRepo.AddTestCase(r.Context(), chi.URLParam(r, "problemId"), chi.URLParam(r, "testCaseId"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) removeTestCase(w http.ResponseWriter, r *http.Request) {
	problem, err := h.problemRepo.RemoveTestCase(r.Context(), chi.URLParam(r, "problemId"), chi.URLParam(r, "testCaseId"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}
