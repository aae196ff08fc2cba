package handler

import (
	"encoding/json"
	"net/http"

	"codearena/internal/api/middleware"
	"codearena/internal/common"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type TestCaseHandler struct {
	testCaseRepo repository.TestCaseRepository
}

func NewTestCaseHandler(testCaseRepo repository.TestCaseRepository) *TestCaseHandler {
	return &TestCaseHandler{testCaseRepo: testCaseRepo}
}

func (h *TestCaseHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.listTestCases)
	r.Get("/{testCaseId}", h.getTestCase)
	r.Post("/", h.createTestCase)
	r.Put("/{testCaseId}", h.updateTestCase)
	r.Delete("/{testCaseId}", h.deleteTestCase)
}

func (h *TestCaseHandler) listTestCases(w http.ResponseWriter, r *http.Request) {
	filter := model.TestCaseFilterOptions{
		TestCaseIDs: csvParam(r, "testCaseIds"),
		IsHidden:    boolParam(r, "isHidden"),
		ListOptions: listOptions(r),
	}
	testCases, err := h.testCaseRepo.List(r.Context(), filter)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, testCases)
}

func (h *TestCaseHandler) getTestCase(w http.ResponseWriter, r *http.Request) {
	testCase, err := h.testCaseRepo.Get(r.Context(), chi.URLParam(r, "testCaseId"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if testCase == nil {
		common.RespondWithError(w, http.StatusNotFound, "test case not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, testCase)
}

func (h *TestCaseHandler) createTestCase(w http.ResponseWriter, r *http.Request) {
	var base model.TestCaseBase
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if base.TestCaseID == "" {
		base.TestCaseID = uuid.NewString()
	}
	testCase, err := h.testCaseRepo.Create(r.Context(), base)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, testCase)
}

func (h *TestCaseHandler) updateTestCase(w http.ResponseWriter, r *http.Request) {
	var base model.TestCaseBase
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	base.TestCaseID = chi.URLParam(r, "testCaseId")
	testCase, err := h.testCaseRepo.Update(r.Context(), base)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if testCase == nil {
		common.RespondWithError(w, http.StatusNotFound, "test case not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, testCase)
}

func (h *TestCaseHandler) deleteTestCase(w http.ResponseWriter, r *http.Request) {
	n, err := h.testCaseRepo.Delete(r.Context(), chi.URLParam(r, "testCaseId"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.CountResponse{Count: n})
}
