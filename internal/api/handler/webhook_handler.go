package handler

import (
	"encoding/json"
	"net/http"

	"codearena/internal/app/service"
	"codearena/internal/common"
	"codearena/internal/platform/config"

	"github.com/go-chi/chi/v5"
)

// WebhookHandler receives verdicts from the external judge. The shared
// token guards the endpoint; the judge is not a platform user.
type WebhookHandler struct {
	submissionService *service.SubmissionService
}

func NewWebhookHandler(ss *service.SubmissionService) *WebhookHandler {
	return &WebhookHandler{submissionService: ss}
}

func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/judge", h.judgeResult)
}

func (h *WebhookHandler) judgeResult(w http.ResponseWriter, r *http.Request) {
	if token := config.AppConfig.JudgeWebhookToken; token != "" && r.Header.Get("X-Webhook-Token") != token {
		common.RespondWithError(w, http.StatusUnauthorized, "invalid webhook token")
		return
	}
	var req service.JudgeResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	submission, err := h.submissionService.ApplyJudgeResult(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submission)
}
