package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"codearena/internal/api/middleware"
	"codearena/internal/common"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AnnouncementHandler struct {
	announcementRepo repository.AnnouncementRepository
}

func NewAnnouncementHandler(announcementRepo repository.AnnouncementRepository) *AnnouncementHandler {
	return &AnnouncementHandler{announcementRepo: announcementRepo}
}

func (h *AnnouncementHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listAnnouncements)
	r.Get("/{announcementId}", h.getAnnouncement)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/", h.createAnnouncement)
		authed.Put("/{announcementId}", h.updateAnnouncement)
		authed.Delete("/{announcementId}", h.deleteAnnouncement)
	})
}

func (h *AnnouncementHandler) listAnnouncements(w http.ResponseWriter, r *http.Request) {
	filter := model.AnnouncementFilterOptions{
		AnnouncementIDs: csvParam(r, "announcementIds"),
		OfContestIDs:    csvParam(r, "ofContestIds"),
		Timestamp:       timeRangeParam(r, "timestamp"),
		ListOptions:     listOptions(r),
	}
	announcements, err := h.announcementRepo.List(r.Context(), filter)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, announcements)
}

func (h *AnnouncementHandler) getAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcement, err := h.announcementRepo.Get(r.Context(), chi.URLParam(r, "announcementId"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if announcement == nil {
		common.RespondWithError(w, http.StatusNotFound, "announcement not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, announcement)
}

func (h *AnnouncementHandler) createAnnouncement(w http.ResponseWriter, r *http.Request) {
	var base model.AnnouncementBase
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if base.AnnouncementID == "" {
		base.AnnouncementID = uuid.NewString()
	}
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now().UTC()
	}
	announcement, err := h.announcementRepo.Create(r.Context(), base)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, announcement)
}

func (h *AnnouncementHandler) updateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var base model.AnnouncementBase
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	base.AnnouncementID = chi.URLParam(r, "announcementId")
	announcement, err := h.announcementRepo.Update(r.Context(), base)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, announcement)
}

func (h *AnnouncementHandler) deleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if err := h.announcementRepo.Delete(r.Context(), chi.URLParam(r, "announcementId")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.CountResponse{Count: 1})
}
