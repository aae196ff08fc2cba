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

type ContestHandler struct {
	contestRepo repository.ContestRepository
}

func NewContestHandler(contestRepo repository.ContestRepository) *ContestHandler {
	return &ContestHandler{contestRepo: contestRepo}
}

func (h *ContestHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listContests)
	r.Get("/count", h.countContests)
	r.Get("/{contestId}", h.getContest)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/", h.createContest)
		authed.Put("/{contestId}", h.updateContest)
		authed.Delete("/{contestId}", h.deleteContest)
		authed.Put("/{contestId}/problems/{problemId}", h.addProblem)
		authed.Delete("/{contestId}/problems/{problemId}", h.removeProblem)
		authed.Put("/{contestId}/participants/{username}", h.addParticipant)
		authed.Delete("/{contestId}/participants/{username}", h.removeParticipant)
	})
}

func (h *ContestHandler) filterFromQuery(r *http.Request) model.ContestFilterOptions {
	var formats []model.ContestFormat
	if raw := csvParam(r, "formats"); raw != nil {
		formats = make([]model.ContestFormat, 0, len(raw))
		for _, f := range raw {
			formats = append(formats, model.ContestFormat(f))
		}
	}
	return model.ContestFilterOptions{
		ContestIDs:         csvParam(r, "contestIds"),
		OrganizerUsernames: csvParam(r, "organizerUsernames"),
		Formats:            formats,
		IsPublic:           boolParam(r, "isPublic"),
		StartTime:          timeRangeParam(r, "startTime"),
		ListOptions:        listOptions(r),
	}
}

func contestIncludeFromQuery(r *http.Request) model.ContestInclude {
	return model.ContestInclude{
		Problems:      boolFlag(r, "includeProblems"),
		Participants:  boolFlag(r, "includeParticipants"),
		Announcements: boolFlag(r, "includeAnnouncements"),
	}
}

func (h *ContestHandler) listContests(w http.ResponseWriter, r *http.Request) {
	asUser, _ := middleware.GetUsernameFromContext(r.Context())
	contests, err := h.contestRepo.List(r.Context(), h.filterFromQuery(r), asUser, contestIncludeFromQuery(r))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contests)
}

func (h *ContestHandler) countContests(w http.ResponseWriter, r *http.Request) {
	asUser, _ := middleware.GetUsernameFromContext(r.Context())
	n, err := h.contestRepo.Count(r.Context(), h.filterFromQuery(r), asUser)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.CountResponse{Count: n})
}

func (h *ContestHandler) getContest(w http.ResponseWriter, r *http.Request) {
	contest, err := h.contestRepo.Get(r.Context(), chi.URLParam(r, "contestId"), contestIncludeFromQuery(r))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if contest == nil {
		common.RespondWithError(w, http.StatusNotFound, "contest not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) createContest(w http.ResponseWriter, r *http.Request) {
	organizer, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	var base model.ContestBase
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	base.OrganizerUsername = organizer
	if base.ContestID == "" {
		base.ContestID = slug.Make(base.DisplayName)
	}
	contest, err := h.contestRepo.Create(r.Context(), base)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, contest)
}

func (h *ContestHandler) updateContest(w http.ResponseWriter, r *http.Request) {
	var base model.ContestBase
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	base.ContestID = chi.URLParam(r, "contestId")
	if base.OrganizerUsername == "" {
		base.OrganizerUsername, _ = middleware.GetUsernameFromContext(r.Context())
	}
	contest, err := h.contestRepo.Update(r.Context(), base)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if contest == nil {
		common.RespondWithError(w, http.StatusNotFound, "contest not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) deleteContest(w http.ResponseWriter, r *http.Request) {
	n, err := h.contestRepo.Delete(r.Context(), chi.URLParam(r, "contestId"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.CountResponse{Count: n})
}

func (h *ContestHandler) addProblem(w http.ResponseWriter, r *http.Request) {
	contest, err := h.contestRepo.AddProblem(r.Context(), chi.URLParam(r, "contestId"), chi.URLParam(r, "problemId"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) removeProblem(w http.ResponseWriter, r *http.Request) {
	contest, err := h.contestRepo.RemoveProblem(r.Context(), chi.URLParam(r, "contestId"), chi.URLParam(r, "problemId"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) addParticipant(w http.ResponseWriter, r *http.Request) {
	contest, err := h.contestRepo.AddParticipant(r.Context(), chi.URLParam(r, "contestId"), chi.URLParam(r, "username"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) removeParticipant(w http.ResponseWriter, r *http.Request) {
	contest, err := h.contestRepo.RemoveParticipant(r.Context(), chi.URLParam(r, "contestId"), chi.URLParam(r, "username"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}
