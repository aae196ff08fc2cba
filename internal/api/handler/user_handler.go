package handler

import (
	"encoding/json"
	"net/http"

	"codearena/internal/api/middleware"
	"codearena/internal/common"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userRepo repository.UserRepository
}

func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listUsers)
	r.Get("/count", h.countUsers)
	r.Get("/{username}", h.getUser)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Put("/{username}", h.updateUser)
		authed.Delete("/{username}", h.deleteUser)
	})
}

func (h *UserHandler) filterFromQuery(r *http.Request) model.UserFilterOptions {
	return model.UserFilterOptions{
		Usernames:    csvParam(r, "usernames"),
		DisplayNames: csvParam(r, "displayNames"),
		ListOptions:  listOptions(r),
	}
}

func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.List(r.Context(), h.filterFromQuery(r))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) countUsers(w http.ResponseWriter, r *http.Request) {
	n, err := h.userRepo.Count(r.Context(), h.filterFromQuery(r))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.CountResponse{Count: n})
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if user == nil {
		common.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	caller, _ := middleware.GetUsernameFromContext(r.Context())
	if caller != username {
		common.RespondWithError(w, http.StatusForbidden, "cannot modify another user")
		return
	}
	var base model.UserBase
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	base.Username = username
	user, err := h.userRepo.Update(r.Context(), base)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if user == nil {
		common.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	caller, _ := middleware.GetUsernameFromContext(r.Context())
	if caller != username {
		common.RespondWithError(w, http.StatusForbidden, "cannot delete another user")
		return
	}
	n, err := h.userRepo.Delete(r.Context(), username)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.CountResponse{Count: n})
}
