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
	"github.com/gosimple/slug"
)

type CollectionHandler struct {
	collectionRepo repository.CollectionRepository
}

func NewCollectionHandler(collectionRepo repository.CollectionRepository) *CollectionHandler {
	return &CollectionHandler{collectionRepo: collectionRepo}
}

func (h *CollectionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listCollections)
	r.Get("/count", h.countCollections)
	r.Get("/{collectionId}", h.getCollection)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/", h.createCollection)
		authed.Put("/{collectionId}", h.updateCollection)
		authed.Delete("/{collectionId}", h.deleteCollection)
		authed.Put("/{collectionId}/problems/{problemId}", h.addProblem)
		authed.Delete("/{collectionId}/problems/{problemId}", h.removeProblem)
	})
}

func (h *CollectionHandler) filterFromQuery(r *http.Request) model.CollectionFilterOptions {
	return model.CollectionFilterOptions{
		CollectionIDs:  csvParam(r, "collectionIds"),
		OwnerUsernames: csvParam(r, "ownerUsernames"),
		IsPublic:       boolParam(r, "isPublic"),
		CreationDate:   timeRangeParam(r, "creationDate"),
		ListOptions:    listOptions(r),
	}
}

func collectionIncludeFromQuery(r *http.Request) model.CollectionInclude {
	return model.CollectionInclude{Problems: boolFlag(r, "includeProblems")}
}

func (h *CollectionHandler) listCollections(w http.ResponseWriter, r *http.Request) {
	asUser, _ := middleware.GetUsernameFromContext(r.Context())
	collections, err := h.collectionRepo.List(r.Context(), h.filterFromQuery(r), asUser, collectionIncludeFromQuery(r))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, collections)
}

func (h *CollectionHandler) countCollections(w http.ResponseWriter, r *http.Request) {
	asUser, _ := middleware.GetUsernameFromContext(r.Context())
	n, err := h.collectionRepo.Count(r.Context(), h.filterFromQuery(r), asUser)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.CountResponse{Count: n})
}

func (h *CollectionHandler) getCollection(w http.ResponseWriter, r *http.Request) {
	collection, err := h.collectionRepo.Get(r.Context(), chi.URLParam(r, "collectionId"), collectionIncludeFromQuery(r))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if collection == nil {
		common.RespondWithError(w, http.StatusNotFound, "collection not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, collection)
}

func (h *CollectionHandler) createCollection(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	var base model.CollectionBase
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	base.OwnerUsername = owner
	if base.CollectionID == "" {
		base.CollectionID = slug.Make(base.DisplayName)
	}
	if base.CreationDate.IsZero() {
		base.CreationDate = time.Now().UTC()
	}
	collection, err := h.collectionRepo.Create(r.Context(), base)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, collection)
}

func (h *CollectionHandler) updateCollection(w http.ResponseWriter, r *http.Request) {
	var base model.CollectionBase
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	base.CollectionID = chi.URLParam(r, "collectionId")
	if base.OwnerUsername == "" {
		base.OwnerUsername, _ = middleware.GetUsernameFromContext(r.Context())
	}
	collection, err := h.collectionRepo.Update(r.Context(), base)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if collection == nil {
		common.RespondWithError(w, http.StatusNotFound, "collection not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, collection)
}

func (h *CollectionHandler) deleteCollection(w http.ResponseWriter, r *http.Request) {
	n, err := h.collectionRepo.Delete(r.Context(), chi.URLParam(r, "collectionId"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.CountResponse{Count: n})
}

func (h *CollectionHandler) addProblem(w http.ResponseWriter, r *http.Request) {
	collection, err := h.collectionRepo.AddProblem(r.Context(), chi.URLParam(r, "collectionId"), chi.URLParam(r, "problemId"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, collection)
}

func (h *CollectionHandler) removeProblem(w http.ResponseWriter, r *http.Request) {
	collection, err := h.collectionRepo.RemoveProblem(r.Context(), chi.URLParam(r, "collectionId"), chi.URLParam(r, "problemId"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, collection)
}
