package handler

import (
	"net/http"

	"github.com/templui/mediafaves/internal/ctxkeys"
	"github.com/templui/mediafaves/internal/service"
	"github.com/templui/mediafaves/internal/validation"
)

type favoriteIDsResponse struct {
	FavoritedIDs []string `json:"favoritedIds"`
}

type favoriteHandler struct {
	favoriteService *service.FavoriteService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService) *favoriteHandler {
	return &favoriteHandler{favoriteService: favoriteService}
}

func (h *favoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	params, err := validation.ParseList(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.favoriteService.List(r.Context(), user.ID, params.Page, params.PerPage)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *favoriteHandler) IDs(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	ids, err := h.favoriteService.IDs(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	writeJSON(w, http.StatusOK, favoriteIDsResponse{FavoritedIDs: ids})
}

func (h *favoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	input, err := validation.ParseAddFavorite(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	favorite, err := h.favoriteService.Add(r.Context(), user.ID, input.ContentID, input.ContentType, input.ContentData)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, favorite)
}

func (h *favoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.favoriteService.Remove(r.Context(), user.ID, r.PathValue("contentId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Favorite removed successfully")
}
