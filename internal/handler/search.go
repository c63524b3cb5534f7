package handler

import (
	"net/http"

	"github.com/templui/mediafaves/internal/service"
	"github.com/templui/mediafaves/internal/validation"
)

type searchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *searchHandler {
	return &searchHandler{searchService: searchService}
}

func (h *searchHandler) Search(w http.ResponseWriter, r *http.Request) {
	params, err := validation.ParseSearch(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.searchService.Search(r.Context(), params.Query, params.Type, params.Page, params.PerPage)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
