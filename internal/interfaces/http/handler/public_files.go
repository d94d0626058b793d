package handler

import (
	"github.com/gin-gonic/gin"

	appfiles "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/files"
)

// PublicFilesHandler serves the unauthenticated document area
type PublicFilesHandler struct {
	BaseHandler
	service *appfiles.Service
}

// NewPublicFilesHandler creates a new public files handler
func NewPublicFilesHandler(service *appfiles.Service) *PublicFilesHandler {
	return &PublicFilesHandler{service: service}
}

// Browse godoc
// @ID           browsePublicFiles
// @Summary      List a public folder
// @Tags         public-files
// @Produce      json
// @Param        path query string false "Folder path, empty for the root"
// @Success      200 {object} APIResponse[appfiles.FolderContents]
// @Failure      400 {object} ErrorResponse
// @Router       /public-files/browse [get]
func (h *PublicFilesHandler) Browse(c *gin.Context) {
	var q appfiles.BrowseQuery
	if !h.BindQuery(c, &q) {
		return
	}
	contents, err := h.service.Browse(c.Request.Context(), q.Path)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contents)
}

// Search godoc
// @ID           searchPublicFiles
// @Summary      Search public files by name
// @Tags         public-files
// @Produce      json
// @Param        q query string true "Part of the file name"
// @Success      200 {object} APIResponse[[]appfiles.FileItem]
// @Failure      400 {object} ErrorResponse
// @Router       /public-files/search [get]
func (h *PublicFilesHandler) Search(c *gin.Context) {
	var q appfiles.SearchQuery
	if !h.BindQuery(c, &q) {
		return
	}
	items, err := h.service.Search(c.Request.Context(), q.Q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}
