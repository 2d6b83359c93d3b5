package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/dto"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/middleware"
)

// archiveHandler handles HTTP requests for yearly archives.
type archiveHandler struct {
	archiveService portssvc.ArchiveSvcFacade
}

func newArchiveHandler(as portssvc.ArchiveSvcFacade) *archiveHandler {
	return &archiveHandler{archiveService: as}
}

// registerArchiveRoutes registers routes related to yearly archives.
func registerArchiveRoutes(rg *gin.RouterGroup, archiveService portssvc.ArchiveSvcFacade) {
	h := newArchiveHandler(archiveService)

	archives := rg.Group("/archives")
	{
		archives.POST("", h.archiveYear)
		archives.GET("", h.listArchives)
		archives.GET("/:year", h.getArchive)
		archives.GET("/:year/export", h.exportArchiveCSV)
	}
}

func yearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return 0, false
	}
	return year, true
}

// archiveYear godoc
// @Summary Archive a calendar year
// @Description Freezes one year's settled records into an archive and removes them from the live dataset
// @Tags archives
// @Accept json
// @Produce json
// @Param archive body dto.ArchiveYearRequest true "Year to archive"
// @Success 201 {object} dto.ArchiveResponse
// @Failure 400 {object} map[string]string "Nothing to archive"
// @Failure 409 {object} map[string]string "Year already archived"
// @Security BearerAuth
// @Router /archives [post]
func (h *archiveHandler) archiveYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.ArchiveYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for archiveYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	created, err := h.archiveService.ArchiveYear(c.Request.Context(), userID, req.Year)
	if err != nil {
		handleServiceError(c, err, "archive year")
		return
	}
	c.JSON(http.StatusCreated, dto.ToArchiveResponse(created, false))
}

// listArchives godoc
// @Summary List yearly archives
// @Description Returns all archives newest first, summaries only
// @Tags archives
// @Produce json
// @Success 200 {array} dto.ArchiveResponse
// @Security BearerAuth
// @Router /archives [get]
func (h *archiveHandler) listArchives(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	archives, err := h.archiveService.ListArchives(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "list archives")
		return
	}
	c.JSON(http.StatusOK, dto.ToListArchiveResponse(archives))
}

// getArchive godoc
// @Summary Get an archived year in full detail
// @Tags archives
// @Produce json
// @Param year path int true "Archived year"
// @Success 200 {object} dto.ArchiveResponse
// @Failure 404 {object} map[string]string "Archive not found"
// @Security BearerAuth
// @Router /archives/{year} [get]
func (h *archiveHandler) getArchive(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	year, ok := yearParam(c)
	if !ok {
		return
	}

	archive, err := h.archiveService.GetArchive(c.Request.Context(), userID, year)
	if err != nil {
		handleServiceError(c, err, "retrieve archive")
		return
	}
	c.JSON(http.StatusOK, dto.ToArchiveResponse(archive, true))
}

// exportArchiveCSV godoc
// @Summary Export an archived year as CSV
// @Description Renders the archived year's period ledger as a CSV download
// @Tags archives
// @Produce text/csv
// @Param year path int true "Archived year"
// @Success 200 {string} string "CSV content"
// @Failure 404 {object} map[string]string "Archive not found"
// @Security BearerAuth
// @Router /archives/{year}/export [get]
func (h *archiveHandler) exportArchiveCSV(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	year, ok := yearParam(c)
	if !ok {
		return
	}

	data, err := h.archiveService.ExportArchiveCSV(c.Request.Context(), userID, year)
	if err != nil {
		handleServiceError(c, err, "export archive")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="archive-%d.csv"`, year))
	c.Data(http.StatusOK, "text/csv", data)
}
