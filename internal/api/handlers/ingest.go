package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/paddockml/racesim/internal/domain"
	"github.com/paddockml/racesim/internal/ingest"
)

// IngestHandler exposes CSV driver-lineup ingest/export over HTTP, for
// clients that would rather upload a spreadsheet than construct JSON.
type IngestHandler struct {
	logger *logrus.Logger
}

func NewIngestHandler(logger *logrus.Logger) *IngestHandler {
	return &IngestHandler{logger: logger}
}

// UploadCSV parses a multipart-uploaded CSV file into driver metrics.
func (h *IngestHandler) UploadCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "no file uploaded",
			Code:  "MISSING_FILE",
		})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not open uploaded file", Code: "BAD_UPLOAD"})
		return
	}
	defer f.Close()

	drivers, err := ingest.Parse(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid driver CSV",
			Code:    "INVALID_CSV",
			Details: map[string]string{"reason": err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

// ExportCSV re-serialises the posted driver list back to CSV, letting
// clients round-trip an edited lineup.
func (h *IngestHandler) ExportCSV(c *gin.Context) {
	var req struct {
		Drivers []domain.DriverMetrics `json:"drivers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request body",
			Code:    "INVALID_REQUEST",
			Details: map[string]string{"validation_error": err.Error()},
		})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=drivers.csv")
	if err := ingest.Write(c.Writer, req.Drivers); err != nil {
		h.logger.WithError(err).Error("failed to write driver CSV")
	}
}
