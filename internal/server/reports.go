package server

import (
	"errors"
	"fmt"
	"net/http"

	clientdomain "github.com/approvly/approvly/internal/client/domain"
	reportdomain "github.com/approvly/approvly/internal/report/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ClientReport streams the two-sheet workbook for one client; pass
// ?sheet=posts for the single posts report.
func (s *Server) ClientReport(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	var data []byte
	if c.Query("sheet") == "posts" {
		data, err = s.reportSvc.PostsReport(c.Request.Context(), id)
	} else {
		data, err = s.reportSvc.ClientWorkbook(c.Request.Context(), id)
	}
	if err != nil {
		switch {
		case errors.Is(err, clientdomain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		case errors.Is(err, reportdomain.ErrNoPosts):
			c.JSON(http.StatusNotFound, gin.H{"error": "no posts for client"})
		default:
			s.log.Error("report generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report-"+id.String()+".xlsx"))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ApplyReport applies status/feedback edits from a reviewed workbook back
// onto the stored posts.
func (s *Server) ApplyReport(c *gin.Context) {
	up, ok := s.readUpload(c)
	if !ok {
		return
	}

	result, err := s.reportSvc.ApplyWorkbook(c.Request.Context(), up.Data)
	if err != nil {
		switch {
		case errors.Is(err, reportdomain.ErrInvalidAgency):
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid agency"})
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
