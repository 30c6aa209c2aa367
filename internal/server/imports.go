package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	clientdomain "github.com/approvly/approvly/internal/client/domain"
	ingestdomain "github.com/approvly/approvly/internal/ingest/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// upload is the decoded multipart payload common to all import routes.
type upload struct {
	Filename string
	Data     []byte
	Excel    bool
}

func (s *Server) readUpload(c *gin.Context) (upload, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Ingest.MaxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return upload{}, false
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return upload{}, false
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return upload{}, false
	}

	return upload{
		Filename: header.Filename,
		Data:     data,
		Excel:    strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx"),
	}, true
}

func (s *Server) clientIDParam(c *gin.Context) (snowflake.ID, bool) {
	raw := strings.TrimSpace(c.PostForm("client_id"))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("client_id"))
	}
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing client_id"})
		return 0, false
	}

	id, err := snowflake.ParseString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
		return 0, false
	}
	return id, true
}

func (s *Server) ImportPosts(c *gin.Context) {
	clientID, ok := s.clientIDParam(c)
	if !ok {
		return
	}
	up, ok := s.readUpload(c)
	if !ok {
		return
	}

	result, err := s.ingestSvc.ImportPosts(c.Request.Context(), ingestdomain.ImportRequest{
		ClientID: clientID,
		Filename: up.Filename,
		Data:     up.Data,
		Excel:    up.Excel,
	})
	if err != nil {
		s.importError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) ImportAnalytics(c *gin.Context) {
	clientID, ok := s.clientIDParam(c)
	if !ok {
		return
	}
	up, ok := s.readUpload(c)
	if !ok {
		return
	}

	result, err := s.ingestSvc.ImportAnalytics(c.Request.Context(), ingestdomain.ImportRequest{
		ClientID: clientID,
		Filename: up.Filename,
		Data:     up.Data,
		Excel:    up.Excel,
	})
	if err != nil {
		s.importError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) ImportFollowers(c *gin.Context) {
	clientID, ok := s.clientIDParam(c)
	if !ok {
		return
	}
	up, ok := s.readUpload(c)
	if !ok {
		return
	}

	result, err := s.ingestSvc.ImportFollowers(c.Request.Context(), ingestdomain.ImportRequest{
		ClientID: clientID,
		Filename: up.Filename,
		Data:     up.Data,
		Excel:    up.Excel,
	})
	if err != nil {
		s.importError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) ImportAgencyAnalytics(c *gin.Context) {
	up, ok := s.readUpload(c)
	if !ok {
		return
	}

	result, err := s.ingestSvc.ImportAgencyAnalytics(c.Request.Context(), ingestdomain.AgencyImportRequest{
		Filename: up.Filename,
		Data:     up.Data,
		Excel:    up.Excel,
	})
	if err != nil {
		s.importError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// importError maps orchestrator failures onto HTTP statuses. Batch-fatal
// parse failures are the caller's fault; everything else is ours.
func (s *Server) importError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ingestdomain.ErrInvalidClient), errors.Is(err, clientdomain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
	case errors.Is(err, ingestdomain.ErrInvalidAgency):
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid agency"})
	case errors.Is(err, ingestdomain.ErrNoValidRows):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		s.log.Error("import failed", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	}
}
