package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/approvly/approvly/internal/agencyctx"
	clientdomain "github.com/approvly/approvly/internal/client/domain"
	uploaddomain "github.com/approvly/approvly/internal/upload/domain"
	"github.com/approvly/approvly/pkg/db/option"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createClientRequest struct {
	Name     string `json:"name" binding:"required"`
	Timezone string `json:"timezone"`
}

func (s *Server) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	client, err := s.clientSvc.Create(c.Request.Context(), clientdomain.CreateClientRequest{
		Name:     req.Name,
		Timezone: req.Timezone,
	})
	if err != nil {
		s.clientError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (s *Server) ListClients(c *gin.Context) {
	clients, err := s.clientSvc.List(c.Request.Context())
	if err != nil {
		s.clientError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (s *Server) GetClient(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	client, err := s.clientSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		s.clientError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (s *Server) GetUpload(c *gin.Context) {
	agencyID, ok := agencyctx.AgencyIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid agency"})
		return
	}

	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload id"})
		return
	}

	batch, err := s.uploadRepo.FindByID(c.Request.Context(), s.db, agencyID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
		return
	}
	c.JSON(http.StatusOK, batch)
}

// ListUploads returns the agency's import history, most recent first.
func (s *Server) ListUploads(c *gin.Context) {
	agencyID, ok := agencyctx.AgencyIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid agency"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}

	opts := []option.QueryOption{
		option.WithWhere("agency_id = ?", agencyID),
		option.WithOrder("created_at desc"),
		option.WithLimit(limit),
	}
	if raw := c.Query("client_id"); raw != "" {
		clientID, err := snowflake.ParseString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return
		}
		opts = append(opts, option.WithWhere("client_id = ?", clientID))
	}

	batches, err := s.uploadStore.Find(c.Request.Context(), &uploaddomain.UploadBatch{}, opts...)
	if err != nil {
		s.log.Error("list uploads failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploads": batches})
}

func (s *Server) clientError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, clientdomain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
	case errors.Is(err, clientdomain.ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid name"})
	case errors.Is(err, clientdomain.ErrInvalidAgency):
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid agency"})
	default:
		s.log.Error("client request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
