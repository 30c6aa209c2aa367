package server

import (
	"net/http"
	"strings"

	"github.com/approvly/approvly/internal/agencyctx"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const agencyHeader = "X-Agency-ID"

// AgencyRequired resolves the agency ID header into the request context.
// No authentication happens here; upstream infrastructure owns that.
func (s *Server) AgencyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(agencyHeader))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing agency id"})
			return
		}

		agencyID, err := snowflake.ParseString(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid agency id"})
			return
		}

		ctx := agencyctx.WithAgencyID(c.Request.Context(), agencyID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
