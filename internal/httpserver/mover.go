package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"moving-broker/internal/domain"
	moverrepo "moving-broker/internal/repository/mover"
	discoverysvc "moving-broker/internal/service/discovery"

	"github.com/gin-gonic/gin"
)

type discoveryService interface {
	List(ctx context.Context, in discoverysvc.ListInput) (*discoverysvc.ListOutput, error)
	GetDetail(ctx context.Context, moverID, viewerID string) (*discoverysvc.MoverDetail, error)
}

func listMoversHandler(svc discoveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := discoverysvc.ListInput{
			Cursor:         c.Query("cursor"),
			OrderField:     moverrepo.OrderField(c.Query("orderField")),
			OrderDirection: moverrepo.Direction(c.Query("orderDirection")),
			ServiceType:    parseFlags(c.Query("serviceType"), domain.ServiceTypeKeys),
			ServiceRegion:  parseFlags(c.Query("serviceRegion"), domain.ServiceRegionKeys),
			ViewerID:       c.GetHeader(userIDHeader),
		}
		if raw := c.Query("take"); raw != "" {
			take, err := strconv.Atoi(raw)
			if err != nil {
				writeError(c, domain.ErrInvalidPageSize)
				return
			}
			in.Take = &take
		}

		out, err := svc.List(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func moverDetailHandler(svc discoveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := svc.GetDetail(c.Request.Context(), c.Param("moverId"), c.GetHeader(userIDHeader))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// parseFlags turns a comma-separated category list into a flag set,
// keeping only recognized categories. An unknown-only list yields an empty
// set, which the service rejects as an empty filter.
func parseFlags(raw string, known []string) domain.ServiceFlags {
	flags := domain.ServiceFlags{}
	if raw == "" {
		return flags
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		for _, k := range known {
			if part == k {
				flags[k] = true
			}
		}
	}
	return flags
}
