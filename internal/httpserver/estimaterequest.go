package httpserver

import (
	"net/http"
	"time"

	"moving-broker/internal/domain"
	requestsvc "moving-broker/internal/service/request"

	"github.com/gin-gonic/gin"
)

const moveDateLayout = "2006-01-02"

type createRequestBody struct {
	MoveType    string         `json:"moveType" binding:"required"`
	MoveDate    string         `json:"moveDate" binding:"required"`
	FromAddress domain.Address `json:"fromAddress" binding:"required"`
	ToAddress   domain.Address `json:"toAddress" binding:"required"`
}

func createRequestHandler(svc requestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body createRequestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		moveDate, err := time.Parse(moveDateLayout, body.MoveDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "moveDate must be formatted as YYYY-MM-DD"})
			return
		}

		id, err := svc.Create(c.Request.Context(), userIDFrom(c), requestsvc.CreateInput{
			MoveType:    domain.MoveType(body.MoveType),
			MoveDate:    moveDate,
			FromAddress: body.FromAddress,
			ToAddress:   body.ToAddress,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "message": "estimate request created"})
	}
}

type transitionBody struct {
	Status string `json:"status" binding:"required"`
}

func transitionHandler(svc requestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body transitionBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		err := svc.Transition(c.Request.Context(), c.Param("requestId"), domain.RequestStatus(body.Status), userIDFrom(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "status updated"})
	}
}

func activeRequestIDsHandler(svc requestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := svc.FindActiveIDs(c.Request.Context(), userIDFrom(c))
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]gin.H, 0, len(ids))
		for _, id := range ids {
			out = append(out, gin.H{"estimateRequestId": id})
		}
		c.JSON(http.StatusOK, out)
	}
}

type addTargetMoverBody struct {
	MoverID string `json:"moverId" binding:"required"`
}

func addTargetMoverHandler(svc requestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body addTargetMoverBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
		msg, err := svc.AddTargetMover(c.Request.Context(), c.Param("requestId"), body.MoverID, userIDFrom(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}

func historyHandler(svc historyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The owner's own history view is entitled to full mover contact
		// fields; the aggregator enforces the gate either way.
		projections, err := svc.ProjectHistory(c.Request.Context(), userIDFrom(c), true)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, projections)
	}
}
