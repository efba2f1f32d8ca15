package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

// statusClientClosed is the nginx convention for a request the client abandoned
const statusClientClosed = 499

var statusByCode = map[models.Code]int{
	models.CodeInvalidInput:          http.StatusBadRequest,
	models.CodeTranscriptUnavailable: http.StatusNotFound,
	models.CodeModelError:            http.StatusBadGateway,
	models.CodeAllChunksFailed:       http.StatusBadGateway,
	models.CodeCancelled:             statusClientClosed,
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.ready != nil {
		if err := s.ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, Response{
				Code:    503,
				Data:    gin.H{"status": "degraded"},
				Message: err.Error(),
				Error:   string(models.CodeOf(err)),
			})
			return
		}
	}

	c.JSON(http.StatusOK, Response{
		Code:    200,
		Data:    gin.H{"status": "ok"},
		Message: "everything is good",
	})
}

func (s *Server) handleSummarize(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, models.NewError(models.CodeInvalidInput, "invalid request body: url is required", err))
		return
	}
	if req.MaxOutputLength < 0 {
		s.writeError(c, models.NewError(models.CodeInvalidInput, "max_output_length must not be negative", nil))
		return
	}

	summary, err := s.pipeline.RunWithLimit(c.Request.Context(), req.URL, req.MaxOutputLength)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Code: 200,
		Data: gin.H{
			"run_id":        summary.RunID,
			"video_id":      summary.VideoID,
			"summary":       summary.Text,
			"chunks":        summary.Chunks,
			"failed_chunks": summary.FailedChunks,
			"rounds":        summary.Rounds,
			"truncated":     summary.Truncated,
		},
		Message: "summary created",
	})
}

func (s *Server) writeError(c *gin.Context, err error) {
	code := models.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := err.Error()
	var e *models.Error
	if errors.As(err, &e) {
		message = e.Message
	}

	c.JSON(status, Response{
		Code:    status,
		Message: message,
		Error:   string(code),
	})
}
