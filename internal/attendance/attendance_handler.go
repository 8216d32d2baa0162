package attendance

import (
	"errors"
	"net/http"

	"go-clockin/internal/apiclient"
	"go-clockin/internal/shared/apperror"
	"go-clockin/internal/shared/contextutil"
	"go-clockin/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus != 0 {
		response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message)
		return
	}

	contextutil.GetLogger(c.Request.Context(), zap.L()).Error("unhandled service error", zap.Error(err))
	response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, apperror.ErrInternal.Message)
}

func (h *Handler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	resp, err := h.service.Me(ctx, contextutil.GetUsername(ctx))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Clock(c *gin.Context) {
	var req apiclient.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "latitude and longitude are required")
		return
	}

	ctx := c.Request.Context()
	resp, err := h.service.Clock(ctx, contextutil.GetUsername(ctx), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}
