package server

import (
	"net/http"

	"ActivityAdmin/model"
	"ActivityAdmin/repository"
	"ActivityAdmin/service"
)

// LogHandler serves the operation log.
type LogHandler struct {
	audit *service.AuditService
}

// NewLogHandler 创建操作日志处理器
func NewLogHandler(audit *service.AuditService) *LogHandler {
	return &LogHandler{audit: audit}
}

// ListLogsHandler 分页查询操作日志
func (h *LogHandler) ListLogsHandler(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	filter := repository.OperationLogFilter{
		Category:        model.LogCategory(q.Get("category")),
		Operator:        q.Get("operator"),
		MessageContains: q.Get("q"),
	}
	p, _ := PrincipalFromContext(r.Context())
	res, err := h.audit.List(r.Context(), p, filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}
