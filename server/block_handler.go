package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"ActivityAdmin/repository"
	"ActivityAdmin/service"
)

// BlockHandler serves block list management.
type BlockHandler struct {
	blocks *service.BlockListService
}

// NewBlockHandler 创建黑名单处理器
func NewBlockHandler(blocks *service.BlockListService) *BlockHandler {
	return &BlockHandler{blocks: blocks}
}

type addEntryRequest struct {
	BlockTypeID string `json:"blockTypeId"`
	BlockValue  string `json:"blockValue"`
}

type entryStatusRequest struct {
	IsActive *bool `json:"isActive"`
}

// ListTypesHandler 获取全部黑名单类型
func (h *BlockHandler) ListTypesHandler(w http.ResponseWriter, r *http.Request) {
	types, err := h.blocks.ListTypes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, types)
}

// ListEntriesHandler 分页查询黑名单. typeId "0" means any type, like an absent one.
func (h *BlockHandler) ListEntriesHandler(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	filter := repository.BlockEntityFilter{ValueContains: q.Get("value")}
	if typeID := q.Get("typeId"); typeID != "0" {
		filter.TypeID = typeID
	}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, service.ErrValidation)
			return
		}
		filter.ActiveOnly = active
	}

	res, err := h.blocks.ListEntries(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// AddEntryHandler 添加黑名单
func (h *BlockHandler) AddEntryHandler(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, _ := PrincipalFromContext(r.Context())
	e, err := h.blocks.AddEntry(r.Context(), p, req.BlockTypeID, req.BlockValue)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, e)
}

// SetStatusHandler 启用或禁用黑名单
func (h *BlockHandler) SetStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req entryStatusRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.IsActive == nil {
		writeError(w, service.ErrValidation)
		return
	}
	p, _ := PrincipalFromContext(r.Context())
	if err := h.blocks.SetEntryStatus(r.Context(), p, mux.Vars(r)["id"], *req.IsActive); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// DeleteEntryHandler 删除黑名单
func (h *BlockHandler) DeleteEntryHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	if err := h.blocks.DeleteEntry(r.Context(), p, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// ExportHandler 导出启用中的黑名单到对象存储
func (h *BlockHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	res, err := h.blocks.ExportActive(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}
