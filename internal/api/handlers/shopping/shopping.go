package shopping

import (
	"context"
	"net/http"

	"pantry-finder/internal/api/handlers"
	"pantry-finder/internal/core/recipe"
	shoppingService "pantry-finder/internal/core/shopping"
	"pantry-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Lists 購物清單服務
type Lists interface {
	Create(ctx context.Context) (*shoppingService.List, error)
	Get(ctx context.Context, id string) (*shoppingService.List, error)
	AddMissing(ctx context.Context, id string, missing []recipe.IngredientRef) (*shoppingService.List, error)
	Toggle(ctx context.Context, id, name string) (*shoppingService.List, error)
	Remove(ctx context.Context, id, name string) (*shoppingService.List, error)
	Clear(ctx context.Context, id string) (*shoppingService.List, error)
	Export(ctx context.Context, id string) (string, error)
}

// AddItemsRequest 將食譜缺少的食材加入清單
type AddItemsRequest struct {
	Items []recipe.IngredientRef `json:"items" binding:"required"`
}

// ToggleRequest 切換項目勾選狀態
type ToggleRequest struct {
	Name string `json:"name" binding:"required"`
}

// Handler 購物清單處理程序
type Handler struct {
	lists Lists
	debug bool
}

// NewHandler 創建新的購物清單處理程序
func NewHandler(lists Lists, debug bool) *Handler {
	return &Handler{lists: lists, debug: debug}
}

// HandleCreate POST /shopping
func (h *Handler) HandleCreate(c *gin.Context) {
	list, err := h.lists.Create(c.Request.Context())
	if err != nil {
		handlers.WriteError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// HandleGet GET /shopping/:id
func (h *Handler) HandleGet(c *gin.Context) {
	list, err := h.lists.Get(c.Request.Context(), c.Param("id"))
	h.respond(c, list, err)
}

// HandleAddItems POST /shopping/:id/items
func (h *Handler) HandleAddItems(c *gin.Context) {
	var req AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.WriteError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}
	list, err := h.lists.AddMissing(c.Request.Context(), c.Param("id"), req.Items)
	h.respond(c, list, err)
}

// HandleToggle POST /shopping/:id/items/toggle
func (h *Handler) HandleToggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.WriteError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}
	list, err := h.lists.Toggle(c.Request.Context(), c.Param("id"), req.Name)
	h.respond(c, list, err)
}

// HandleRemove DELETE /shopping/:id/items/:name
func (h *Handler) HandleRemove(c *gin.Context) {
	list, err := h.lists.Remove(c.Request.Context(), c.Param("id"), c.Param("name"))
	h.respond(c, list, err)
}

// HandleClear DELETE /shopping/:id/items
func (h *Handler) HandleClear(c *gin.Context) {
	list, err := h.lists.Clear(c.Request.Context(), c.Param("id"))
	h.respond(c, list, err)
}

// HandleExport GET /shopping/:id/export
func (h *Handler) HandleExport(c *gin.Context) {
	text, err := h.lists.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.WriteError(c, err, h.debug)
		return
	}
	c.String(http.StatusOK, text)
}

func (h *Handler) respond(c *gin.Context, list *shoppingService.List, err error) {
	if err != nil {
		handlers.WriteError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, list)
}
