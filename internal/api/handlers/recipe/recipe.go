package recipe

import (
	"context"
	"net/http"
	"strings"

	"pantry-finder/internal/api/handlers"
	recipeService "pantry-finder/internal/core/recipe"
	"pantry-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Searcher 食譜搜尋服務
type Searcher interface {
	SearchTerms(ctx context.Context, terms []string) ([]recipeService.RecipeDetail, error)
	Recipe(ctx context.Context, id string, terms []string) (*recipeService.View, bool, error)
}

// SearchRequest 依食材搜尋食譜
type SearchRequest struct {
	Ingredients string                `json:"ingredients"` // 逗號分隔的食材，例如 "eggs, rice, chicken"
	Filters     recipeService.Filters `json:"filters"`
}

// SearchResponse 搜尋結果，Total 為篩選前的數量
type SearchResponse struct {
	Pantry  []string                     `json:"pantry"`
	Total   int                          `json:"total"`
	Count   int                          `json:"count"`
	Recipes []recipeService.RecipeDetail `json:"recipes"`
}

// FilterRequest 對已取得的食譜套用篩選
type FilterRequest struct {
	Recipes []recipeService.RecipeDetail `json:"recipes" binding:"required"`
	Filters recipeService.Filters        `json:"filters"`
}

// FilterResponse 篩選結果
type FilterResponse struct {
	Total   int                          `json:"total"`
	Count   int                          `json:"count"`
	Recipes []recipeService.RecipeDetail `json:"recipes"`
}

// FilterOptions 可用的篩選選項
type FilterOptions struct {
	Diet    []string `json:"diet"`
	Cuisine []string `json:"cuisine"`
	Time    []string `json:"time"`
}

// Handler 食譜處理程序
type Handler struct {
	searcher Searcher
	debug    bool
}

// NewHandler 創建新的食譜處理程序
func NewHandler(searcher Searcher, debug bool) *Handler {
	return &Handler{
		searcher: searcher,
		debug:    debug,
	}
}

// HandleSearch GET /recipes/search?ingredients=...&diet=...&cuisine=...&time=...
// ingredients 可重複出現，也可逗號分隔
func (h *Handler) HandleSearch(c *gin.Context) {
	h.search(c, queryTerms(c), recipeService.Filters{
		Diet:    queryList(c, "diet"),
		Cuisine: queryList(c, "cuisine"),
		Time:    queryList(c, "time"),
	})
}

// HandleSearchJSON POST /recipes/search
func (h *Handler) HandleSearchJSON(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.WriteError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}
	h.search(c, recipeService.ParsePantry(req.Ingredients), req.Filters)
}

func (h *Handler) search(c *gin.Context, terms []string, filters recipeService.Filters) {
	common.LogInfo("開始處理食譜搜尋請求",
		zap.String("request_id", requestid.Get(c)),
		zap.Strings("pantry", terms),
		zap.Strings("diet", filters.Diet),
		zap.Strings("cuisine", filters.Cuisine),
		zap.Strings("time", filters.Time),
	)

	recipes, err := h.searcher.SearchTerms(c.Request.Context(), terms)
	if err != nil {
		handlers.WriteError(c, err, h.debug)
		return
	}

	filtered := recipeService.ApplyFilters(recipes, filters)
	if terms == nil {
		terms = []string{}
	}
	c.JSON(http.StatusOK, SearchResponse{
		Pantry:  terms,
		Total:   len(recipes),
		Count:   len(filtered),
		Recipes: filtered,
	})
}

// HandleFilter POST /recipes/filter
func (h *Handler) HandleFilter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.WriteError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	filtered := recipeService.ApplyFilters(req.Recipes, req.Filters)
	c.JSON(http.StatusOK, FilterResponse{
		Total:   len(req.Recipes),
		Count:   len(filtered),
		Recipes: filtered,
	})
}

// HandleRecipe GET /recipes/:id?ingredients=...
func (h *Handler) HandleRecipe(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		handlers.WriteError(c, common.ErrInvalidRequest, h.debug)
		return
	}

	view, found, err := h.searcher.Recipe(c.Request.Context(), id, queryTerms(c))
	if err != nil {
		handlers.WriteError(c, err, h.debug)
		return
	}
	if !found {
		handlers.WriteError(c, common.ErrNotFound, h.debug)
		return
	}

	c.JSON(http.StatusOK, view)
}

// HandleFilterOptions GET /filters
func (h *Handler) HandleFilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, FilterOptions{
		Diet:    recipeService.DietOptions,
		Cuisine: recipeService.CuisineOptions,
		Time:    recipeService.TimeOptions,
	})
}

func queryTerms(c *gin.Context) []string {
	return recipeService.NormalizeTerms(c.QueryArray("ingredients"))
}

// queryList 支援重複參數（?diet=Vegan&diet=Keto）與逗號分隔（?diet=Vegan,Keto）
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		out = append(out, common.SplitCSV(v)...)
	}
	return out
}
