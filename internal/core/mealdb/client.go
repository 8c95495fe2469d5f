package mealdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pantry-finder/internal/core/cache"
	"pantry-finder/internal/core/recipe"
	"pantry-finder/internal/infrastructure/config"
	"pantry-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	filterEndpoint = "/filter.php"
	lookupEndpoint = "/lookup.php"

	cacheNamespace = "mealdb"
)

// Client TheMealDB API 客戶端，同時實作 recipe.IngredientIndex 與 recipe.DetailResolver。
// 不做重試，重試策略由呼叫端決定。
type Client struct {
	client  *resty.Client
	cache   cache.Store
	siteURL string
}

var (
	_ recipe.IngredientIndex = (*Client)(nil)
	_ recipe.DetailResolver  = (*Client)(nil)
)

// NewClient 創建 TheMealDB 客戶端；store 為 nil 時不快取回應
func NewClient(cfg config.MealDBConfig, store cache.Store) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"+cfg.APIKey).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "pantry-finder")

	return &Client{
		client:  client,
		cache:   store,
		siteURL: strings.TrimRight(cfg.SiteURL, "/"),
	}
}

// LookupByIngredient 查詢含有指定食材的食譜
func (c *Client) LookupByIngredient(ctx context.Context, term string) ([]recipe.RecipeSummary, error) {
	if strings.TrimSpace(term) == "" {
		return nil, &recipe.RemoteLookupError{Op: recipe.OpLookupByIngredient, Key: term, Err: errors.New("empty ingredient")}
	}

	meals, err := c.fetch(ctx, recipe.OpLookupByIngredient, filterEndpoint, term)
	if err != nil {
		return nil, err
	}

	out := make([]recipe.RecipeSummary, 0, len(meals))
	for _, m := range meals {
		id := m.field("idMeal")
		if id == "" {
			continue
		}
		out = append(out, recipe.RecipeSummary{
			ID:    id,
			Title: m.field("strMeal"),
			Thumb: m.field("strMealThumb"),
		})
	}
	return out, nil
}

// ResolveDetail 取得食譜完整資料；外部資料庫沒有此 ID 時回傳 found=false 且無錯誤
func (c *Client) ResolveDetail(ctx context.Context, id string) (*recipe.RecipeDetail, bool, error) {
	meals, err := c.fetch(ctx, recipe.OpResolveDetail, lookupEndpoint, id)
	if err != nil {
		return nil, false, err
	}
	if len(meals) == 0 {
		return nil, false, nil
	}

	detail := c.toDetail(meals[0])
	if detail.ID == "" {
		detail.ID = id
		detail.SourceURL = c.sourceURL(meals[0], id)
	}
	return detail, true, nil
}

// fetch 送出查詢並解析 meals 陣列，成功的回應會寫入快取
func (c *Client) fetch(ctx context.Context, op, endpoint, param string) ([]meal, error) {
	key := endpoint + ":" + param

	if c.cache != nil {
		if body, err := c.cache.Get(ctx, cacheNamespace, key); err == nil {
			if meals, err := decodeMeals([]byte(body)); err == nil {
				return meals, nil
			}
			common.LogWarn("快取內容無法解析，重新查詢", zap.String("key", key))
			if err := c.cache.Delete(ctx, cacheNamespace, key); err != nil {
				common.LogWarn("刪除快取失敗", zap.String("key", key), zap.Error(err))
			}
		} else if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("讀取快取失敗", zap.String("key", key), zap.Error(err))
		}
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("i", param).
		Get(endpoint)
	if err != nil {
		err = &recipe.RemoteLookupError{Op: op, Key: param, Err: err}
		common.LogUpstreamCall(endpoint, param, time.Since(start), err)
		return nil, err
	}

	if resp.StatusCode() != http.StatusOK {
		err = &recipe.RemoteLookupError{Op: op, Key: param, Err: fmt.Errorf("unexpected status %d", resp.StatusCode())}
		common.LogUpstreamCall(endpoint, param, time.Since(start), err)
		return nil, err
	}

	meals, err := decodeMeals(resp.Body())
	if err != nil {
		err = &recipe.RemoteLookupError{Op: op, Key: param, Err: fmt.Errorf("malformed payload: %w", err)}
		common.LogUpstreamCall(endpoint, param, time.Since(start), err)
		return nil, err
	}
	common.LogUpstreamCall(endpoint, param, time.Since(start), nil)

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheNamespace, key, string(resp.Body())); err != nil {
			common.LogWarn("寫入快取失敗", zap.String("key", key), zap.Error(err))
		}
	}
	return meals, nil
}

// toDetail 將固定 20 格的食材欄位轉為有序清單
func (c *Client) toDetail(m meal) *recipe.RecipeDetail {
	id := m.field("idMeal")
	return &recipe.RecipeDetail{
		ID:           id,
		Title:        m.field("strMeal"),
		Thumb:        m.field("strMealThumb"),
		Area:         m.field("strArea"),
		Category:     m.field("strCategory"),
		SourceURL:    c.sourceURL(m, id),
		Instructions: m.field("strInstructions"),
		Ingredients:  m.ingredients(),
		Missing:      []recipe.IngredientRef{},
	}
}

// sourceURL 沒有原始來源時使用 TheMealDB 的食譜頁面
func (c *Client) sourceURL(m meal, id string) string {
	if src := strings.TrimSpace(m.field("strSource")); src != "" {
		return src
	}
	return fmt.Sprintf("%s/meal.php?c=%s", c.siteURL, id)
}
