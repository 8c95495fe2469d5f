package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pantry-finder/internal/core/cache"
	"pantry-finder/internal/core/recipe"
	"pantry-finder/internal/pkg/common"

	"go.uber.org/zap"
)

const storeNamespace = "shopping"

// Service 購物清單服務，清單以 JSON 存放在 cache.Store
type Service struct {
	store cache.Store
	mu    sync.Mutex // 序列化同一進程內的讀-改-寫
	now   func() time.Time
}

// NewService 創建購物清單服務
func NewService(store cache.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Create 建立空白清單
func (s *Service) Create(ctx context.Context) (*List, error) {
	list := &List{ID: common.GenerateUUID(), Items: []Item{}, UpdatedAt: s.now()}
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	common.LogInfo("購物清單已建立", zap.String("list_id", list.ID))
	return list, nil
}

// Get 取得清單
func (s *Service) Get(ctx context.Context, id string) (*List, error) {
	if !common.IsUUID(id) {
		return nil, common.ErrListNotFound
	}
	raw, err := s.store.Get(ctx, storeNamespace, id)
	if err != nil {
		if errors.Is(err, common.ErrCacheMiss) {
			return nil, common.ErrListNotFound
		}
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}

	var list List
	if err := common.ParseJSON(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode shopping list: %w", err)
	}
	if list.Items == nil {
		list.Items = []Item{}
	}
	return &list, nil
}

// AddMissing 將缺少的食材合併進清單
func (s *Service) AddMissing(ctx context.Context, id string, missing []recipe.IngredientRef) (*List, error) {
	return s.update(ctx, id, func(items []Item) ([]Item, error) {
		return Merge(items, missing), nil
	})
}

// Toggle 切換項目勾選狀態
func (s *Service) Toggle(ctx context.Context, id, name string) (*List, error) {
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	return s.update(ctx, id, func(items []Item) ([]Item, error) {
		out, found := Toggle(items, name)
		if !found {
			return nil, common.ErrNotFound
		}
		return out, nil
	})
}

// Remove 移除項目
func (s *Service) Remove(ctx context.Context, id, name string) (*List, error) {
	if err := validateItemName(name); err != nil {
		return nil, err
	}
	return s.update(ctx, id, func(items []Item) ([]Item, error) {
		out, found := Remove(items, name)
		if !found {
			return nil, common.ErrNotFound
		}
		return out, nil
	})
}

// Clear 清空清單
func (s *Service) Clear(ctx context.Context, id string) (*List, error) {
	return s.update(ctx, id, func([]Item) ([]Item, error) {
		return []Item{}, nil
	})
}

// Export 以純文字輸出清單
func (s *Service) Export(ctx context.Context, id string) (string, error) {
	list, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return Export(list.Items), nil
}

func validateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return common.NewValidationError("item name must not be blank")
	}
	return nil
}

func (s *Service) update(ctx context.Context, id string, fn func([]Item) ([]Item, error)) (*List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := fn(list.Items)
	if err != nil {
		return nil, err
	}
	list.Items = items
	list.UpdatedAt = s.now()
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) save(ctx context.Context, list *List) error {
	raw, err := common.ToJSON(list)
	if err != nil {
		return fmt.Errorf("failed to encode shopping list: %w", err)
	}
	if err := s.store.Set(ctx, storeNamespace, list.ID, raw); err != nil {
		return fmt.Errorf("failed to save shopping list: %w", err)
	}
	return nil
}
