package recipe

import (
	"context"
	"sort"
	"sync"
	"time"

	"pantry-finder/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DetailResolver 依 ID 取得完整食譜；found 為 false 表示外部資料庫沒有此食譜
type DetailResolver interface {
	ResolveDetail(ctx context.Context, id string) (detail *RecipeDetail, found bool, err error)
}

// SearchOptions 搜尋設定
type SearchOptions struct {
	MaxCandidates     int
	LookupConcurrency int
	SkipFailedTerms   bool
}

// SearchService 依食材清單搜尋並排序食譜
type SearchService struct {
	aggregator *Aggregator
	resolver   DetailResolver
	opts       SearchOptions
}

// NewSearchService 創建搜尋服務
func NewSearchService(index IngredientIndex, resolver DetailResolver, opts SearchOptions) *SearchService {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = DefaultMaxCandidates
	}
	if opts.LookupConcurrency <= 0 {
		opts.LookupConcurrency = 1
	}
	return &SearchService{
		aggregator: NewAggregator(index, AggregatorOptions{
			Concurrency:     opts.LookupConcurrency,
			SkipFailedTerms: opts.SkipFailedTerms,
		}),
		resolver: resolver,
		opts:     opts,
	}
}

// Search 解析逗號分隔的食材輸入並搜尋
func (s *SearchService) Search(ctx context.Context, pantryText string) ([]RecipeDetail, error) {
	return s.SearchTerms(ctx, ParsePantry(pantryText))
}

// SearchTerms 以正規化後的食材搜尋食譜，結果依缺少食材數量由少到多排序（穩定排序）。
// 食材為空時回傳空結果。
func (s *SearchService) SearchTerms(ctx context.Context, terms []string) ([]RecipeDetail, error) {
	if len(terms) == 0 {
		return []RecipeDetail{}, nil
	}

	start := time.Now()
	candidates, err := s.aggregator.Aggregate(ctx, terms, s.opts.MaxCandidates)
	if err != nil {
		return nil, err
	}

	recipes, err := s.resolveAll(ctx, candidates)
	if err != nil {
		return nil, err
	}

	for i := range recipes {
		ApplyPantry(&recipes[i], terms)
	}
	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].MissingCount < recipes[j].MissingCount
	})

	common.LogInfo("食譜搜尋完成",
		zap.Strings("terms", terms),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(recipes)),
		zap.Duration("耗時", time.Since(start)),
	)
	return recipes, nil
}

// resolveAll 並行取得候選食譜的詳細資料。
// 單一食譜不存在或查詢失敗只會略過該食譜，不影響其他查詢；結果保留候選順序。
func (s *SearchService) resolveAll(ctx context.Context, candidates []RecipeSummary) ([]RecipeDetail, error) {
	resolved := make([]*RecipeDetail, len(candidates))

	var (
		g       errgroup.Group
		mu      sync.Mutex
		dropped []string
	)
	g.SetLimit(s.opts.MaxCandidates)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			detail, found, err := s.resolver.ResolveDetail(ctx, c.ID)
			switch {
			case err != nil:
				common.LogWarn("食譜詳細資料查詢失敗，略過",
					zap.String("id", c.ID),
					zap.Error(err),
				)
			case !found:
				common.LogDebug("食譜不存在，略過", zap.String("id", c.ID))
			default:
				resolved[i] = detail
				return nil
			}
			mu.Lock()
			dropped = append(dropped, c.ID)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	// 呼叫者放棄搜尋時不回傳部分結果
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]RecipeDetail, 0, len(candidates))
	for _, d := range resolved {
		if d != nil {
			out = append(out, *d)
		}
	}
	if len(dropped) > 0 {
		common.LogInfo("部分候選食譜已略過", zap.Strings("ids", dropped))
	}
	return out, nil
}

// Recipe 取得單一食譜並依食材清單計算已有與缺少的食材
func (s *SearchService) Recipe(ctx context.Context, id string, terms []string) (*View, bool, error) {
	detail, found, err := s.resolver.ResolveDetail(ctx, id)
	if err != nil || !found {
		return nil, found, err
	}
	view := NewView(*detail, terms)
	return &view, true, nil
}
