package recipe

import (
	"context"
	"sort"

	"pantry-finder/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxCandidates 詳細資料查詢前保留的候選食譜上限
const DefaultMaxCandidates = 18

// IngredientIndex 依單一食材查詢食譜
type IngredientIndex interface {
	LookupByIngredient(ctx context.Context, term string) ([]RecipeSummary, error)
}

// AggregatorOptions 候選彙整設定
type AggregatorOptions struct {
	// Concurrency 同時進行的食材查詢數量上限
	Concurrency int
	// SkipFailedTerms 為 true 時，查詢失敗的食材視為空結果並記錄警告；
	// 否則第一個失敗會中止整個彙整並回傳錯誤。
	SkipFailedTerms bool
}

// Aggregator 將每個食材的查詢結果合併為單一排序候選清單
type Aggregator struct {
	index IngredientIndex
	opts  AggregatorOptions
}

// NewAggregator 創建候選彙整器
func NewAggregator(index IngredientIndex, opts AggregatorOptions) *Aggregator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Aggregator{index: index, opts: opts}
}

// termResult 單一食材的查詢結果，order 保留回傳順序
type termResult struct {
	order []string
	byID  map[string]RecipeSummary
}

func newTermResult(summaries []RecipeSummary) termResult {
	r := termResult{byID: make(map[string]RecipeSummary, len(summaries))}
	for _, s := range summaries {
		if _, dup := r.byID[s.ID]; dup {
			continue
		}
		r.byID[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r
}

// Aggregate 查詢每個食材並合併結果。
// 所有食材都符合的食譜（交集）優先；交集為空時改用聯集，依符合的食材數量由多到少排序。
// 結果最多保留 maxCandidates 筆（<= 0 時使用 DefaultMaxCandidates）。
func (a *Aggregator) Aggregate(ctx context.Context, terms []string, maxCandidates int) ([]RecipeSummary, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}

	results, err := a.lookupAll(ctx, terms)
	if err != nil {
		return nil, err
	}

	candidates := intersect(results)
	strategy := "intersection"
	if len(candidates) == 0 {
		candidates = unionByHits(results)
		strategy = "union"
	}

	common.LogDebug("候選食譜彙整完成",
		zap.Strings("terms", terms),
		zap.String("strategy", strategy),
		zap.Int("candidates", len(candidates)),
		zap.Int("max_candidates", maxCandidates),
	)

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates, nil
}

// lookupAll 並行查詢所有食材，結果順序與 terms 一致
func (a *Aggregator) lookupAll(ctx context.Context, terms []string) ([]termResult, error) {
	results := make([]termResult, len(terms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)
	for i, term := range terms {
		i, term := i, term
		g.Go(func() error {
			summaries, err := a.index.LookupByIngredient(gctx, term)
			if err != nil {
				if a.opts.SkipFailedTerms && IsRemoteLookupError(err) {
					common.LogWarn("食材查詢失敗，視為無結果",
						zap.String("term", term),
						zap.Error(err),
					)
					results[i] = newTermResult(nil)
					return nil
				}
				return err
			}
			results[i] = newTermResult(summaries)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// intersect 回傳出現在每個食材結果中的食譜，依第一個食材的結果順序
func intersect(results []termResult) []RecipeSummary {
	if len(results) == 0 {
		return nil
	}

	var out []RecipeSummary
	first := results[0]
	for _, id := range first.order {
		inAll := true
		for _, r := range results[1:] {
			if _, ok := r.byID[id]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, first.byID[id])
		}
	}
	return out
}

// unionByHits 回傳所有食譜，依符合的食材數量由多到少排序，同分時保留首次出現順序
func unionByHits(results []termResult) []RecipeSummary {
	type scored struct {
		summary RecipeSummary
		hits    int
	}

	var ordered []*scored
	byID := make(map[string]*scored)
	for _, r := range results {
		for _, id := range r.order {
			s, ok := byID[id]
			if !ok {
				s = &scored{summary: r.byID[id]}
				byID[id] = s
				ordered = append(ordered, s)
			}
			s.hits++
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].hits > ordered[j].hits
	})

	out := make([]RecipeSummary, len(ordered))
	for i, s := range ordered {
		out[i] = s.summary
	}
	return out
}
