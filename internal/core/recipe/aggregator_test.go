package recipe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIndex 以固定資料回應食材查詢
type fakeIndex struct {
	mu       sync.Mutex
	results  map[string][]string
	failures map[string]error
	calls    []string
}

func (f *fakeIndex) LookupByIngredient(_ context.Context, term string) ([]RecipeSummary, error) {
	f.mu.Lock()
	f.calls = append(f.calls, term)
	f.mu.Unlock()

	if err, ok := f.failures[term]; ok {
		return nil, err
	}
	ids := f.results[term]
	out := make([]RecipeSummary, len(ids))
	for i, id := range ids {
		out[i] = RecipeSummary{ID: id, Title: "Meal " + id, Thumb: "https://img/" + id + ".jpg"}
	}
	return out, nil
}

func ids(list []RecipeSummary) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.ID
	}
	return out
}

func newTestAggregator(index IngredientIndex, skip bool) *Aggregator {
	return NewAggregator(index, AggregatorOptions{Concurrency: 4, SkipFailedTerms: skip})
}

func TestAggregateIntersection(t *testing.T) {
	index := &fakeIndex{results: map[string][]string{
		"eggs": {"A", "B", "C"},
		"rice": {"B", "C", "D"},
	}}

	got, err := newTestAggregator(index, false).Aggregate(context.Background(), []string{"eggs", "rice"}, 18)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, ids(got))
	assert.Equal(t, "Meal B", got[0].Title)
	assert.ElementsMatch(t, []string{"eggs", "rice"}, index.calls)
}

func TestAggregateDisjointFallsBackToUnion(t *testing.T) {
	index := &fakeIndex{results: map[string][]string{
		"eggs":    {"A", "B"},
		"saffron": {"C"},
	}}

	got, err := newTestAggregator(index, false).Aggregate(context.Background(), []string{"eggs", "saffron"}, 18)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, ids(got))
}

func TestAggregateUnionOrderedByHits(t *testing.T) {
	index := &fakeIndex{results: map[string][]string{
		"eggs":   {"A", "B"},
		"rice":   {"B", "C"},
		"onion":  {"C", "D"},
		"garlic": {"E"},
	}}

	got, err := newTestAggregator(index, false).Aggregate(context.Background(),
		[]string{"eggs", "rice", "onion", "garlic"}, 18)
	require.NoError(t, err)
	// B 與 C 各符合兩個食材，其餘各一個；同分保留首次出現順序
	assert.Equal(t, []string{"B", "C", "A", "D", "E"}, ids(got))
}

func TestAggregateDuplicateIDsCountOncePerTerm(t *testing.T) {
	index := &fakeIndex{results: map[string][]string{
		"eggs": {"A", "A", "A"},
		"rice": {"B", "C"},
		"peas": {"C"},
	}}

	got, err := newTestAggregator(index, false).Aggregate(context.Background(), []string{"eggs", "rice", "peas"}, 18)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, ids(got))
}

func TestAggregateTruncates(t *testing.T) {
	index := &fakeIndex{results: map[string][]string{
		"eggs": {"A", "B", "C", "D"},
	}}

	got, err := newTestAggregator(index, false).Aggregate(context.Background(), []string{"eggs"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids(got))
}

func TestAggregateDefaultMaxCandidates(t *testing.T) {
	var many []string
	for i := 0; i < 30; i++ {
		many = append(many, fmt.Sprintf("%d", 52000+i))
	}
	index := &fakeIndex{results: map[string][]string{"chicken": many}}

	got, err := newTestAggregator(index, false).Aggregate(context.Background(), []string{"chicken"}, 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultMaxCandidates)
	assert.Equal(t, many[:DefaultMaxCandidates], ids(got))
}

func TestAggregateTermOrderIndependent(t *testing.T) {
	index := &fakeIndex{results: map[string][]string{
		"eggs":  {"A", "B", "C", "D"},
		"rice":  {"D", "C", "B"},
		"onion": {"C", "B", "X"},
	}}
	agg := newTestAggregator(index, false)

	forward, err := agg.Aggregate(context.Background(), []string{"eggs", "rice", "onion"}, 18)
	require.NoError(t, err)
	backward, err := agg.Aggregate(context.Background(), []string{"onion", "rice", "eggs"}, 18)
	require.NoError(t, err)

	assert.ElementsMatch(t, ids(forward), ids(backward))
	assert.ElementsMatch(t, []string{"B", "C"}, ids(forward))
}

func TestAggregateEmptyTerms(t *testing.T) {
	index := &fakeIndex{}

	got, err := newTestAggregator(index, false).Aggregate(context.Background(), nil, 18)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, index.calls)
}

func TestAggregatePropagatesLookupError(t *testing.T) {
	index := &fakeIndex{
		results: map[string][]string{"eggs": {"A"}},
		failures: map[string]error{
			"rice": &RemoteLookupError{Op: OpLookupByIngredient, Key: "rice", Err: errors.New("connection refused")},
		},
	}

	got, err := newTestAggregator(index, false).Aggregate(context.Background(), []string{"eggs", "rice"}, 18)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, IsRemoteLookupError(err))

	var rle *RemoteLookupError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, "rice", rle.Key)
}

func TestAggregateSkipFailedTerms(t *testing.T) {
	index := &fakeIndex{
		results: map[string][]string{"eggs": {"A", "B"}},
		failures: map[string]error{
			"rice": &RemoteLookupError{Op: OpLookupByIngredient, Key: "rice", Err: errors.New("unexpected status 500")},
		},
	}

	got, err := newTestAggregator(index, true).Aggregate(context.Background(), []string{"eggs", "rice"}, 18)
	require.NoError(t, err)
	// 失敗的食材視為空結果，交集為空而改用聯集
	assert.Equal(t, []string{"A", "B"}, ids(got))
}

func TestAggregateSkipOnlyAppliesToRemoteErrors(t *testing.T) {
	index := &fakeIndex{
		results:  map[string][]string{"eggs": {"A"}},
		failures: map[string]error{"rice": context.Canceled},
	}

	_, err := newTestAggregator(index, true).Aggregate(context.Background(), []string{"eggs", "rice"}, 18)
	assert.ErrorIs(t, err, context.Canceled)
}
