package paginator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"wasabi-history/internal/history/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockFetcher 按游标返回预置的页
type mockFetcher struct {
	pages   map[string]*model.Page
	errAt   string
	cursors []string
}

func (m *mockFetcher) FetchPage(ctx context.Context, trader, cursor string) (*model.Page, error) {
	m.cursors = append(m.cursors, cursor)
	if cursor == m.errAt {
		return nil, errors.New("status 503")
	}
	page, ok := m.pages[cursor]
	if !ok {
		return nil, fmt.Errorf("unexpected cursor %s", cursor)
	}
	return page, nil
}

func items(hashes ...string) []model.RawRecord {
	out := make([]model.RawRecord, 0, len(hashes))
	for _, h := range hashes {
		out = append(out, model.RawRecord{TransactionHash: model.NewScalar(h)})
	}
	return out
}

func hashes(records []*model.RawRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.TransactionHash.String())
	}
	return out
}

func threePages() *mockFetcher {
	return &mockFetcher{pages: map[string]*model.Page{
		"0":  {Items: items("a", "b"), HasNextPage: true, NextPageToken: model.NewScalar("p2")},
		"p2": {Items: items("c"), HasNextPage: true, NextPageToken: model.NewScalar("p3")},
		"p3": {Items: items("d", "e"), HasNextPage: false},
	}}
}

func TestPaginator_AllPages(t *testing.T) {
	f := threePages()
	p := New(f, 0, zap.NewNop())

	records, err := p.All(context.Background(), "0xTrader")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, hashes(records))
	assert.Equal(t, []string{"0", "p2", "p3"}, f.cursors)
}

func TestPaginator_EmptyHistory(t *testing.T) {
	f := &mockFetcher{pages: map[string]*model.Page{"0": {}}}
	records, err := New(f, 0, zap.NewNop()).All(context.Background(), "0xTrader")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Len(t, f.cursors, 1)
}

func TestPaginator_FetchErrorAborts(t *testing.T) {
	f := threePages()
	f.errAt = "p2"

	records, err := New(f, 0, zap.NewNop()).All(context.Background(), "0xTrader")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
	assert.Nil(t, records)
	assert.Equal(t, []string{"0", "p2"}, f.cursors)
}

func TestPaginator_CursorLoop(t *testing.T) {
	f := &mockFetcher{pages: map[string]*model.Page{
		"0":  {Items: items("a"), HasNextPage: true, NextPageToken: model.NewScalar("p2")},
		"p2": {Items: items("b"), HasNextPage: true, NextPageToken: model.NewScalar("0")},
	}}

	_, err := New(f, 0, zap.NewNop()).All(context.Background(), "0xTrader")
	require.ErrorIs(t, err, ErrCursorLoop)
	assert.Equal(t, []string{"0", "p2"}, f.cursors)
}

func TestPaginator_MaxPages(t *testing.T) {
	f := threePages()

	_, err := New(f, 2, zap.NewNop()).All(context.Background(), "0xTrader")
	require.ErrorIs(t, err, ErrPageLimit)
	assert.Equal(t, []string{"0", "p2"}, f.cursors)

	f = threePages()
	records, err := New(f, 3, zap.NewNop()).All(context.Background(), "0xTrader")
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestPaginator_RecordsIsLazyAndRestartable(t *testing.T) {
	f := threePages()
	p := New(f, 0, zap.NewNop())

	var got []string
	for rec, err := range p.Records(context.Background(), "0xTrader") {
		require.NoError(t, err)
		got = append(got, rec.TransactionHash.String())
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, []string{"0"}, f.cursors)

	records, err := p.All(context.Background(), "0xTrader")
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, []string{"0", "0", "p2", "p3"}, f.cursors)
}
