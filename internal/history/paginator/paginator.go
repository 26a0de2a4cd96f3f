package paginator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"wasabi-history/internal/history/model"
	"wasabi-history/internal/history/monitor"

	"go.uber.org/zap"
)

// StartCursor 首页游标
const StartCursor = "0"

var (
	ErrCursorLoop = errors.New("pagination cursor repeated")
	ErrPageLimit  = errors.New("pagination page limit reached")
)

// Fetcher 交易历史数据源
type Fetcher interface {
	FetchPage(ctx context.Context, trader, cursor string) (*model.Page, error)
}

type Paginator struct {
	fetcher  Fetcher
	maxPages int
	tl       *zap.Logger
}

// New maxPages <= 0 表示不限制页数
func New(fetcher Fetcher, maxPages int, logger *zap.Logger) *Paginator {
	return &Paginator{
		fetcher:  fetcher,
		maxPages: maxPages,
		tl:       logger,
	}
}

// Records 按页顺序惰性产出原始记录。
// 每次调用都从首页重新开始；出错时产出一次 error 后结束。
func (p *Paginator) Records(ctx context.Context, trader string) iter.Seq2[*model.RawRecord, error] {
	return func(yield func(*model.RawRecord, error) bool) {
		cursor := StartCursor
		seen := map[string]struct{}{cursor: {}}

		for pageNum := 1; ; pageNum++ {
			if p.maxPages > 0 && pageNum > p.maxPages {
				yield(nil, fmt.Errorf("%w: %d pages, next cursor %s", ErrPageLimit, p.maxPages, cursor))
				return
			}

			p.tl.Info("Fetching page", zap.Int("page", pageNum), zap.String("cursor", cursor))
			start := time.Now()
			page, err := p.fetcher.FetchPage(ctx, trader, cursor)
			if err != nil {
				yield(nil, fmt.Errorf("fetch page %d: %w", pageNum, err))
				return
			}
			monitor.PageFetchDuration.Observe(time.Since(start).Seconds())
			monitor.PagesFetched.Inc()
			monitor.RecordsFetched.Add(float64(len(page.Items)))

			for i := range page.Items {
				if !yield(&page.Items[i], nil) {
					return
				}
			}

			if !page.HasNextPage {
				return
			}

			next := page.NextPageToken.String()
			if _, ok := seen[next]; ok {
				yield(nil, fmt.Errorf("%w: %q after page %d", ErrCursorLoop, next, pageNum))
				return
			}
			seen[next] = struct{}{}
			cursor = next
		}
	}
}

// All 拉取全部记录，任意一页失败则不返回任何结果
func (p *Paginator) All(ctx context.Context, trader string) ([]*model.RawRecord, error) {
	var records []*model.RawRecord
	for rec, err := range p.Records(ctx, trader) {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	p.tl.Info("Fetched trade history", zap.String("trader", trader), zap.Int("records", len(records)))
	return records, nil
}
