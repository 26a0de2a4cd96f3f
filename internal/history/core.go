package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wasabi-history/internal/history/config"
	"wasabi-history/internal/history/exporter"
	"wasabi-history/internal/history/monitor"
	"wasabi-history/internal/history/normalizer"
	"wasabi-history/internal/history/paginator"
	"wasabi-history/pkg/logger"
	"wasabi-history/pkg/utils"
	"wasabi-history/pkg/wasabi"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const tracerName = "history"

// Uploader 导出文件的二次投递
type Uploader interface {
	Upload(ctx context.Context, localPath string, rows int) (string, error)
}

// Result 一次导出的结果
type Result struct {
	Trader    string
	Rows      int
	Path      string // 未写文件时为空
	ObjectKey string // 未上传时为空
}

type Core struct {
	cfg        config.Config
	tl         *zap.Logger
	paginator  *paginator.Paginator
	normalizer *normalizer.Normalizer
	uploader   Uploader
	metrics    *monitor.TextfileWriter
	client     *wasabi.WasabiClient
}

// New 按配置组装 wasabi 网关、标准化器和导出目标
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Core, error) {
	client := wasabi.NewWasabiClient(cfg.Wasabi, logger)

	var uploader Uploader
	if cfg.Export.S3.Enabled {
		u, err := exporter.NewS3Uploader(ctx, cfg.Export.S3, logger)
		if err != nil {
			client.Close()
			return nil, err
		}
		uploader = u
	}

	core, err := NewWithFetcher(cfg, client, uploader, logger)
	if err != nil {
		client.Close()
		return nil, err
	}
	core.client = client
	return core, nil
}

// NewWithFetcher 使用自定义数据源，uploader 可为 nil
func NewWithFetcher(cfg config.Config, fetcher paginator.Fetcher, uploader Uploader, logger *zap.Logger) (*Core, error) {
	loc, err := cfg.Export.Location()
	if err != nil {
		return nil, err
	}
	return &Core{
		cfg:        cfg,
		tl:         logger,
		paginator:  paginator.New(fetcher, cfg.Wasabi.MaxPages, logger),
		normalizer: normalizer.New(loc),
		uploader:   uploader,
		metrics:    monitor.NewTextfileWriter(cfg.Monitor),
	}, nil
}

// Run 拉取、标准化并导出 trader 的全部交易历史。
// 任何阶段失败都直接返回错误，不产生部分结果。
func (c *Core) Run(ctx context.Context, trader string) (res Result, err error) {
	startTime := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "failed"
		}
		monitor.RunsTotal.WithLabelValues(status).Inc()
		monitor.LastRunTimestamp.SetToCurrentTime()
		if ferr := c.metrics.Flush(); ferr != nil {
			c.tl.Warn("Failed to write metrics textfile", zap.Error(ferr))
		}
	}()

	// 只校验地址格式，查询参数和文件名保持用户输入的大小写
	trader = strings.TrimSpace(trader)
	if _, err = utils.ChecksumAddress(trader); err != nil {
		return res, err
	}
	res.Trader = trader

	ctx, span := logger.StartSpan(ctx, tracerName, "export_trade_history")
	defer span.End()
	span.SetAttributes(attribute.String("trader", trader))
	tl := logger.WithTrace(ctx, c.tl).With(zap.String("trader", trader))

	// 1. 分页拉取
	fetchCtx, fetchSpan := logger.StartSpan(ctx, tracerName, "fetch")
	raws, err := c.paginator.All(fetchCtx, trader)
	fetchSpan.End()
	if err != nil {
		return res, fmt.Errorf("fetch trade history: %w", err)
	}

	// 2. 标准化
	_, normSpan := logger.StartSpan(ctx, tracerName, "normalize")
	records, err := c.normalizer.NormalizeAll(raws)
	normSpan.End()
	if err != nil {
		return res, err
	}
	monitor.RecordsNormalized.Add(float64(len(records)))

	if len(records) == 0 {
		tl.Info("No trades to save")
		return res, nil
	}

	// 3. 导出
	_, exportSpan := logger.StartSpan(ctx, tracerName, "export")
	dir := c.cfg.Export.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, utils.TradesFileName(trader))
	if err := os.MkdirAll(dir, 0755); err != nil {
		exportSpan.End()
		return res, fmt.Errorf("create export dir: %w", err)
	}
	rows, err := exporter.WriteCSV(path, records)
	exportSpan.End()
	if err != nil {
		return res, fmt.Errorf("export trades: %w", err)
	}
	res.Rows, res.Path = rows, path
	tl.Info("Saved trades", zap.Int("rows", rows), zap.String("file", path))

	if c.uploader != nil {
		key, err := c.uploader.Upload(ctx, path, rows)
		if err != nil {
			return Result{Trader: trader}, err
		}
		res.ObjectKey = key
	}

	tl.Info("Export completed", zap.Duration("taken_time", time.Since(startTime)))
	return res, nil
}

func (c *Core) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
