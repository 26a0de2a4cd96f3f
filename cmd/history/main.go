package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wasabi-history/internal/history"
	"wasabi-history/internal/history/config"
	"wasabi-history/pkg/logger"

	"go.uber.org/zap"
)

// 导出 trader 的全部 wasabi 交易历史到 CSV
// usage: history [traderAddress]

func main() {
	startTime := time.Now()
	// 初始化配置文件
	cfg := config.InitConfig()

	// 初始化 trace provider
	tp := logger.InitTrace("wasabi", "history")
	defer tp.Shutdown(context.Background())

	// 创建 root logger 并注入 trace 上下文
	rootLogger := logger.NewLogger("history", cfg.Log.Dir)
	logger.SetLogLevel(cfg.Log.Level)
	defer rootLogger.Sync()

	trader := cfg.Trader.Address
	if len(os.Args) > 1 {
		trader = os.Args[1]
	}
	if trader == "" {
		rootLogger.Error("Trader address is required: history <traderAddress> or trader.address in config")
		os.Exit(2)
	}

	// SIGINT/SIGTERM 中断正在进行的请求
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	core, err := history.New(ctx, cfg, rootLogger)
	if err != nil {
		rootLogger.Error("Failed to init history core", zap.Error(err))
		os.Exit(1)
	}
	defer core.Close()

	res, err := core.Run(ctx, trader)
	if err != nil {
		rootLogger.Error("Export failed", zap.String("trader", trader), zap.Error(err))
		os.Exit(1)
	}
	rootLogger.Info("Task completed successfully",
		zap.String("trader", res.Trader),
		zap.Int("rows", res.Rows),
		zap.String("file", res.Path),
		zap.Duration("taken_time", time.Since(startTime)),
	)
}
