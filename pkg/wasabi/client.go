package wasabi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wasabi-history/internal/history/config"
	"wasabi-history/internal/history/model"
	"wasabi-history/pkg/httpclient"

	"go.uber.org/zap"
)

type WasabiClient struct {
	baseURL    string
	env        string
	httpClient *httpclient.HTTPClient
	logger     *zap.Logger
}

func NewWasabiClient(cfg config.WasabiConfig, logger *zap.Logger) *WasabiClient {
	// 创建HTTP客户端配置，失败直接上抛，不做重试
	httpCfg := httpclient.HTTPClientConfig{
		Timeout:   time.Duration(cfg.Timeout) * time.Second,
		RateLimit: cfg.RateLimit,
		UserAgent: cfg.UserAgent,
	}

	return &WasabiClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		env:        cfg.Env,
		httpClient: httpclient.NewHTTPClient(httpCfg, logger),
		logger:     logger,
	}
}

// FetchPage 拉取一页交易历史
func (w *WasabiClient) FetchPage(ctx context.Context, trader, cursor string) (*model.Page, error) {
	url := fmt.Sprintf("%s/tradeHistory", w.baseURL)
	params := map[string]string{
		"env":           w.env,
		"nextPageToken": cursor,
		"traderAddress": trader,
	}

	var page model.Page
	if err := w.httpClient.Get(ctx, url, params, nil, &page); err != nil {
		return nil, fmt.Errorf("fetch trade history failed, trader: %s, cursor: %s, error: %w", trader, cursor, err)
	}
	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("fetch trade history failed, trader: %s, cursor: %s, error: %w", trader, cursor, err)
	}
	return &page, nil
}

func (w *WasabiClient) Close() error {
	return w.httpClient.Close()
}
