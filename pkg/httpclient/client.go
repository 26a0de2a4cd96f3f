package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"resty.dev/v3"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPClientConfig 配置参数
type HTTPClientConfig struct {
	Timeout    time.Duration // 请求超时时间
	RateLimit  int           // 每分钟请求次数，0 表示不限速
	MaxRetries int           // 最大重试次数，默认不重试
	UserAgent  string        // 可选 User-Agent
}

// ErrDecodeBody 2xx 响应体不是合法 JSON
var ErrDecodeBody = errors.New("decode response body")

// HTTPClient 是一个通用的 HTTP 客户端
type HTTPClient struct {
	client *resty.Client
	logger *zap.Logger
}

// NewHTTPClient 创建一个新的 HTTP 客户端
func NewHTTPClient(cfg HTTPClientConfig, logger *zap.Logger) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60), 1)
	}

	// 创建 Resty 客户端
	restyClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
			if limiter != nil {
				// 为限流器等待创建带超时的上下文
				limiterCtx, cancel := context.WithTimeout(r.Context(), cfg.Timeout)
				defer cancel()

				if err := limiter.Wait(limiterCtx); err != nil {
					logger.Warn("Rate limiter wait failed", zap.Error(err))
					return err
				}
			}
			if cfg.UserAgent != "" {
				r.SetHeader("User-Agent", cfg.UserAgent)
			}
			logger.Debug("Outgoing request", zap.String("url", r.URL))
			return nil
		}).
		AddResponseMiddleware(func(c *resty.Client, resp *resty.Response) error {
			if resp.StatusCode() >= 400 {
				logger.Warn("HTTP request failed",
					zap.Int("status", resp.StatusCode()),
					zap.String("url", resp.Request.URL),
				)
			}
			return nil
		})

	return &HTTPClient{
		client: restyClient,
		logger: logger,
	}
}

// Get 发起 GET 请求，成功时把 JSON 响应解码到 out。
// 不看 Content-Type，响应体不是 JSON 时返回 ErrDecodeBody。
func (c *HTTPClient) Get(ctx context.Context, url string, queryParams map[string]string, headers map[string]string, out interface{}) error {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(queryParams)

	// 添加自定义 headers
	if headers != nil {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(url)

	if err != nil {
		c.logger.Error("HTTP GET request failed", zap.String("url", url), zap.Error(err))
		return err
	}

	if resp.StatusCode() >= 300 {
		return &HTTPError{Code: resp.StatusCode(), Message: resp.String()}
	}

	if out == nil {
		return nil
	}
	body := bytes.TrimSpace(resp.Bytes())
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body, url: %s", ErrDecodeBody, url)
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: url: %s, content-type: %q, error: %v", ErrDecodeBody, url, resp.Header().Get("Content-Type"), err)
	}
	return nil
}

// Close 释放底层连接
func (c *HTTPClient) Close() error {
	return c.client.Close()
}

// HTTPError 自定义错误结构体
type HTTPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.Code, e.Message)
}
