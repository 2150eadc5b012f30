package soundcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"soundcatalog/logger"
	"soundcatalog/model"
)

// StatusError 接口返回了非 2xx 状态码
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API返回错误状态码: %d %s", e.StatusCode, e.Body)
}

func (c *Client) tracksURL(query string) string {
	params := url.Values{}
	params.Set("client_id", c.ClientID)
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(c.Limit))
	return fmt.Sprintf("%s/tracks.json?%s", strings.TrimRight(c.BaseURL, "/"), params.Encode())
}

// Fetch 按关键词获取曲目列表
func (c *Client) Fetch(ctx context.Context, query string) ([]model.RawRecord, error) {
	logger.Info("[SoundCloud] 开始获取曲目", logger.String("query", query), logger.Int("limit", c.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tracksURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Warn("[SoundCloud] 请求失败", logger.String("query", query), logger.ErrorField(err))
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Warn("[SoundCloud] 服务器返回错误状态码",
			logger.String("query", query),
			logger.Int("status", resp.StatusCode))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var records []model.RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		logger.Warn("[SoundCloud] 解析响应失败", logger.String("query", query), logger.ErrorField(err))
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}

	logger.Info("[SoundCloud] 获取完成", logger.String("query", query), logger.Int("count", len(records)))
	return records, nil
}
