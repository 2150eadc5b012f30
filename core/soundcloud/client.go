package soundcloud

import (
	"net/http"
	"time"
)

// DefaultLimit 每次请求的曲目数量上限
const DefaultLimit = 195

// Client 远程曲目目录（tracks.json）客户端，实现 catalog.Loader
type Client struct {
	BaseURL    string
	ClientID   string
	Limit      int
	HTTPClient *http.Client
}

// NewClient 创建新的API客户端
func NewClient(baseURL, clientID string) *Client {
	return &Client{
		BaseURL:  baseURL,
		ClientID: clientID,
		Limit:    DefaultLimit,
		HTTPClient: &http.Client{
			Timeout: time.Second * 30,
		},
	}
}

// SetLimit 设置单次返回数量，非正数时使用默认值
func (c *Client) SetLimit(limit int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	c.Limit = limit
}

// SetTimeout 设置请求超时时间
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}
