package gateway

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sharepool/sharepool/internal/sharing"
)

// Client forwards validated requests to the backend server and relays the
// backend's response verbatim.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Forward relays the caller's method and path to the backend. A nil query
// forwards the caller's raw query string unchanged; a non-nil query replaces
// it. The backend's status code and body are written back as-is.
func (cl *Client) Forward(c *gin.Context, query url.Values, body []byte) {
	target := cl.baseURL + c.Request.URL.Path
	if query != nil {
		if encoded := query.Encode(); encoded != "" {
			target += "?" + encoded
		}
	} else if raw := c.Request.URL.RawQuery; raw != "" {
		target += "?" + raw
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, bytes.NewReader(body))
	if err != nil {
		cl.logger.Error("Failed to build backend request", zap.String("target", target), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if identity := c.GetHeader(sharing.IdentityHeader); identity != "" {
		req.Header.Set(sharing.IdentityHeader, identity)
	}

	resp, err := cl.http.Do(req)
	if err != nil {
		cl.logger.Error("Backend request failed",
			zap.String("method", c.Request.Method),
			zap.String("target", target),
			zap.String("request_id", requestID),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		cl.logger.Error("Failed to read backend response", zap.String("request_id", requestID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, data)
}
