package vision

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fridgewise/internal/infrastructure/config"
	"fridgewise/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const recognitionPrompt = `List every food ingredient you can see in this image.
Reply with a JSON array of short English ingredient names only, lowercase, singular where natural,
for example ["tomato","red onion","cheddar cheese"]. Do not include containers, utensils or furniture.
If no food is visible reply with [].`

// Client OpenRouter 視覺模型辨識客戶端
type Client struct {
	client    *resty.Client
	model     string
	maxTokens int
}

type chatRequest struct {
	Model     string           `json:"model"`
	Messages  []common.Message `json:"messages"`
	MaxTokens int              `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient 創建辨識客戶端；圖片需先經 image.Service 驗證轉檔，此處只負責送出
func NewClient(cfg config.OpenRouterConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://fridgewise.app").
		SetHeader("X-Title", "Fridgewise")

	return &Client{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// Recognize 回傳圖片中的食材標籤
func (c *Client) Recognize(ctx context.Context, imageData string) ([]string, error) {
	start := time.Now()
	tags, err := c.recognize(ctx, imageData)
	common.LogRecognitionCall(len(tags), time.Since(start), err)
	return tags, err
}

func (c *Client) recognize(ctx context.Context, imageData string) ([]string, error) {
	url := imageData
	if !strings.HasPrefix(url, "data:image/") && !strings.HasPrefix(url, "http") {
		url = fmt.Sprintf("data:image/jpeg;base64,%s", imageData)
	}

	req := chatRequest{
		Model: c.model,
		Messages: []common.Message{
			{
				Role: "user",
				Content: []common.Content{
					{Type: "text", Text: recognitionPrompt},
					{Type: "image_url", ImageURL: &common.ImageURL{URL: url}},
				},
			},
		},
		MaxTokens: c.maxTokens,
	}

	var result chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return nil, common.Wrap(common.ErrRecognition, fmt.Errorf("failed to send request to OpenRouter: %w", err))
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, common.Wrap(common.ErrRecognition, fmt.Errorf("OpenRouter API returned %d: %s", resp.StatusCode(), resp.String()))
	}

	if len(result.Choices) == 0 {
		return nil, common.Wrap(common.ErrRecognition, fmt.Errorf("no choices in OpenRouter response"))
	}

	content := result.Choices[0].Message.Content
	tags, err := ParseTags(content)
	if err != nil {
		common.LogDebug("辨識回覆無法解析", zap.String("content", content))
		return nil, common.Wrap(common.ErrRecognition, err)
	}
	return tags, nil
}

// ParseTags 從模型回覆擷取標籤，接受 JSON 陣列或 {"tags": [...]}
func ParseTags(content string) ([]string, error) {
	if block, ok := common.ExtractJSONBlock(content, '[', ']'); ok {
		var tags []string
		if err := common.ParseJSON(block, &tags); err == nil {
			return cleanTags(tags), nil
		}
	}

	if block, ok := common.ExtractJSONBlock(content, '{', '}'); ok {
		var wrapped struct {
			Tags        []string `json:"tags"`
			Ingredients []string `json:"ingredients"`
		}
		if err := common.ParseJSON(common.QuoteJSONKeys(block), &wrapped); err == nil {
			return cleanTags(append(wrapped.Tags, wrapped.Ingredients...)), nil
		}
	}

	return nil, fmt.Errorf("no tag list found in model reply")
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
