package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"strings"
	"time"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	"fridgewise/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // 支援 WebP
)

const jpegQuality = 85

// Service 圖片處理服務
type Service struct {
	maxSizeBytes int64
	httpClient   *resty.Client
}

// NewService 創建新的圖片處理服務
func NewService(maxSizeBytes int64) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
		httpClient:   resty.New().SetTimeout(30 * time.Second),
	}
}

// ProcessImage 驗證圖片並重新編碼為 JPEG data URL
func (s *Service) ProcessImage(ctx context.Context, imageData string) (string, error) {
	raw, err := s.load(ctx, imageData)
	if err != nil {
		return "", err
	}
	return s.ProcessBytes(raw)
}

// ProcessBytes 將原始圖片位元組重新編碼為 JPEG data URL
func (s *Service) ProcessBytes(raw []byte) (string, error) {
	img, format, err := s.decode(raw)
	if err != nil {
		return "", err
	}

	// 將圖片轉換為 JPEG 格式
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", common.Wrap(common.ErrInvalidImage, fmt.Errorf("failed to encode image as JPEG: %w", err))
	}

	common.LogImageProcessing("debug", "圖片已轉換",
		zap.String("format", format),
		zap.Int("original_bytes", len(raw)),
		zap.Int("jpeg_bytes", buf.Len()),
	)

	// 重新編碼為 base64
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// load 取得圖片原始位元組，支援 http(s) URL 與 data URL
func (s *Service) load(ctx context.Context, imageData string) ([]byte, error) {
	if strings.HasPrefix(imageData, "http://") || strings.HasPrefix(imageData, "https://") {
		return s.download(ctx, imageData)
	}

	// 處理 base64 格式
	if !strings.HasPrefix(imageData, "data:image/") {
		return nil, common.Wrap(common.ErrInvalidImage, fmt.Errorf("invalid image data format"))
	}

	parts := strings.SplitN(imageData, ",", 2)
	if len(parts) != 2 {
		return nil, common.Wrap(common.ErrInvalidImage, fmt.Errorf("invalid base64 data format"))
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, common.Wrap(common.ErrInvalidImage, fmt.Errorf("failed to decode base64 data: %w", err))
	}
	return decoded, nil
}

// download 下載遠端圖片，讀取量不超過 maxSizeBytes+1
func (s *Service) download(ctx context.Context, url string) ([]byte, error) {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, common.Wrap(common.ErrInvalidImage, fmt.Errorf("failed to download image: %w", err))
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return nil, common.Wrap(common.ErrInvalidImage, fmt.Errorf("failed to download image: status code %d", resp.StatusCode()))
	}
	if s.maxSizeBytes > 0 && resp.RawResponse.ContentLength > s.maxSizeBytes {
		return nil, s.tooLarge()
	}

	reader := io.Reader(body)
	if s.maxSizeBytes > 0 {
		reader = io.LimitReader(body, s.maxSizeBytes+1)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, common.Wrap(common.ErrInvalidImage, fmt.Errorf("failed to read image: %w", err))
	}
	if s.maxSizeBytes > 0 && int64(len(raw)) > s.maxSizeBytes {
		return nil, s.tooLarge()
	}
	return raw, nil
}

func (s *Service) tooLarge() error {
	return common.Wrap(common.ErrInvalidImage, fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes))
}

// decode 檢查大小與格式後解碼
func (s *Service) decode(raw []byte) (image.Image, string, error) {
	if s.maxSizeBytes > 0 && int64(len(raw)) > s.maxSizeBytes {
		return nil, "", s.tooLarge()
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", common.Wrap(common.ErrInvalidImage, fmt.Errorf("failed to decode image: %w", err))
	}

	if !isSupportedFormat(format) {
		return nil, "", common.Wrap(common.ErrInvalidImage, fmt.Errorf("unsupported image format: %s", format))
	}
	return img, format, nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"jpg":  true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}
