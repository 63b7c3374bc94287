package ingredient

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fridgewise/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxLabels 單次請求可提交的標籤上限
const maxLabels = 200

// Service 食材解析服務
type Service interface {
	Analyze(ctx context.Context, tags []string) []common.ProcessedIngredient
	AnalyzeImage(ctx context.Context, imageData string) []common.ProcessedIngredient
	SearchIngredients(ctx context.Context, query string, limit int) []common.ProcessedIngredient
}

// ImageProcessor 驗證圖片並轉為 JPEG data URL
type ImageProcessor interface {
	ProcessImage(ctx context.Context, imageData string) (string, error)
}

// AnalyzeImageRequest 圖片分析請求
type AnalyzeImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// AnalyzeLabelsRequest 標籤分析請求
type AnalyzeLabelsRequest struct {
	Labels []string `json:"labels" binding:"required"`
}

// Handler 食材 API 處理器
type Handler struct {
	service Service
	images  ImageProcessor
}

// NewHandler 創建食材處理器
func NewHandler(service Service, images ImageProcessor) *Handler {
	return &Handler{service: service, images: images}
}

// HandleAnalyzeImage POST /api/v1/ingredients/analyze
func (h *Handler) HandleAnalyzeImage(c *gin.Context) {
	reqID := requestID(c)

	var req AnalyzeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid request format", zap.Error(err), zap.String("request_id", reqID))
		respondError(c, bindError(err))
		return
	}

	// 只下載與解碼一次，轉檔後的 data URL 直接交給辨識
	processed, err := h.images.ProcessImage(c.Request.Context(), req.Image)
	if err != nil {
		common.LogWarn("Invalid image",
			zap.Error(err),
			zap.String("request_id", reqID),
			zap.String("image_type", imageType(req.Image)),
			zap.Int("image_length", len(req.Image)),
		)
		if !errors.Is(err, common.ErrInvalidImage) {
			err = common.Wrap(common.ErrInvalidImage, err)
		}
		respondError(c, err)
		return
	}

	items := h.service.AnalyzeImage(c.Request.Context(), processed)
	c.JSON(http.StatusOK, common.NewIngredientListResponse(items))
}

// HandleAnalyzeLabels POST /api/v1/ingredients/labels
func (h *Handler) HandleAnalyzeLabels(c *gin.Context) {
	reqID := requestID(c)

	var req AnalyzeLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid request format", zap.Error(err), zap.String("request_id", reqID))
		respondError(c, bindError(err))
		return
	}
	if len(req.Labels) > maxLabels {
		respondError(c, common.Wrap(common.ErrInvalidRequest, common.NewValidationError("too many labels, max "+strconv.Itoa(maxLabels))))
		return
	}

	items := h.service.Analyze(c.Request.Context(), req.Labels)
	c.JSON(http.StatusOK, common.NewIngredientListResponse(items))
}

// HandleSearch GET /api/v1/ingredients/search?q=&limit=
func (h *Handler) HandleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, common.Wrap(common.ErrInvalidRequest, common.NewValidationError("query parameter q is required")))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, common.Wrap(common.ErrInvalidRequest, common.NewValidationError("limit must be a non-negative integer")))
			return
		}
		limit = n
	}

	items := h.service.SearchIngredients(c.Request.Context(), query, limit)
	c.JSON(http.StatusOK, common.NewIngredientListResponse(items))
}

// bindError 請求體超過 MaxBytesReader 上限時回傳 413，其餘為 400
func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return common.Wrap(common.ErrPayloadTooLarge, err)
	}
	return common.Wrap(common.ErrInvalidRequest, err)
}

func respondError(c *gin.Context, err error) {
	resp := common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: common.ErrInternalError.Message,
	}

	var ce *common.CustomError
	if errors.As(err, &ce) {
		resp.Code = ce.Code
		resp.Message = ce.Message
		if ce.Err != nil && gin.Mode() != gin.ReleaseMode {
			resp.Details = ce.Err.Error()
		}
	}

	c.AbortWithStatusJSON(common.StatusOf(err), resp)
}

func requestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	id := common.GenerateUUID()
	c.Header("X-Request-ID", id)
	return id
}

// imageType 圖片類型（用於日誌記錄）
func imageType(image string) string {
	switch {
	case image == "":
		return "empty"
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return "url"
	case strings.HasPrefix(image, "data:image/"):
		parts := strings.SplitN(image, ";base64,", 2)
		if len(parts) == 2 {
			return "base64_data_uri_" + strings.TrimPrefix(parts[0], "data:image/")
		}
		return "invalid_data_uri"
	default:
		return "unknown_format"
	}
}
