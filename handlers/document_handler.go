package handlers

import (
	"net/http"

	"contractsense-backend/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DocumentHandler handles HTTP requests for source document management
type DocumentHandler struct {
	storage storage.Storage
	logger  *zap.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(store storage.Storage, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		storage: store,
		logger:  logger,
	}
}

// UploadDocument handles POST /documents/upload. It accepts a multipart
// upload with a "file" part and an optional "doc_type" field (policy or
// contract, default contract) and stores the document for the next ingestion
// run. Upload does not ingest: the batch ingest binary picks the file up.
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "multipart field 'file' is required",
			},
		})
		return
	}

	docType := c.PostForm("doc_type")
	if docType == "" {
		docType = "contract"
	}
	if docType != "policy" && docType != "contract" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_DOC_TYPE",
				"message": "doc_type must be 'policy' or 'contract'",
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	key := storage.DocumentKey(docType, fileHeader.Filename)
	if err := h.storage.Upload(c.Request.Context(), key, file); err != nil {
		h.logger.Error("document upload failed", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	h.logger.Info("document uploaded", zap.String("key", key))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"key":     key,
	})
}
