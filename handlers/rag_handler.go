package handlers

import (
	"net/http"

	"contractsense-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RAGHandler handles HTTP requests for compliance Q&A and contract analysis
type RAGHandler struct {
	ragService *service.RAGService
	analyzer   *service.ContractAnalyzer
	generator  service.Generator
	logger     *zap.Logger
}

// NewRAGHandler creates a new RAG handler
func NewRAGHandler(ragService *service.RAGService, analyzer *service.ContractAnalyzer, generator service.Generator, logger *zap.Logger) *RAGHandler {
	return &RAGHandler{
		ragService: ragService,
		analyzer:   analyzer,
		generator:  generator,
		logger:     logger,
	}
}

// QueryRequest represents the request body for a compliance question.
// CollectionName is accepted for API compatibility; a deployment serves a
// single collection.
type QueryRequest struct {
	Question       string `json:"question" binding:"required"`
	CollectionName string `json:"collection_name"`
}

// AnalyzeRequest represents the request body for contract analysis
type AnalyzeRequest struct {
	FileName string `json:"file_name" binding:"required"`
}

// Health handles GET /health
func (h *RAGHandler) Health(c *gin.Context) {
	status := "healthy"
	if h.generator == nil || !h.generator.Available() {
		status = "degraded (LLM not loaded)"
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// Query handles POST /query: retrieves relevant policy chunks and generates
// an answer with citations.
func (h *RAGHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.ragService.AnswerQuestion(c.Request.Context(), req.Question)
	if err != nil {
		h.logger.Error("query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QUERY_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// AnalyzeContract handles POST /contract/analyze: extracts structured data
// from an ingested contract. A degraded extraction (missing document, model
// not loaded, unparsable output) is still a 200 with an explanatory note;
// only a store failure is an error.
func (h *RAGHandler) AnalyzeContract(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), req.FileName)
	if err != nil {
		h.logger.Error("contract analysis failed", zap.String("file_name", req.FileName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYZE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
