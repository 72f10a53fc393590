package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/ontograph"
	"github.com/soundprediction/ontograph/pkg/server/dto"
)

// IngestHandler handles graph population requests
type IngestHandler struct {
	engine ontograph.Engine
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(engine ontograph.Engine) *IngestHandler {
	return &IngestHandler{engine: engine}
}

// AddNodes handles POST /api/v1/ingest/nodes
func (h *IngestHandler) AddNodes(c *gin.Context) {
	var req dto.AddNodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	for _, node := range req.Nodes {
		if err := h.engine.AddNode(node); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "invalid_node",
				Message: err.Error(),
				Code:    http.StatusBadRequest,
			})
			return
		}
	}

	c.JSON(http.StatusOK, dto.Result{
		Success: true,
		Data:    gin.H{"added": len(req.Nodes)},
	})
}

// AddEdges handles POST /api/v1/ingest/edges
func (h *IngestHandler) AddEdges(c *gin.Context) {
	var req dto.AddEdgesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	for _, edge := range req.Edges {
		if err := h.engine.AddEdge(edge); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "invalid_edge",
				Message: err.Error(),
				Code:    http.StatusBadRequest,
			})
			return
		}
	}

	c.JSON(http.StatusOK, dto.Result{
		Success: true,
		Data:    gin.H{"added": len(req.Edges)},
	})
}

// BuildEmbeddings handles POST /api/v1/ingest/embeddings
func (h *IngestHandler) BuildEmbeddings(c *gin.Context) {
	h.engine.BuildEmbeddings()
	c.JSON(http.StatusOK, dto.Result{
		Success: true,
		Data:    h.engine.Stats(),
	})
}
