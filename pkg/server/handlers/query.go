package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/ontograph"
	"github.com/soundprediction/ontograph/pkg/server/dto"
	"github.com/soundprediction/ontograph/pkg/types"
)

// QueryHandler handles graph and matcher query requests
type QueryHandler struct {
	engine ontograph.Engine
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(engine ontograph.Engine) *QueryHandler {
	return &QueryHandler{engine: engine}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "invalid_request",
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

func nodeID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "node id must be an unsigned integer")
		return 0, false
	}
	return id, true
}

// GetNode handles GET /api/v1/nodes/:id
func (h *QueryHandler) GetNode(c *gin.Context) {
	id, ok := nodeID(c)
	if !ok {
		return
	}

	term, ok := h.engine.Term(id)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: "node not found",
			Code:    http.StatusNotFound,
		})
		return
	}
	nodeType, _ := h.engine.NodeType(id)

	c.JSON(http.StatusOK, dto.NodeResponse{
		Node:        types.Node{ID: id, Term: term, Type: nodeType},
		Ancestors:   h.engine.Ancestors(id),
		Descendants: h.engine.Descendants(id),
	})
}

// GetTreatments handles GET /api/v1/nodes/:id/treatments
func (h *QueryHandler) GetTreatments(c *gin.Context) {
	id, ok := nodeID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.Result{
		Success: true,
		Data:    gin.H{"treatments": h.engine.TreatmentsOf(id)},
	})
}

// GetSimilar handles GET /api/v1/nodes/:id/similar?k=10&type=drug
func (h *QueryHandler) GetSimilar(c *gin.Context) {
	id, ok := nodeID(c)
	if !ok {
		return
	}

	k := 10
	if raw := c.Query("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "k must be an integer")
			return
		}
		k = parsed
	}

	var neighbors []types.ScoredNode
	var err error
	if typeFilter := c.Query("type"); typeFilter != "" {
		neighbors, err = h.engine.NearestNeighborsByType(id, types.SemanticType(typeFilter), k)
	} else {
		neighbors, err = h.engine.NearestNeighbors(id, k)
	}
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, types.ErrInvalidLimit):
			status = http.StatusBadRequest
		case errors.Is(err, ontograph.ErrNodeNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ontograph.ErrEmbeddingsNotBuilt):
			status = http.StatusConflict
		}
		c.JSON(status, dto.ErrorResponse{
			Error:   "similarity_unavailable",
			Message: err.Error(),
			Code:    status,
		})
		return
	}

	c.JSON(http.StatusOK, dto.Result{
		Success: true,
		Data:    gin.H{"neighbors": neighbors},
	})
}

// GetSimilarity handles GET /api/v1/similarity?a=100&b=101
func (h *QueryHandler) GetSimilarity(c *gin.Context) {
	a, errA := strconv.ParseUint(c.Query("a"), 10, 64)
	b, errB := strconv.ParseUint(c.Query("b"), 10, 64)
	if errA != nil || errB != nil {
		badRequest(c, "a and b must be unsigned integer node ids")
		return
	}

	score, ok := h.engine.Similarity(a, b)
	if !ok {
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "similarity_unavailable",
			Message: "embedding index not built or node unknown",
			Code:    http.StatusConflict,
		})
		return
	}

	c.JSON(http.StatusOK, dto.SimilarityResponse{A: a, B: b, Similarity: score})
}

// Contraindications handles POST /api/v1/contraindications
func (h *QueryHandler) Contraindications(c *gin.Context) {
	var req dto.ContraindicationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	found := h.engine.Contraindications(req.DrugID, req.ConditionIDs)
	c.JSON(http.StatusOK, dto.Result{
		Success: true,
		Data:    gin.H{"contraindications": found},
	})
}

// Match handles POST /api/v1/match
func (h *QueryHandler) Match(c *gin.Context) {
	var req dto.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(c, "text field is required and cannot be empty")
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	matches, err := h.engine.FindMatches(req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "match_failed",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, dto.MatchResponse{Matches: matches, Count: len(matches)})
}

// Stats handles GET /api/v1/stats
func (h *QueryHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Stats())
}
