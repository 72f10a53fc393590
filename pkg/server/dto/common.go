// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"errors"

	"github.com/soundprediction/ontograph/pkg/types"
)

// MaxMatchTextLength bounds the text accepted by the match endpoint.
const MaxMatchTextLength = 1 << 20

// ErrTextTooLong is returned when match text exceeds MaxMatchTextLength.
var ErrTextTooLong = errors.New("text exceeds maximum length")

// AddNodesRequest is the body of POST /api/v1/ingest/nodes.
type AddNodesRequest struct {
	Nodes []types.Node `json:"nodes" binding:"required"`
}

// AddEdgesRequest is the body of POST /api/v1/ingest/edges.
type AddEdgesRequest struct {
	Edges []types.Edge `json:"edges" binding:"required"`
}

// MatchRequest is the body of POST /api/v1/match.
type MatchRequest struct {
	Text string `json:"text" binding:"required"`
}

// Validate performs validation on MatchRequest.
func (r *MatchRequest) Validate() error {
	if len(r.Text) > MaxMatchTextLength {
		return ErrTextTooLong
	}
	return nil
}

// MatchResponse is the body returned by POST /api/v1/match.
type MatchResponse struct {
	Matches []types.ToolMatch `json:"matches"`
	Count   int               `json:"count"`
}

// ContraindicationsRequest is the body of POST /api/v1/contraindications.
type ContraindicationsRequest struct {
	DrugID       uint64   `json:"drug_id" binding:"required"`
	ConditionIDs []uint64 `json:"condition_ids" binding:"required"`
}

// NodeResponse describes one node with its hierarchy context.
type NodeResponse struct {
	Node        types.Node `json:"node"`
	Ancestors   []uint64   `json:"ancestors,omitempty"`
	Descendants []uint64   `json:"descendants,omitempty"`
}

// SimilarityResponse is the body returned by GET /api/v1/similarity.
type SimilarityResponse struct {
	A          uint64  `json:"a"`
	B          uint64  `json:"b"`
	Similarity float64 `json:"similarity"`
}

// Result represents a generic API result
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
