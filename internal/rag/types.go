package rag

import (
	"errors"

	"docchat/internal/indexer"
)

// ErrPipeline indicates a failure in one of the pipeline steps.
var ErrPipeline = errors.New("rag pipeline failed")

// Role identifies who produced a chat turn.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one turn of the running conversation.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Result is the outcome of a pipeline run: the generated answer and the
// chunks retrieved to ground it.
type Result struct {
	Answer    string
	Retrieved []indexer.ScoredChunk
}
