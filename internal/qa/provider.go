package qa

import (
	"context"
	"errors"
)

// Turn is one prior message in a conversation, oldest first.
type Turn struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// Request asks the question-answering backend for an answer grounded in
// one workspace's knowledge.
type Request struct {
	WorkspaceRef string `json:"workspace"`
	Question     string `json:"question"`
	History      []Turn `json:"history,omitempty"`
}

type Response struct {
	Answer string `json:"answer"`
}

// ErrUnavailable covers every failure of the backend: network errors,
// timeouts and non-2xx replies. Callers surface it as an upstream failure
// and never retry.
var ErrUnavailable = errors.New("qa: backend unavailable")

// Provider answers questions against a workspace's knowledge base.
type Provider interface {
	Answer(ctx context.Context, req Request) (Response, error)
}
