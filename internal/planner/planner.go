package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/frasnym/hackathon-universa-bali/pkg/models"
)

// ErrUnavailable indicates a transport or API failure while consulting
// the oracle. The engine retries these up to its bound.
var ErrUnavailable = errors.New("planner unavailable")

// ErrMalformedDecision indicates the model's reply could not be parsed
// into a Decision. Not retried: a structural mismatch is fatal.
var ErrMalformedDecision = errors.New("malformed planner decision")

// Planner is the decision oracle for the traversal engine. A planning
// call returns a structured decompose/solve decision; a solve call
// returns a plain solution string.
type Planner struct {
	client    *Client
	maxTokens int64
}

// New creates a Planner on top of the given API client.
func New(client *Client) *Planner {
	return &Planner{
		client:    client,
		maxTokens: 4096,
	}
}

// Decide asks the planner whether the task in the query should be
// decomposed or solved directly.
func (p *Planner) Decide(ctx context.Context, query string) (*models.Decision, error) {
	resp, err := p.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.client.Model(),
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: plannerPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(query)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	p.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	decision, err := ParseDecision(textContent(resp))
	if err != nil {
		return nil, err
	}
	return decision, nil
}

// Solve asks the solver for a final answer to the query. The query may
// carry a <context> block with the preceding task's result.
func (p *Planner) Solve(ctx context.Context, query string) (string, error) {
	resp, err := p.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.client.Model(),
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: solverPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(query)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	p.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	solution := strings.TrimSpace(textContent(resp))
	if solution == "" {
		return "", fmt.Errorf("solver returned an empty response")
	}
	return solution, nil
}
