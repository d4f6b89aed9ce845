package api

import (
	"context"
	"net/http"

	"bookmarksync/internal/evaluator"
	"bookmarksync/internal/navigation"

	"github.com/danielgtaylor/huma/v2"
)

// EventEvaluator evaluates the rules for one navigation event.
type EventEvaluator interface {
	HandleEvent(ctx context.Context, event navigation.Event) []evaluator.Result
}

// NewNavigationHandlers registers the HTTP navigation source.
func NewNavigationHandlers(api huma.API, eval EventEvaluator) {
	huma.Register(api, huma.Operation{
		OperationID: "submit-navigation-event",
		Method:      http.MethodPost,
		Path:        "/api/v1/navigation/events",
		Summary:     "Submit a navigation event",
		Description: "Evaluates every rule against a completed main-frame navigation. Other events are ignored and yield no results.",
		Tags:        []string{"Navigation"},
	}, func(ctx context.Context, input *NavigationEventInput) (*NavigationEventOutput, error) {
		resp := &NavigationEventOutput{}
		resp.Body.Results = eval.HandleEvent(ctx, input.Body)
		if resp.Body.Results == nil {
			resp.Body.Results = []evaluator.Result{}
		}
		return resp, nil
	})
}

type NavigationEventInput struct {
	Body navigation.Event
}

type NavigationEventOutput struct {
	Body struct {
		Results []evaluator.Result `json:"results" doc:"One entry per rule; empty when the event did not qualify or rules could not be loaded"`
	}
}
