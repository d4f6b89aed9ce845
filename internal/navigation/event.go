// Package navigation delivers tab navigation events to the evaluator.
package navigation

import "context"

// MainFrameID identifies the top-level frame of a tab.
const MainFrameID = 0

// Navigation statuses.
const (
	StatusLoading  = "loading"
	StatusComplete = "complete"
)

// Event is a single tab navigation update.
type Event struct {
	TabID   int    `json:"tabId,omitempty" doc:"Tab the navigation happened in; informational only"`
	FrameID int    `json:"frameId,omitempty" doc:"Frame identifier; 0 or absent is the main frame"`
	Status  string `json:"status,omitempty" enum:"loading,complete" doc:"Navigation status; absent for title or favicon updates"`
	URL     string `json:"url,omitempty" doc:"URL the frame navigated to"`
}

// Qualifies reports whether the event is a completed main-frame navigation with a URL.
func (e Event) Qualifies() bool {
	return e.Status == StatusComplete && e.URL != "" && e.FrameID == MainFrameID
}

// Handler consumes navigation events.
type Handler interface {
	HandleEvent(ctx context.Context, event Event)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, event Event)

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event Event) {
	f(ctx, event)
}

// Source produces events until ctx is cancelled.
type Source interface {
	Run(ctx context.Context, handler Handler) error
}
