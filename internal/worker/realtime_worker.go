package worker

import (
	"context"

	"github.com/spec-kit/news-portal/internal/events"
	"github.com/spec-kit/news-portal/internal/realtime"
)

// StartRealtimeWorker bridges domain events to the websocket hub. A nil hub
// still subscribes: the hub's methods no-op, keeping the write path safe
// whether or not the realtime layer came up.
func StartRealtimeWorker(dispatcher events.Dispatcher, hub *realtime.Hub) {
	if dispatcher == nil {
		return
	}

	dispatcher.Subscribe(events.EventCommentCreated, func(_ context.Context, event events.Event) error {
		summary, ok := event.Payload.(events.CommentCreatedPayload)
		if !ok {
			return nil
		}
		hub.BroadcastNewComment(event.ArticleID, summary)
		return nil
	})
}
