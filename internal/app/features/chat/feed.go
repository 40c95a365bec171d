// internal/app/features/chat/feed.go
package chat

import (
	"context"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	chatstore "github.com/dalemusser/collabhub/internal/app/store/chat"
)

// feedWatcher is a per-group change stream pump. One watcher exists
// per group room with at least one open socket; it re-fetches each
// inserted message in joined form and broadcasts it to the room.
type feedWatcher struct {
	cancel context.CancelFunc
}

// ensureWatcher opens the group's change stream if no watcher is
// running yet. A failure to open the stream (standalone Mongo has no
// change streams) is logged and the feed degrades to history-only.
func (h *Handler) ensureWatcher(groupID primitive.ObjectID) {
	roomID := groupID.Hex()

	h.watchersMu.Lock()
	defer h.watchersMu.Unlock()

	if _, ok := h.watchers[roomID]; ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := h.Messages.Watch(ctx, groupID)
	if err != nil {
		cancel()
		h.Log.Warn("chat: change stream unavailable, feed is history-only",
			zap.String("group_id", roomID), zap.Error(err))
		return
	}

	w := &feedWatcher{cancel: cancel}
	h.watchers[roomID] = w
	go h.pumpFeed(ctx, roomID, w, stream)
}

// releaseWatcher cancels the group's watcher once its room is empty.
// The room-size check and the teardown happen under watchersMu so a
// join racing the last departure either sees the live watcher or gets
// a fresh one from ensureWatcher; a populated room is never left
// without a pump.
func (h *Handler) releaseWatcher(groupID primitive.ObjectID) {
	roomID := groupID.Hex()

	h.watchersMu.Lock()
	defer h.watchersMu.Unlock()

	if h.Hub.RoomSize(roomID) > 0 {
		return
	}
	if w, ok := h.watchers[roomID]; ok {
		w.cancel()
		delete(h.watchers, roomID)
	}
}

// removeWatcher drops the room's map entry only if it still belongs to
// w. A pump that was cancelled and replaced must not delete its
// successor's entry on the way out.
func (h *Handler) removeWatcher(roomID string, w *feedWatcher) {
	h.watchersMu.Lock()
	if h.watchers[roomID] == w {
		delete(h.watchers, roomID)
	}
	h.watchersMu.Unlock()
}

// pumpFeed drains the change stream until it errors or is cancelled,
// broadcasting each inserted message to the room in commit order.
func (h *Handler) pumpFeed(ctx context.Context, roomID string, w *feedWatcher, stream *mongo.ChangeStream) {
	defer func() {
		_ = stream.Close(context.Background())
		h.removeWatcher(roomID, w)
	}()

	for stream.Next(ctx) {
		var ev chatstore.InsertEvent
		if err := stream.Decode(&ev); err != nil {
			h.Log.Warn("chat: feed decode failed", zap.String("group_id", roomID), zap.Error(err))
			continue
		}

		record, err := h.Messages.GetMessage(ctx, ev.FullDocument.ID)
		if err != nil {
			h.Log.Warn("chat: feed fetch failed",
				zap.String("group_id", roomID),
				zap.String("message_id", ev.FullDocument.ID.Hex()),
				zap.Error(err))
			continue
		}

		payload, err := json.Marshal(record)
		if err != nil {
			h.Log.Warn("chat: feed marshal failed", zap.Error(err))
			continue
		}

		h.Hub.Broadcast(roomID, record.ID.Hex(), payload)
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		h.Log.Warn("chat: feed stream ended", zap.String("group_id", roomID), zap.Error(err))
	}
}
