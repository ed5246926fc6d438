package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/USA-RedDragon/routesync-server/internal/metrics"
	"github.com/USA-RedDragon/routesync-server/internal/server/apimodels"
	"github.com/USA-RedDragon/routesync-server/internal/websocket"
	gorillaWebsocket "github.com/gorilla/websocket"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/redis/go-redis/v9"
)

const lastRouteKey = "routesync:last_route"

// RouteWebsocket fans the latest route snapshot out to every connected
// client. Delivery is best-effort and at-most-once per participant; there is
// no acknowledgment and no backlog. A client that connects while a cached
// last value exists receives exactly that one value.
type RouteWebsocket struct {
	participants *xsync.MapOf[string, websocket.Writer]
	// publishMutex orders broadcasts and keeps the last-value replay on
	// connect atomic with respect to concurrent publishes
	publishMutex sync.Mutex
	lastRoute    *apimodels.RouteSnapshot
	redis        *redis.Client
	metrics      *metrics.Metrics
}

func CreateRouteWebsocket(redisClient *redis.Client, metrics *metrics.Metrics) *RouteWebsocket {
	return &RouteWebsocket{
		participants: xsync.NewMapOf[string, websocket.Writer](),
		redis:        redisClient,
		metrics:      metrics,
	}
}

func (h *RouteWebsocket) OnMessage(ctx context.Context, _ *http.Request, _ websocket.Writer, msg []byte, _ int, participantID string) {
	var event apimodels.RouteEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		// Malformed payloads are dropped without a reply
		slog.Warn("Error unmarshalling route event", "participant", participantID, "error", err)
		return
	}
	if event.Event != apimodels.EventUpdateLocations {
		slog.Warn("Unknown websocket event", "participant", participantID, "event", event.Event)
		return
	}
	h.Publish(ctx, event.Data)
}

func (h *RouteWebsocket) OnConnect(ctx context.Context, _ *http.Request, w websocket.Writer, participantID string) {
	slog.Info("New websocket connection", "participant", participantID)

	h.publishMutex.Lock()
	defer h.publishMutex.Unlock()

	if last := h.loadLastRoute(ctx); last != nil {
		if payload, err := json.Marshal(apimodels.RouteEvent{
			Event: apimodels.EventLocationsUpdated,
			Data:  *last,
		}); err == nil {
			w.WriteMessage(websocket.Message{
				Type: gorillaWebsocket.TextMessage,
				Data: payload,
			})
		}
	}

	h.participants.Store(participantID, w)
	if h.metrics != nil {
		h.metrics.IncrementWebsocketConnections()
	}
}

func (h *RouteWebsocket) OnDisconnect(_ context.Context, _ *http.Request, participantID string) {
	slog.Info("Websocket disconnected", "participant", participantID)
	if _, loaded := h.participants.LoadAndDelete(participantID); loaded && h.metrics != nil {
		h.metrics.DecrementWebsocketConnections()
	}
}

// Publish broadcasts a snapshot to every connected participant, including the
// publisher, in publish order. A publish with no participants only refreshes
// the last-value cache.
func (h *RouteWebsocket) Publish(ctx context.Context, snapshot apimodels.RouteSnapshot) {
	h.publishMutex.Lock()
	defer h.publishMutex.Unlock()

	h.lastRoute = &snapshot
	if h.redis != nil {
		data, err := json.Marshal(snapshot)
		if err == nil {
			err = h.redis.Set(ctx, lastRouteKey, data, 0).Err()
		}
		if err != nil {
			slog.Warn("Failed to cache last route in Redis", "error", err)
		}
	}

	payload, err := json.Marshal(apimodels.RouteEvent{
		Event: apimodels.EventLocationsUpdated,
		Data:  snapshot,
	})
	if err != nil {
		slog.Warn("Error marshalling route snapshot", "error", err)
		return
	}

	h.participants.Range(func(_ string, w websocket.Writer) bool {
		w.WriteMessage(websocket.Message{
			Type: gorillaWebsocket.TextMessage,
			Data: payload,
		})
		return true
	})
	if h.metrics != nil {
		h.metrics.IncrementRouteBroadcasts()
	}
}

// loadLastRoute falls back to Redis so the cache survives a restart when
// Redis is configured. Callers must hold publishMutex.
func (h *RouteWebsocket) loadLastRoute(ctx context.Context) *apimodels.RouteSnapshot {
	if h.lastRoute != nil {
		return h.lastRoute
	}
	if h.redis == nil {
		return nil
	}
	data, err := h.redis.Get(ctx, lastRouteKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Failed to load last route from Redis", "error", err)
		}
		return nil
	}
	var snapshot apimodels.RouteSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		slog.Warn("Failed to decode last route from Redis", "error", err)
		return nil
	}
	h.lastRoute = &snapshot
	return h.lastRoute
}
