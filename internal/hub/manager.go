package hub

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/event"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/metrics"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/repo"
	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/service"
)

type inboundMessage struct {
	event  event.WsEvent
	client *Client
}

// Hub owns the live connections and the presence registry, dispatches
// inbound real-time signals to the message lifecycle engine, and fans
// lifecycle events back out to the right connection.
type Hub struct {
	registry *Registry

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundMessage

	engine service.MessageService
	users  repo.UserRepository
	pusher OfflinePusher
	logger *zap.Logger

	allowedOrigins map[string]bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(users repo.UserRepository, pusher OfflinePusher, logger *zap.Logger, allowedOrigins []string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		registry:       NewRegistry(),
		register:       make(chan *Client, 1024),
		unregister:     make(chan *Client, 1024),
		inbound:        make(chan inboundMessage, 4096), // buffer for burst handling
		users:          users,
		pusher:         pusher,
		logger:         logger,
		allowedOrigins: make(map[string]bool, len(allowedOrigins)),
		ctx:            ctx,
		cancel:         cancel,
	}
	for _, origin := range allowedOrigins {
		h.allowedOrigins[origin] = true
	}

	// run manager loop
	go h.run()

	// start worker loop
	for i := 0; i < workerPoolSize; i++ {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			for {
				select {
				case <-h.ctx.Done():
					return
				case in, ok := <-h.inbound:
					if !ok {
						return
					}

					h.handleEvent(in.event, in.client)
				}
			}
		}()
	}

	return h
}

// AttachEngine wires the lifecycle engine after construction; the engine
// itself needs the hub as its notifier, so the two are tied together in
// the container.
func (h *Hub) AttachEngine(engine service.MessageService) {
	h.engine = engine
}

// Registry exposes the presence table (monitoring, tests).
func (h *Hub) Registry() *Registry {
	return h.registry
}

func (h *Hub) run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case c := <-h.register:
			metrics.OnlineConns.Inc()
			h.logger.Debug("connection opened", zap.String("client_id", c.ID))
		case c := <-h.unregister:
			h.removeClient(c)
		}
	}
}

func (h *Hub) setOnline(userID int64, c *Client) {
	if userID == 0 {
		return
	}

	// Last-connect-wins: a reconnect replaces the previous mapping. The
	// stale handle is left to run out its read loop; it is simply no
	// longer reachable through the registry.
	prev := h.registry.SetOnline(userID, c)
	if prev != nil {
		h.logger.Info("user reconnected, replacing presence entry",
			zap.Int64("user_id", userID),
			zap.String("old_client", prev.ID),
			zap.String("new_client", c.ID),
		)
	} else {
		h.logger.Info("user online", zap.Int64("user_id", userID), zap.String("client_id", c.ID))
	}
	metrics.OnlineUsers.Set(float64(h.registry.Len()))

	h.broadcastOnlineUsers()
}

func (h *Hub) removeClient(c *Client) {
	metrics.OnlineConns.Dec()

	userID, removed := h.registry.RemoveByClient(c)
	c.Close()

	if removed {
		h.logger.Info("user offline", zap.Int64("user_id", userID), zap.String("client_id", c.ID))
		metrics.OnlineUsers.Set(float64(h.registry.Len()))
		h.broadcastOnlineUsers()
	}
}

func (h *Hub) Stop() {
	h.cancel()

	for _, client := range h.registry.Entries() {
		client.Close()
	}

	close(h.inbound)
	h.wg.Wait()
}

var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return h.allowedOrigins[origin]
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocketUpgrader
	upgrader.CheckOrigin = h.checkOrigin

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	RegisterClient(conn, h)
}
