package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"art-fusion-server/modules/common/model"
	redisutil "art-fusion-server/modules/common/redis"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// 연결된 클라이언트 정보
type Client struct {
	conn *websocket.Conn
	id   string
	send chan []byte
}

// Session groups every client watching one job and owns the Redis subscription
// for that job's event channel.
type Session struct {
	jobID     string
	clients   map[string]*Client
	mutex     sync.RWMutex
	sub       *redis.PubSub
	createdAt time.Time
}

// StreamMetrics - 스트림 서버 메트릭
type StreamMetrics struct {
	TotalSessions    int       `json:"totalSessions"`
	ActiveSessions   int       `json:"activeSessions"`
	TotalConnections int       `json:"totalConnections"`
	StartTime        time.Time `json:"startTime"`
}

// Hub forwards job events from Redis pub/sub to websocket clients.
type Hub struct {
	rdb      *redis.Client
	store    *JobStore
	sessions map[string]*Session
	mutex    sync.Mutex
	metrics  StreamMetrics
}

func NewHub(rdb *redis.Client, store *JobStore) *Hub {
	return &Hub{
		rdb:      rdb,
		store:    store,
		sessions: make(map[string]*Session),
		metrics:  StreamMetrics{StartTime: time.Now()},
	}
}

// HandleStream - GET /ws/jobs/{jobId}
// 현재 상태를 먼저 보내고 terminal 상태까지 이벤트 전달
func (h *Hub) HandleStream(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]
	if _, err := h.store.Get(r.Context(), jobID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrJobNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, ErrorResponse{ErrorMessage: err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Msgf("⚠️  [Stream] WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		id:   uuid.NewString(),
		send: make(chan []byte, 16),
	}

	session, err := h.join(jobID, client)
	if err != nil {
		log.Error().Msgf("❌ [Stream] Subscribe failed for job %s: %v", jobID, err)
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h, session)

	// 구독 이후에 스냅샷을 읽어야 사이에 발행된 이벤트를 놓치지 않음
	job, err := h.store.Get(context.Background(), jobID)
	if err != nil {
		session.removeClient(client.id)
		return
	}
	snapshot, err := json.Marshal(eventFor(job, time.Now()))
	if err != nil {
		session.removeClient(client.id)
		return
	}
	session.sendTo(client.id, snapshot)
	if model.IsTerminal(job.JobStatus) {
		session.removeClient(client.id)
	}
}

// join - 세션 가져오기 또는 생성 (생성 시 Redis 구독 시작)
func (h *Hub) join(jobID string, client *Client) (*Session, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	session, exists := h.sessions[jobID]
	if !exists {
		sub := h.rdb.Subscribe(context.Background(), redisutil.JobEventsChannel(jobID))
		// 구독 확인 대기
		if _, err := sub.Receive(context.Background()); err != nil {
			sub.Close()
			return nil, err
		}
		session = &Session{
			jobID:     jobID,
			clients:   make(map[string]*Client),
			sub:       sub,
			createdAt: time.Now(),
		}
		h.sessions[jobID] = session
		h.metrics.TotalSessions++
		h.metrics.ActiveSessions++
		go h.relay(session)
		log.Info().Msgf("✅ [Stream] Created session for job %s (Active: %d)", jobID, h.metrics.ActiveSessions)
	}

	session.mutex.Lock()
	session.clients[client.id] = client
	clientCount := len(session.clients)
	session.mutex.Unlock()
	h.metrics.TotalConnections++

	log.Debug().Msgf("👤 [Stream] Client %s watching job %s (Clients: %d)", client.id, jobID, clientCount)
	return session, nil
}

// leave drops the session once its last client is gone.
func (h *Hub) leave(session *Session, clientID string) {
	session.removeClient(clientID)

	h.mutex.Lock()
	defer h.mutex.Unlock()

	session.mutex.RLock()
	empty := len(session.clients) == 0
	session.mutex.RUnlock()

	if empty && h.sessions[session.jobID] == session {
		delete(h.sessions, session.jobID)
		h.metrics.ActiveSessions--
		session.sub.Close()
		log.Debug().Msgf("🧹 [Stream] Closed session for job %s", session.jobID)
	}
}

// relay forwards published events until a terminal status or until the
// subscription is closed.
func (h *Hub) relay(session *Session) {
	for msg := range session.sub.Channel() {
		var ev model.JobEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Warn().Msgf("⚠️  [Stream] Dropping malformed event on %s: %v", msg.Channel, err)
			continue
		}
		session.broadcastToAll([]byte(msg.Payload))

		if model.IsTerminal(ev.JobStatus) {
			log.Info().Msgf("🏁 [Stream] Job %s reached %s, closing watchers", session.jobID, ev.JobStatus)
			session.closeAll()
			break
		}
	}

	h.mutex.Lock()
	if h.sessions[session.jobID] == session {
		delete(h.sessions, session.jobID)
		h.metrics.ActiveSessions--
		session.sub.Close()
	}
	h.mutex.Unlock()
}

// Metrics - 현재 메트릭 스냅샷
func (h *Hub) Metrics() StreamMetrics {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.metrics
}

// HandleMetrics - GET /metrics
func (h *Hub) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := h.Metrics()
	queueLen, err := h.rdb.LLen(r.Context(), redisutil.JobQueueKey).Result()
	if err != nil {
		queueLen = -1
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"server": map[string]interface{}{
			"uptime":           time.Since(metrics.StartTime).String(),
			"startTime":        metrics.StartTime,
			"totalSessions":    metrics.TotalSessions,
			"activeSessions":   metrics.ActiveSessions,
			"totalConnections": metrics.TotalConnections,
		},
		"queue": map[string]interface{}{
			"name":   redisutil.JobQueueKey,
			"length": queueLen,
		},
	})
}

func (s *Session) sendTo(clientID string, message []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if client, ok := s.clients[clientID]; ok {
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(s.clients, clientID)
		}
	}
}

// 모든 클라이언트에게 메시지 브로드캐스트
func (s *Session) broadcastToAll(message []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for id, client := range s.clients {
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(s.clients, id)
		}
	}
}

// 클라이언트를 세션에서 제거
func (s *Session) removeClient(clientID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if client, exists := s.clients[clientID]; exists {
		close(client.send)
		delete(s.clients, clientID)
	}
}

func (s *Session) closeAll() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for id, client := range s.clients {
		close(client.send)
		delete(s.clients, id)
	}
}

// readPump only drains control frames; job streams are server to client.
func (c *Client) readPump(h *Hub, session *Session) {
	defer func() {
		h.leave(session, c.id)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Msgf("⚠️  [Stream] WebSocket error: %v", err)
			}
			return
		}
	}
}

// 클라이언트로 메시지 쓰기
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Warn().Msgf("⚠️  [Stream] WebSocket write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "job finished"))
}
