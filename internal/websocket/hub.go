// Package websocket - real-time рассылка результатов сканера.
package websocket

import (
	"bytes"
	"context"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"arbscan/internal/models"
	"arbscan/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Пул JSON буферов: убирает аллокации при каждом Broadcast
var jsonBufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// Типизированные сообщения: без map[string]interface{} и рефлексии

// OpportunitiesMessage - результат прохода сканера
type OpportunitiesMessage struct {
	Type  string               `json:"type"`
	Count int                  `json:"count"`
	Data  []models.Opportunity `json:"data"`
}

// RiskUpdateMessage - свежие риск-метрики портфеля
type RiskUpdateMessage struct {
	Type string             `json:"type"`
	Data models.RiskMetrics `json:"data"`
}

// Hub управляет активными WebSocket соединениями.
//
// Центральная точка рассылки: сканер публикует результаты прохода,
// hub доставляет их всем подключённым клиентам. Клиент, не успевающий
// читать, отключается, чтобы не тормозить рассылку остальным.
//
// Типы сообщений:
// - opportunities: возможности последнего прохода
// - riskUpdate: риск-метрики портфеля
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *utils.Logger
}

// NewHub создаёт hub
func NewHub(logger *utils.Logger) *Hub {
	if logger == nil {
		logger = utils.L()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.WithComponent("websocket"),
	}
}

// Run крутит главный цикл hub до отмены контекста.
// Запускается в отдельной горутине: go hub.Run(ctx)
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("клиент подключён", utils.Int("total", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("клиент отключён", utils.Int("total", total))

		case message := <-h.broadcast:
			// Список клиентов копируется под коротким RLock,
			// отправка идёт без блокировки
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			var toRemove []*Client
			for _, client := range clients {
				select {
				case client.send <- message:
				default:
					// Буфер клиента забит: он не успевает читать
					toRemove = append(toRemove, client)
				}
			}

			if len(toRemove) > 0 {
				h.mu.Lock()
				for _, client := range toRemove {
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						close(client.send)
					}
				}
				total := len(h.clients)
				h.mu.Unlock()
				h.logger.Warn("медленные клиенты отключены",
					utils.Int("removed", len(toRemove)),
					utils.Int("total", total),
				)
			}
		}
	}
}

// closeAll закрывает все клиентские каналы при остановке
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// Broadcast сериализует сообщение и рассылает его всем клиентам
func (h *Hub) Broadcast(message interface{}) {
	buf := jsonBufferPool.Get().(*bytes.Buffer)
	buf.Reset()

	if err := json.NewEncoder(buf).Encode(message); err != nil {
		h.logger.Error("не удалось сериализовать сообщение", utils.Err(err))
		jsonBufferPool.Put(buf)
		return
	}

	// Encode добавляет завершающий перевод строки
	data := buf.Bytes()
	if len(data) > 0 && data[len(data)-1] == '\n' {
		data = data[:len(data)-1]
	}

	msgCopy := make([]byte, len(data))
	copy(msgCopy, data)
	jsonBufferPool.Put(buf)

	select {
	case h.broadcast <- msgCopy:
	default:
		// Hub не запущен или перегружен: сообщение не критично,
		// следующий проход сканера пришлёт свежие данные
		h.logger.Warn("очередь рассылки переполнена, сообщение отброшено")
	}
}

// BroadcastOpportunities рассылает возможности последнего прохода
func (h *Hub) BroadcastOpportunities(opportunities []models.Opportunity) {
	h.Broadcast(&OpportunitiesMessage{
		Type:  "opportunities",
		Count: len(opportunities),
		Data:  opportunities,
	})
}

// BroadcastRiskMetrics рассылает риск-метрики портфеля
func (h *Hub) BroadcastRiskMetrics(metrics models.RiskMetrics) {
	h.Broadcast(&RiskUpdateMessage{
		Type: "riskUpdate",
		Data: metrics,
	})
}

// ClientCount возвращает количество подключённых клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
