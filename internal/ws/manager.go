package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// TopicPrompts - тема по умолчанию: обновления дневных промптов, историй
// и избранного. Клиент подписан на нее сразу после подключения.
const TopicPrompts = "prompts"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Проверка Origin делается на уровне reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message - сообщение, отправляемое клиентам через websocket.
type Message struct {
	Type    string      `json:"type"`
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload"`
	Target  uuid.UUID   `json:"-"` // uuid.Nil означает рассылку всем подписанным
}

// Client - одно websocket-соединение пользователя. У пользователя может
// быть несколько клиентов (несколько устройств).
type Client struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	Conn    *websocket.Conn
	Manager *Manager
	Send    chan []byte
	Topics  map[string]bool
}

// Manager раздает обновления подключенным клиентам. Единственная
// горутина Run владеет картой клиентов, регистрация и рассылка идут
// через каналы.
type Manager struct {
	logger     *zap.Logger
	clients    map[uuid.UUID]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
}

// NewManager создает менеджер websocket-соединений.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		logger:     logger.Named("WSManager"),
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 64),
	}
}

// Run обрабатывает регистрацию клиентов и рассылку сообщений.
// Запускается в отдельной горутине при старте сервера.
func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.clients[client.ID] = client
			m.logger.Debug("Client connected",
				zap.String("clientID", client.ID.String()),
				zap.String("userID", client.UserID.String()))

		case client := <-m.unregister:
			if _, ok := m.clients[client.ID]; ok {
				close(client.Send)
				delete(m.clients, client.ID)
				m.logger.Debug("Client disconnected",
					zap.String("clientID", client.ID.String()))
			}

		case message := <-m.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				m.logger.Error("Failed to marshal ws message", zap.Error(err))
				continue
			}

			for _, client := range m.clients {
				if message.Target != uuid.Nil && client.UserID != message.Target {
					continue
				}
				if !client.Topics[message.Topic] {
					continue
				}
				select {
				case client.Send <- data:
				default:
					// Медленный клиент: отключаем, чтобы не блокировать рассылку.
					close(client.Send)
					delete(m.clients, client.ID)
				}
			}
		}
	}
}

// ServeWS апгрейдит соединение и регистрирует клиента. userID берется из
// JWT, а не из запроса.
func (m *Manager) ServeWS(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Error("Failed to upgrade connection", zap.Error(err))
		return err
	}

	client := &Client{
		ID:      uuid.New(),
		UserID:  userID,
		Conn:    conn,
		Manager: m,
		Send:    make(chan []byte, 256),
		Topics:  map[string]bool{TopicPrompts: true},
	}

	m.register <- client

	go client.readPump()
	go client.writePump()
	return nil
}

// NotifyUser отправляет сообщение всем соединениям конкретного пользователя.
func (m *Manager) NotifyUser(userID uuid.UUID, messageType string, payload interface{}) {
	m.broadcast <- Message{
		Type:    messageType,
		Topic:   TopicPrompts,
		Payload: payload,
		Target:  userID,
	}
}

// Broadcast отправляет сообщение всем клиентам, подписанным на тему.
func (m *Manager) Broadcast(messageType, topic string, payload interface{}) {
	m.broadcast <- Message{
		Type:    messageType,
		Topic:   topic,
		Payload: payload,
	}
}

// readPump обрабатывает входящие сообщения от клиента.
func (c *Client) readPump() {
	defer func() {
		c.Manager.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Manager.logger.Debug("Read error", zap.Error(err))
			}
			break
		}

		// Клиент может управлять подписками на темы.
		var cmd struct {
			Action string `json:"action"`
			Topic  string `json:"topic"`
		}
		if err := json.Unmarshal(message, &cmd); err != nil {
			continue
		}

		switch cmd.Action {
		case "subscribe":
			c.Topics[cmd.Topic] = true
		case "unsubscribe":
			delete(c.Topics, cmd.Topic)
		}
	}
}

// writePump отправляет сообщения клиенту.
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Сливаем накопившиеся сообщения в тот же фрейм.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
