package speech

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsReadLimit    = 4096
	wsPongWait     = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

// wsUtterance is the message the browser speech page sends after its
// recognizer finalizes a phrase.
type wsUtterance struct {
	Text string `json:"text"`
}

// wsAck tells the page whether the utterance was queued for a cycle.
type wsAck struct {
	Accepted bool   `json:"accepted"`
	Text     string `json:"text"`
}

// Feed bridges websocket speech connections into a ChannelRecognizer.
type Feed struct {
	recognizer *ChannelRecognizer
	upgrader   websocket.Upgrader
}

// NewFeed creates a websocket feed pushing into recognizer.
func NewFeed(recognizer *ChannelRecognizer) *Feed {
	return &Feed{
		recognizer: recognizer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser page is served from a different origin in
			// development; CORS policy is enforced at the HTTP layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve upgrades the request and pumps utterances until the client goes
// away. Each accepted utterance is acknowledged back to the page.
func (f *Feed) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connID := uuid.New().String()
	log.Printf("Speech connection established: %s", connID)

	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go f.ping(conn, done)

	for {
		var msg wsUtterance
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Speech connection %s read error: %v", connID, err)
			}
			log.Printf("Speech connection closed: %s", connID)
			return
		}

		accepted := f.recognizer.Submit(msg.Text)
		if err := conn.WriteJSON(wsAck{Accepted: accepted, Text: msg.Text}); err != nil {
			log.Printf("Speech connection %s write error: %v", connID, err)
			return
		}
	}
}

func (f *Feed) ping(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
