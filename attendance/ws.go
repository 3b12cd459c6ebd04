package attendance

import (
	"log"
	"net/http"

	"fitpass/middleware"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
	gym  string
}

type feedEvent struct {
	gym  string
	data []byte
}

// feed fans attendance marks out to the dashboards subscribed to each gym.
type feed struct {
	gyms       map[string]map[*feedClient]bool
	register   chan *feedClient
	unregister chan *feedClient
	events     chan feedEvent
	stop       chan struct{}
}

func newFeed() *feed {
	return &feed{
		gyms:       make(map[string]map[*feedClient]bool),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		events:     make(chan feedEvent, 64),
		stop:       make(chan struct{}),
	}
}

func (f *feed) run() {
	for {
		select {
		case c := <-f.register:
			if f.gyms[c.gym] == nil {
				f.gyms[c.gym] = make(map[*feedClient]bool)
			}
			f.gyms[c.gym][c] = true

		case c := <-f.unregister:
			if clients := f.gyms[c.gym]; clients[c] {
				delete(clients, c)
				close(c.send)
			}

		case ev := <-f.events:
			f.deliver(ev)

		case <-f.stop:
			return
		}
	}
}

func (f *feed) deliver(ev feedEvent) {
	for c := range f.gyms[ev.gym] {
		select {
		case c.send <- ev.data:
		default:
			// slow consumer, drop it
			delete(f.gyms[ev.gym], c)
			close(c.send)
		}
	}
}

// publish never blocks the marking handler; if the loop is saturated the
// event is dropped and dashboards catch up on the next mark.
func (f *feed) publish(gymID string, data []byte) {
	select {
	case f.events <- feedEvent{gym: gymID, data: data}:
	default:
	}
}

var liveFeed = newFeed()

// RunFeed drives the attendance broadcast loop; main starts it once.
func RunFeed() { liveFeed.run() }

// HandleWS streams attendance marks for a gym to authenticated dashboards.
// The token may ride in the query string because browsers cannot set
// headers on websocket requests.
func HandleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.Header.Get("Authorization")
	}
	if _, err := middleware.ValidateJWT(token); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("ws upgrade:", err)
		return
	}

	client := &feedClient{
		conn: conn,
		send: make(chan []byte, 16),
		gym:  ps.ByName("gymid"),
	}
	liveFeed.register <- client

	go writePump(client)
	readPump(client)
}

func writePump(c *feedClient) {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *feedClient) {
	defer func() {
		liveFeed.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
