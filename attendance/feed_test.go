package attendance

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
)

func TestFeedRegisterPublishUnregister(t *testing.T) {
	f := newFeed()
	go f.run()
	defer close(f.stop)

	client := &feedClient{send: make(chan []byte, 4), gym: "g1"}
	f.register <- client

	f.publish("g1", []byte(`{"status":"present"}`))

	select {
	case got := <-client.send:
		if string(got) != `{"status":"present"}` {
			t.Fatalf("unexpected payload: %s", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for broadcast")
	}

	f.unregister <- client
	select {
	case _, open := <-client.send:
		if open {
			t.Fatal("send channel must be closed after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}
}

func TestFeedScopesEventsToGym(t *testing.T) {
	f := newFeed()
	go f.run()
	defer close(f.stop)

	other := &feedClient{send: make(chan []byte, 4), gym: "g2"}
	f.register <- other

	f.publish("g1", []byte("g1-only"))
	f.publish("g2", []byte("for-g2"))

	select {
	case got := <-other.send:
		if string(got) != "for-g2" {
			t.Fatalf("subscriber received another gym's event: %s", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for broadcast")
	}
}

func TestFeedDropsSlowSubscriber(t *testing.T) {
	f := newFeed()
	slow := &feedClient{send: make(chan []byte, 1), gym: "g1"}
	f.gyms["g1"] = map[*feedClient]bool{slow: true}

	f.deliver(feedEvent{gym: "g1", data: []byte("first")})
	f.deliver(feedEvent{gym: "g1", data: []byte("second")})

	if got := <-slow.send; string(got) != "first" {
		t.Fatalf("unexpected first payload: %s", got)
	}
	if _, open := <-slow.send; open {
		t.Fatal("slow subscriber must be dropped, not queued behind")
	}
	if f.gyms["g1"][slow] {
		t.Fatal("dropped subscriber must be removed from the gym set")
	}
}

func TestHandleWSRejectsMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/attendance/ws/g1", nil)
	w := httptest.NewRecorder()

	HandleWS(w, req, httprouter.Params{{Key: "gymid", Value: "g1"}})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing token, got %d", w.Code)
	}
}
