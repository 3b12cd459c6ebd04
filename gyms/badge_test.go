package gyms

import (
	"testing"
	"time"
)

func TestBadgePayloadRoundTrip(t *testing.T) {
	until := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	payload := badgePayload("G1", "M1", until)

	if !VerifyBadgePayload(payload) {
		t.Fatal("freshly signed payload must verify")
	}
	if VerifyBadgePayload(payload[:len(payload)-2] + "xx") {
		t.Fatal("tampered signature must not verify")
	}
	if VerifyBadgePayload("G2" + payload[2:]) {
		t.Fatal("tampered data must not verify")
	}
	if VerifyBadgePayload("no-separator") {
		t.Fatal("malformed payload must not verify")
	}
}
