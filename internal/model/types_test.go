package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestEnvelopeDecode validates decoding of server wire frames into typed payloads.
func TestEnvelopeDecode(t *testing.T) {
	t.Run("PriceUpdate", func(t *testing.T) {
		raw := `{"type":"price_update","data":{"priceData":{"time":1714003200,"open":10,"high":12,"low":9,"close":11,"volume":3.5},"updateLast":false}}`

		var env Envelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		if env.Type != MsgTypePriceUpdate {
			t.Errorf("Type = %q, want %q", env.Type, MsgTypePriceUpdate)
		}

		var pu PriceUpdate
		if err := json.Unmarshal(env.Data, &pu); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if pu.PriceData.High != 12 {
			t.Errorf("High = %v, want 12", pu.PriceData.High)
		}
		if pu.UpdateLast {
			t.Error("UpdateLast = true, want false")
		}
	})

	t.Run("PhaseUpdate", func(t *testing.T) {
		raw := `{"type":"phase_update","data":{"phase":"live","endTime":"2026-01-02T15:04:05Z"}}`

		var env Envelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}

		var pu PhaseUpdate
		if err := json.Unmarshal(env.Data, &pu); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if pu.Phase != PhaseLive {
			t.Errorf("Phase = %q, want %q", pu.Phase, PhaseLive)
		}
		if _, err := time.Parse(time.RFC3339, pu.EndTime); err != nil {
			t.Errorf("EndTime not RFC3339: %v", err)
		}
	})

	t.Run("LeaderboardUpdate", func(t *testing.T) {
		id := uuid.New()
		raw := `{"entries":[{"playerId":"` + id.String() + `","username":"alice","balance":10250.5}]}`

		var lu LeaderboardUpdate
		if err := json.Unmarshal([]byte(raw), &lu); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if len(lu.Entries) != 1 {
			t.Fatalf("len(Entries) = %d, want 1", len(lu.Entries))
		}
		if lu.Entries[0].PlayerID != id {
			t.Errorf("PlayerID = %v, want %v", lu.Entries[0].PlayerID, id)
		}
	})
}

func TestPricePointBucket(t *testing.T) {
	// Two ticks ten hours apart on the same UTC day share a bucket.
	a := PricePoint{Time: time.Date(2026, 4, 25, 1, 0, 0, 0, time.UTC).Unix()}
	b := PricePoint{Time: time.Date(2026, 4, 25, 11, 0, 0, 0, time.UTC).Unix()}
	c := PricePoint{Time: time.Date(2026, 4, 26, 1, 0, 0, 0, time.UTC).Unix()}

	if !a.Bucket().Equal(b.Bucket()) {
		t.Error("expected same-day ticks to share a bucket")
	}
	if a.Bucket().Equal(c.Bucket()) {
		t.Error("expected next-day tick to get a new bucket")
	}
}

func TestCredentialInvariant(t *testing.T) {
	// Zero value: no identity, no token.
	var cred Credential
	if cred.Identity != nil || cred.AccessToken != "" {
		t.Error("zero credential must carry neither identity nor token")
	}
}
