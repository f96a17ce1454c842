package session

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestAppendExchangeAndHistory(t *testing.T) {
	s := NewStore(nil, 10)
	if s.Known("5511999990000") {
		t.Fatal("sender should be unknown before first exchange")
	}
	if got := s.History("5511999990000"); got != nil {
		t.Fatalf("history of unknown sender = %v, want nil", got)
	}

	s.AppendExchange("5511999990000",
		Turn{Role: RoleCustomer, Text: "oi"},
		Turn{Role: RoleAssistant, Text: "olá!"},
	)

	if !s.Known("5511999990000") {
		t.Error("sender should be known after exchange")
	}
	h := s.History("5511999990000")
	if len(h) != 2 {
		t.Fatalf("history len = %d, want 2", len(h))
	}
	if h[0].Role != RoleCustomer || h[0].Text != "oi" {
		t.Errorf("first turn = %+v", h[0])
	}
	if h[1].Role != RoleAssistant || h[1].Text != "olá!" {
		t.Errorf("second turn = %+v", h[1])
	}
}

func TestTranscriptBound(t *testing.T) {
	const maxTurns = 6
	s := NewStore(nil, maxTurns)
	for i := 0; i < 10; i++ {
		s.AppendExchange("sender",
			Turn{Role: RoleCustomer, Text: fmt.Sprintf("c%d", i)},
			Turn{Role: RoleAssistant, Text: fmt.Sprintf("a%d", i)},
		)
		if got := len(s.History("sender")); got > maxTurns {
			t.Fatalf("after exchange %d: len = %d, want <= %d", i, got, maxTurns)
		}
	}

	h := s.History("sender")
	if len(h) != maxTurns {
		t.Fatalf("len = %d, want %d", len(h), maxTurns)
	}
	// The retained turns are the most recent, oldest evicted first.
	if h[0].Text != "c7" {
		t.Errorf("oldest retained = %q, want c7", h[0].Text)
	}
	if h[len(h)-1].Text != "a9" {
		t.Errorf("newest retained = %q, want a9", h[len(h)-1].Text)
	}
}

func TestHistoryIsACopy(t *testing.T) {
	s := NewStore(nil, 10)
	s.AppendExchange("sender", Turn{Role: RoleCustomer, Text: "oi"}, Turn{Role: RoleAssistant, Text: "olá"})

	h := s.History("sender")
	h[0].Text = "mutated"

	if got := s.History("sender")[0].Text; got != "oi" {
		t.Errorf("store transcript mutated through returned slice: %q", got)
	}
}

func TestExchangePairsNeverInterleave(t *testing.T) {
	s := NewStore(nil, 1000)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				tag := fmt.Sprintf("g%d-%d", g, i)
				s.AppendExchange("sender",
					Turn{Role: RoleCustomer, Text: tag},
					Turn{Role: RoleAssistant, Text: tag},
				)
			}
		}(g)
	}
	wg.Wait()

	h := s.History("sender")
	if len(h)%2 != 0 {
		t.Fatalf("odd transcript length %d", len(h))
	}
	for i := 0; i < len(h); i += 2 {
		if h[i].Role != RoleCustomer || h[i+1].Role != RoleAssistant {
			t.Fatalf("pair at %d has roles %s/%s", i, h[i].Role, h[i+1].Role)
		}
		if h[i].Text != h[i+1].Text {
			t.Fatalf("pair at %d split: %q vs %q", i, h[i].Text, h[i+1].Text)
		}
	}
}

func TestSweepIdle(t *testing.T) {
	s := NewStore(nil, 10)
	current := time.Now()
	s.now = func() time.Time { return current }

	s.AppendExchange("old", Turn{Role: RoleCustomer, Text: "oi"}, Turn{Role: RoleAssistant, Text: "olá"})
	current = current.Add(2 * time.Hour)
	s.AppendExchange("fresh", Turn{Role: RoleCustomer, Text: "oi"}, Turn{Role: RoleAssistant, Text: "olá"})

	if dropped := s.SweepIdle(time.Hour); dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if s.Known("old") {
		t.Error("idle session should have been removed")
	}
	if !s.Known("fresh") {
		t.Error("fresh session should survive the sweep")
	}
	if dropped := s.SweepIdle(0); dropped != 0 {
		t.Errorf("zero ttl must disable the sweep, dropped = %d", dropped)
	}
}
