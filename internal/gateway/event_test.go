package gateway

import "testing"

func TestParseEvent(t *testing.T) {
	cases := []struct {
		name        string
		body        string
		wantOutcome Outcome
		wantSender  string
		wantText    string
		wantID      string
	}{
		{
			name:        "plain conversation",
			body:        `{"key":{"remoteJid":"5511999990000@s.whatsapp.net","fromMe":false,"id":"MSG1"},"pushName":"Ana","message":{"conversation":"oi"}}`,
			wantOutcome: OutcomeOK,
			wantSender:  "5511999990000",
			wantText:    "oi",
			wantID:      "MSG1",
		},
		{
			name:        "data wrapper",
			body:        `{"event":"messages.upsert","data":{"key":{"remoteJid":"5511999990000@s.whatsapp.net","id":"MSG2"},"message":{"conversation":"bom dia"}}}`,
			wantOutcome: OutcomeOK,
			wantSender:  "5511999990000",
			wantText:    "bom dia",
			wantID:      "MSG2",
		},
		{
			name:        "list envelope takes first element",
			body:        `[{"key":{"remoteJid":"5511988887777@s.whatsapp.net","id":"MSG3"},"message":{"conversation":"primeiro"}},{"key":{"remoteJid":"x@s.whatsapp.net","id":"MSG4"},"message":{"conversation":"segundo"}}]`,
			wantOutcome: OutcomeOK,
			wantSender:  "5511988887777",
			wantText:    "primeiro",
			wantID:      "MSG3",
		},
		{
			name:        "extended text",
			body:        `{"key":{"remoteJid":"5511999990000@s.whatsapp.net","id":"MSG5"},"message":{"extendedTextMessage":{"text":"citação"}}}`,
			wantOutcome: OutcomeOK,
			wantSender:  "5511999990000",
			wantText:    "citação",
			wantID:      "MSG5",
		},
		{
			name:        "image caption",
			body:        `{"key":{"remoteJid":"5511999990000@s.whatsapp.net","id":"MSG6"},"message":{"imageMessage":{"caption":"olha isso"}}}`,
			wantOutcome: OutcomeOK,
			wantSender:  "5511999990000",
			wantText:    "olha isso",
			wantID:      "MSG6",
		},
		{
			name:        "conversation wins over caption",
			body:        `{"key":{"remoteJid":"5511999990000@s.whatsapp.net","id":"MSG7"},"message":{"conversation":"texto","imageMessage":{"caption":"legenda"}}}`,
			wantOutcome: OutcomeOK,
			wantSender:  "5511999990000",
			wantText:    "texto",
			wantID:      "MSG7",
		},
		{
			name:        "idMessage fallback",
			body:        `{"key":{"remoteJid":"5511999990000@s.whatsapp.net"},"idMessage":"ALT1","message":{"conversation":"oi"}}`,
			wantOutcome: OutcomeOK,
			wantSender:  "5511999990000",
			wantText:    "oi",
			wantID:      "ALT1",
		},
		{
			name:        "own message ignored",
			body:        `{"key":{"remoteJid":"5511999990000@s.whatsapp.net","fromMe":true,"id":"MSG8"},"message":{"conversation":"eco"}}`,
			wantOutcome: OutcomeOwnMessage,
		},
		{
			name:        "no message body",
			body:        `{"key":{"remoteJid":"5511999990000@s.whatsapp.net","id":"MSG9"}}`,
			wantOutcome: OutcomeNoMessage,
		},
		{
			name:        "group jid ignored",
			body:        `{"key":{"remoteJid":"123456789@g.us","id":"MSG10"},"message":{"conversation":"oi grupo"}}`,
			wantOutcome: OutcomeNonUser,
		},
		{
			name:        "missing sender ignored",
			body:        `{"key":{"id":"MSG11"},"message":{"conversation":"oi"}}`,
			wantOutcome: OutcomeNonUser,
		},
		{
			name:        "whitespace text ignored",
			body:        `{"key":{"remoteJid":"5511999990000@s.whatsapp.net","id":"MSG12"},"message":{"conversation":"   "}}`,
			wantOutcome: OutcomeNoText,
		},
		{
			name:        "not json",
			body:        `not json at all`,
			wantOutcome: OutcomeBadPayload,
		},
		{
			name:        "scalar payload",
			body:        `42`,
			wantOutcome: OutcomeBadPayload,
		},
		{
			name:        "empty list",
			body:        `[]`,
			wantOutcome: OutcomeBadPayload,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, outcome := ParseEvent([]byte(tc.body), nil)
			if outcome != tc.wantOutcome {
				t.Fatalf("outcome = %q, want %q", outcome, tc.wantOutcome)
			}
			if outcome != OutcomeOK {
				return
			}
			if ev.SenderID != tc.wantSender {
				t.Errorf("sender = %q, want %q", ev.SenderID, tc.wantSender)
			}
			if ev.Text != tc.wantText {
				t.Errorf("text = %q, want %q", ev.Text, tc.wantText)
			}
			if ev.MessageID != tc.wantID {
				t.Errorf("message id = %q, want %q", ev.MessageID, tc.wantID)
			}
		})
	}
}

func TestParseEventCustomNormalize(t *testing.T) {
	body := `{"key":{"remoteJid":"5511999990000@s.whatsapp.net","id":"MSG1"},"message":{"conversation":"oi"}}`
	ev, outcome := ParseEvent([]byte(body), func(jid string) string { return "custom:" + jid })
	if outcome != OutcomeOK {
		t.Fatalf("outcome = %q", outcome)
	}
	if ev.SenderID != "custom:5511999990000@s.whatsapp.net" {
		t.Errorf("custom normalize not applied: %q", ev.SenderID)
	}
	if ev.Number != "5511999990000" {
		t.Errorf("number = %q", ev.Number)
	}
}

func TestDefaultNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5511999990000@s.whatsapp.net", "5511999990000"},
		{" 55 11 99999-0000 ", "5511999990000"},
		{"+5511999990000", "5511999990000"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DefaultNormalize(tt.in); got != tt.want {
			t.Errorf("DefaultNormalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
