package metadata

import "testing"

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     OrderStatus
		to       OrderStatus
		expected bool
	}{
		{"draft to sent", OrderDraft, OrderSent, true},
		{"sent to confirmed", OrderSent, OrderConfirmed, true},
		{"confirmed to partial receipt", OrderConfirmed, OrderPartialReceived, true},
		{"confirmed to full receipt", OrderConfirmed, OrderFullyReceived, true},
		{"partial to full receipt", OrderPartialReceived, OrderFullyReceived, true},
		{"draft skips to confirmed", OrderDraft, OrderConfirmed, false},
		{"sent back to draft", OrderSent, OrderDraft, false},
		{"full receipt is terminal", OrderFullyReceived, OrderCancelled, false},
		{"cancel a draft", OrderDraft, OrderCancelled, true},
		{"cancel a partial receipt", OrderPartialReceived, OrderCancelled, true},
		{"cancel twice", OrderCancelled, OrderCancelled, false},
		{"revive a cancelled order", OrderCancelled, OrderSent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.expected {
				t.Errorf("CanTransitionTo(%q -> %q) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestNewOrderStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"draft", "brouillon", false},
		{"sent", "envoye", false},
		{"unknown status", "expediee", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrderStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewOrderStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
