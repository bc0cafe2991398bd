package metadata

import "fmt"

type OrderStatus string

const (
	OrderDraft           OrderStatus = "brouillon"
	OrderSent            OrderStatus = "envoye"
	OrderConfirmed       OrderStatus = "confirme"
	OrderPartialReceived OrderStatus = "recu_partiel"
	OrderFullyReceived   OrderStatus = "recu_complet"
	OrderCancelled       OrderStatus = "annule"
)

func NewOrderStatus(value string) (OrderStatus, error) {
	status := OrderStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid order status: %s", value)
	}
	return status, nil
}

func (s OrderStatus) isValid() bool {
	switch s {
	case OrderDraft, OrderSent, OrderConfirmed, OrderPartialReceived, OrderFullyReceived, OrderCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo encodes the order lifecycle: brouillon -> envoye ->
// confirme -> recu_partiel/recu_complet. Cancellation is allowed from any
// state that has not reached recu_complet or annule.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if target == OrderCancelled {
		return s != OrderFullyReceived && s != OrderCancelled
	}

	switch s {
	case OrderDraft:
		return target == OrderSent
	case OrderSent:
		return target == OrderConfirmed
	case OrderConfirmed:
		return target == OrderPartialReceived || target == OrderFullyReceived
	case OrderPartialReceived:
		return target == OrderFullyReceived
	default:
		return false
	}
}

func (s OrderStatus) String() string {
	return string(s)
}
