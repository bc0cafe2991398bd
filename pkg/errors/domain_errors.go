package custom_error

import (
	"fmt"

	"github.com/pickt972/stock-wise-fleet-sub000/pkg/metadata"
)

// NotFoundError signals that a referenced resource does not exist.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func NewNotFound(resource string, id int) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// InsufficientStockError rejects an adjustment that would drive an
// article's stock below zero.
type InsufficientStockError struct {
	ArticleID int
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for article %d: requested %d, available %d",
		e.ArticleID, e.Requested, e.Available)
}

// InvalidTransitionError rejects a return processed outside of en_cours.
type InvalidTransitionError struct {
	ExitID int
	From   metadata.ReturnState
	To     metadata.ReturnState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("exit %d: illegal return transition %q -> %q", e.ExitID, e.From, e.To)
}

// InvalidStatusError rejects an order status change outside the lifecycle.
type InvalidStatusError struct {
	OrderID int
	From    metadata.OrderStatus
	To      metadata.OrderStatus
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("order %d: illegal status transition %q -> %q", e.OrderID, e.From, e.To)
}

// AlreadyDeletedError rejects a second soft-delete of the same exit so
// stock is never credited back twice.
type AlreadyDeletedError struct {
	ExitID int
}

func (e *AlreadyDeletedError) Error() string {
	return fmt.Sprintf("exit %d is already deleted", e.ExitID)
}

// ValidationError flags a missing or malformed request field.
type ValidationError struct {
	Property string
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Property, e.Message)
}

func NewValidation(property, message string) *ValidationError {
	return &ValidationError{Property: property, Message: message}
}
