package model

import (
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPaid      OrderStatus = "Paid"
	StatusDelivered OrderStatus = "Delivered"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{StatusPending, StatusPaid, StatusDelivered}

// transitions maps a current status to the statuses it may move to.
// Backward moves are allowed so a bakery can correct a mistaken click.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPending, StatusPaid, StatusDelivered},
	StatusPaid:      {StatusPending, StatusPaid, StatusDelivered},
	StatusDelivered: {StatusPending, StatusPaid, StatusDelivered},
}

var labels = map[OrderStatus]string{
	StatusPending:   "Pending",
	StatusPaid:      "Paid (Preparing)",
	StatusDelivered: "Delivered",
}

// aliases accepts the labels used by the original bakery screens
var aliases = map[string]OrderStatus{
	"pending":              StatusPending,
	"pendente":             StatusPending,
	"paid":                 StatusPaid,
	"preparing":            StatusPaid,
	"paid (preparing)":     StatusPaid,
	"pago":                 StatusPaid,
	"pago (em preparação)": StatusPaid,
	"delivered":            StatusDelivered,
	"entregue":             StatusDelivered,
}

// ParseOrderStatus converts user input into a known status
func ParseOrderStatus(s string) (OrderStatus, error) {
	if st, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Label returns the human-friendly name shown on dashboards
func (s OrderStatus) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// CanTransitionTo reports whether an order in status s may move to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
