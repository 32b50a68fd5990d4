package domain

import "strings"

// TicketFilter selects which of a purchaser's tickets are listed
type TicketFilter string

const (
	TicketFilterAll    TicketFilter = "all"
	TicketFilterActive TicketFilter = "active"
	TicketFilterPast   TicketFilter = "past"
)

// ParseTicketFilter accepts all, active or past; empty means all
func ParseTicketFilter(s string) (TicketFilter, error) {
	switch f := TicketFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return TicketFilterAll, nil
	case TicketFilterAll, TicketFilterActive, TicketFilterPast:
		return f, nil
	}
	return "", ErrInvalidTicketFilter
}
