package models

import (
	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketOpen    TicketStatus = "open"
	TicketPending TicketStatus = "pending"
	TicketClosed  TicketStatus = "closed"
)

// NormalizeTicketStatus maps a wire-level label onto the ticket vocabulary.
func NormalizeTicketStatus(s string) (TicketStatus, bool) {
	switch TicketStatus(s) {
	case TicketOpen, TicketPending, TicketClosed:
		return TicketStatus(s), true
	}
	return "", false
}

type Ticket struct {
	gorm.Model
	Subject     string       `json:"subject"`
	Description string       `json:"description"`
	ReportedBy  uint         `json:"reported_by" gorm:"index"`
	Reporter    User         `json:"reporter,omitempty" gorm:"foreignKey:ReportedBy"`
	Status      TicketStatus `json:"status"`
	Response    *string      `json:"response"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.Status == "" {
		t.Status = TicketOpen
	}
	return nil
}
