package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTicketStatus(t *testing.T) {
	cases := []struct {
		in   string
		want TicketStatus
		ok   bool
	}{
		{"open", TicketOpen, true},
		{"pending", TicketPending, true},
		{"closed", TicketClosed, true},
		{"resolved", "", false},
		{"OPEN", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizeTicketStatus(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}
