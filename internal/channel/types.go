// Package channel resolves inbound webhook traffic to provisioned
// WhatsApp channels.
package channel

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no active channel matches a phone number id.
var ErrNotFound = errors.New("channel not found")

// Channel is one provisioned WhatsApp Business phone number.
type Channel struct {
	ID                 string     `json:"id"`
	PhoneNumberID      string     `json:"phone_number_id"`
	DisplayPhoneNumber string     `json:"display_phone_number,omitempty"`
	Name               string     `json:"name,omitempty"`
	AccessToken        string     `json:"-"`
	BusinessAccountID  string     `json:"business_account_id,omitempty"`
	Active             bool       `json:"active"`
	LastActivityAt     *time.Time `json:"last_activity_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
