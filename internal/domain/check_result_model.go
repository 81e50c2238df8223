package domain

import "time"

const (
	CheckKindConnectivity = "connectivity"
	CheckKindStripe       = "stripe"
)

// CheckResult is one verdict for one proxy at one point in time. Connectivity
// and payment-API probes share the table, told apart by Kind.
type CheckResult struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProxyID uint64 `gorm:"not null;index" json:"-"`
	Kind    string `gorm:"size:20;not null;default:'connectivity'" json:"kind"`

	Success      bool   `json:"success"`
	Static       bool   `json:"isStatic"`
	Blocked      bool   `json:"blocked,omitempty"`
	EgressIP     string `gorm:"size:45" json:"ip,omitempty"`
	ResponseTime uint32 `json:"responseTime"` // milliseconds
	Message      string `gorm:"size:255" json:"message,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"checkedAt"`
}
