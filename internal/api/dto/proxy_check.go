package dto

import (
	"proxyvet/internal/domain"
	"proxyvet/internal/proxyaddr"
)

// CheckRequest carries either the raw user-entered string or an already
// parsed proxy record. When both are set the raw input wins, since the
// classifier wants the original string.
type CheckRequest struct {
	Input string          `json:"input,omitempty"`
	Proxy *proxyaddr.Proxy `json:"proxy,omitempty"`
}

type CheckResponse struct {
	Success      bool   `json:"success"`
	IsStatic     bool   `json:"isStatic"`
	IP           string `json:"ip,omitempty"`
	ResponseTime int64  `json:"responseTime"`
	Message      string `json:"message,omitempty"`
	Cached       bool   `json:"cached,omitempty"`
}

type StripeCheckResponse struct {
	Success      bool   `json:"success"`
	Blocked      bool   `json:"blocked"`
	ResponseTime int64  `json:"responseTime"`
	Message      string `json:"message,omitempty"`
}

type ParseResponse struct {
	Proxy    *proxyaddr.Proxy `json:"proxy"`
	IsStatic bool             `json:"isStatic"`
}

type HistoryPage struct {
	Results []domain.CheckResult `json:"results"`
	Total   int64                `json:"total"`
}
