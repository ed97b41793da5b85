package ui

import (
	"go.uber.org/zap/zapcore"
)

// Tea message types for UI communication

// RouterMsg represents navigation between screens
type RouterMsg struct {
	To Route
	// Address is the wallet a detail route opens.
	Address string
}

// LogMsg is published for every log entry at warn level or above.
type LogMsg struct {
	Level   zapcore.Level
	Logger  string
	Message string
}

// StatusMsg is a transient status line message (export done, guide hidden).
type StatusMsg struct {
	Message string
}

// Route represents different screens in the application
type Route int

const (
	RouteDashboard Route = iota
	RouteWallets
	RouteSearch
	RouteDetail
	RouteLogs
)

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteDashboard:
		return "dashboard"
	case RouteWallets:
		return "wallets"
	case RouteSearch:
		return "search"
	case RouteDetail:
		return "detail"
	case RouteLogs:
		return "logs"
	default:
		return "unknown"
	}
}
