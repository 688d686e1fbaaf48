package alerts

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the alert condition.
type Kind string

const (
	// KindAbove triggers while the price is at or above the threshold.
	KindAbove Kind = "price_above"
	// KindBelow triggers while the price is at or below the threshold.
	KindBelow Kind = "price_below"
	// KindPercent triggers when the move since the previous snapshot
	// reaches the threshold percentage in either direction.
	KindPercent Kind = "percent_change"
)

var (
	// ErrDuplicateAlert means the owner already has an identical alert.
	ErrDuplicateAlert = errors.New("alert already exists")
	// ErrNotFound means the referenced alert or owner does not exist.
	ErrNotFound = errors.New("alert not found")
	// ErrInvalidThreshold rejects zero/negative thresholds and unknown kinds.
	ErrInvalidThreshold = errors.New("invalid alert threshold")
)

// ParseKind maps user-facing aliases onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "above", "up", "price_above":
		return KindAbove, nil
	case "below", "down", "price_below":
		return KindBelow, nil
	case "percent", "change", "%", "percent_change":
		return KindPercent, nil
	}
	return "", fmt.Errorf("unknown alert kind %q", s)
}

func (k Kind) valid() bool {
	switch k {
	case KindAbove, KindBelow, KindPercent:
		return true
	}
	return false
}

// Describe renders the kind for alert listings.
func (k Kind) Describe(threshold decimal.Decimal) string {
	switch k {
	case KindAbove:
		return fmt.Sprintf("price above %s", threshold)
	case KindBelow:
		return fmt.Sprintf("price below %s", threshold)
	case KindPercent:
		return fmt.Sprintf("price change ≥ %s%%", threshold)
	}
	return string(k)
}

// Alert is one persisted per-user alert record. The trigger state is a
// latch: it stays set while the condition holds and re-arms once the
// condition stops holding.
type Alert struct {
	Kind          Kind            `json:"type"`
	Threshold     decimal.Decimal `json:"threshold"`
	ChatID        int64           `json:"chat_id"`
	CreatedAt     time.Time       `json:"created_at"`
	Triggered     bool            `json:"triggered"`
	LastTriggered *time.Time      `json:"last_triggered,omitempty"`
}
