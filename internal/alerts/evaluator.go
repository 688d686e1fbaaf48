package alerts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"neonx-bot/internal/pricesource"
)

var hundred = decimal.NewFromInt(100)

// Notification is the payload produced for an alert that just fired.
type Notification struct {
	Owner         int64
	ChatID        int64
	Alert         Alert
	CurrentPrice  decimal.Decimal
	PreviousPrice *decimal.Decimal
}

// Evaluate checks every alert against the new snapshot and returns the
// notifications for alerts that transitioned into the triggered state.
//
// A notification is emitted only on the false→true edge; while the condition
// keeps holding the latch suppresses repeats, and once it stops holding the
// alert re-arms. Snapshots without a usable price never perturb any state.
// The document is persisted once, and only when something changed.
func (s *Store) Evaluate(current pricesource.Snapshot, previous *pricesource.Snapshot) []Notification {
	if !current.Succeeded || !current.HasPrice {
		return nil
	}

	var prevPrice *decimal.Decimal
	if previous != nil && previous.Succeeded && previous.HasPrice {
		p := previous.Price
		prevPrice = &p
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var fired []Notification
	changed := false

	for _, key := range s.sortedOwnerKeys() {
		owner, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		list := s.doc.Users[key]
		for i := range list {
			met := conditionMet(list[i].Kind, list[i].Threshold, current.Price, prevPrice)

			switch {
			case met && !list[i].Triggered:
				list[i].Triggered = true
				ts := s.now().UTC()
				list[i].LastTriggered = &ts
				changed = true
				fired = append(fired, Notification{
					Owner:         owner,
					ChatID:        list[i].ChatID,
					Alert:         list[i],
					CurrentPrice:  current.Price,
					PreviousPrice: prevPrice,
				})
			case !met && list[i].Triggered:
				list[i].Triggered = false
				changed = true
			}
		}
	}

	if changed {
		s.persist()
	}
	return fired
}

func conditionMet(kind Kind, threshold, current decimal.Decimal, previous *decimal.Decimal) bool {
	switch kind {
	case KindAbove:
		return current.GreaterThanOrEqual(threshold)
	case KindBelow:
		return current.LessThanOrEqual(threshold)
	case KindPercent:
		if previous == nil || previous.IsZero() {
			return false
		}
		change := current.Sub(*previous).Div(*previous).Mul(hundred)
		return change.Abs().GreaterThanOrEqual(threshold)
	}
	return false
}

// RenderMessage formats the Telegram text for a fired alert.
func RenderMessage(n Notification) string {
	builder := strings.Builder{}
	builder.WriteString("🚨 *NeonX Price Alert* 🚨\n\n")

	switch n.Alert.Kind {
	case KindAbove:
		builder.WriteString(fmt.Sprintf("Price has risen above your alert threshold of %s!\n", n.Alert.Threshold))
		builder.WriteString(fmt.Sprintf("Current price: %s", n.CurrentPrice))
	case KindBelow:
		builder.WriteString(fmt.Sprintf("Price has fallen below your alert threshold of %s!\n", n.Alert.Threshold))
		builder.WriteString(fmt.Sprintf("Current price: %s", n.CurrentPrice))
	case KindPercent:
		direction := "increased"
		change := decimal.Zero
		if n.PreviousPrice != nil && !n.PreviousPrice.IsZero() {
			change = n.CurrentPrice.Sub(*n.PreviousPrice).Div(*n.PreviousPrice).Mul(hundred)
		}
		if change.IsNegative() {
			direction = "decreased"
		}
		builder.WriteString(fmt.Sprintf("Price has %s by %s%%!\n", direction, change.Abs().StringFixed(2)))
		if n.PreviousPrice != nil {
			builder.WriteString(fmt.Sprintf("Previous price: %s\n", n.PreviousPrice))
		}
		builder.WriteString(fmt.Sprintf("Current price: %s", n.CurrentPrice))
	default:
		builder.WriteString("Your price alert has been triggered!")
	}

	return builder.String()
}
