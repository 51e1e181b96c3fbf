// Package autolabel computes which automatic labels should apply to a client.
package autolabel

import (
	"time"

	"whatsdesk-go/internal/model"
)

// Well-known auto label names. These are the names the default labels are
// created with and the only ones the evaluator understands.
const (
	LabelNameNew          = "Nuevo"
	LabelNameLastHour     = "Última hora"
	LabelNameFrequent     = "Frecuente"
	LabelNameDelayedReply = "Respuesta atrasada"
)

// FrequentWindow is the trailing window History.MessagesLast30Days must be
// counted over. Exported so the store counting messages uses the same window
// the rule assumes.
const FrequentWindow = 30 * 24 * time.Hour

// Rule thresholds.
const (
	newClientWindow     = 24 * time.Hour
	lastHourWindow      = time.Hour
	frequentMinMessages = 5
	delayedReplyMinAge  = 2 * time.Hour
)

// Kind identifies an auto label rule.
type Kind int

const (
	// KindUnknown marks auto labels this evaluator has no rule for. They are
	// never added or removed, so accounts can carry other auto labels without
	// this engine touching them.
	KindUnknown Kind = iota
	KindNew
	KindLastHour
	KindFrequent
	KindDelayedReply
)

// KindForName maps a label name to its rule kind.
func KindForName(name string) Kind {
	switch name {
	case LabelNameNew:
		return KindNew
	case LabelNameLastHour:
		return KindLastHour
	case LabelNameFrequent:
		return KindFrequent
	case LabelNameDelayedReply:
		return KindDelayedReply
	default:
		return KindUnknown
	}
}

// ClientSnapshot is the client state the rules read.
type ClientSnapshot struct {
	ID            string
	CreatedAt     time.Time
	LastMessageAt *time.Time
}

// History is a point-in-time view of a client's message history, prefetched
// by the caller so that a single evaluation never sees two different "now"s.
type History struct {
	// MessagesLast30Days counts messages in any direction within the
	// trailing 30 days.
	MessagesLast30Days int64
	// LastInboundAt is the timestamp of the most recent inbound message,
	// nil when the client has never written.
	LastInboundAt *time.Time
	// RepliedAfterLastInbound reports whether an outbound message exists
	// with a timestamp strictly greater than LastInboundAt.
	RepliedAfterLastInbound bool
}

// Delta is the set of label ids to attach and detach to reconcile the
// client's current labels with what the rules say.
type Delta struct {
	ToAdd    []string
	ToRemove []string
}

// Empty reports whether the delta is a no-op.
func (d Delta) Empty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// Evaluate applies every known auto label rule at time now and returns the
// delta against currentLabelIDs. It is a pure decision function: re-running
// it with unchanged inputs yields an empty delta once the first delta has
// been applied.
//
// Boundary decision: all window rules are inclusive, so a client created
// exactly 24h ago still counts as new.
func Evaluate(now time.Time, client ClientSnapshot, history History, currentLabelIDs map[string]bool, autoLabels []model.Label) Delta {
	var delta Delta

	for _, label := range autoLabels {
		kind := KindForName(label.Name)
		if kind == KindUnknown {
			continue
		}

		should := shouldApply(kind, now, client, history)
		has := currentLabelIDs[label.ID]

		switch {
		case should && !has:
			delta.ToAdd = append(delta.ToAdd, label.ID)
		case !should && has:
			delta.ToRemove = append(delta.ToRemove, label.ID)
		}
	}

	return delta
}

func shouldApply(kind Kind, now time.Time, client ClientSnapshot, history History) bool {
	switch kind {
	case KindNew:
		return now.Sub(client.CreatedAt) <= newClientWindow
	case KindLastHour:
		if client.LastMessageAt == nil {
			return false
		}
		return now.Sub(*client.LastMessageAt) <= lastHourWindow
	case KindFrequent:
		return history.MessagesLast30Days >= frequentMinMessages
	case KindDelayedReply:
		if history.LastInboundAt == nil {
			return false
		}
		return !history.RepliedAfterLastInbound && now.Sub(*history.LastInboundAt) >= delayedReplyMinAge
	default:
		return false
	}
}
