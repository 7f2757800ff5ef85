// Package triage routes free-text support messages either to a canned
// answer or to a human representative.
package triage

import "strings"

const (
	HandledByAI = "ai"

	// Messages longer than this are treated as too involved for a canned reply.
	MaxAutoLength = 220
)

const GenericReply = "I can help with check-in, baggage, payment, booking changes, and refund policy. " +
	"If you share more details, I will try to solve it first."

type Result struct {
	HandledBy string
	Escalate  bool
	Reply     string
}

type rule struct {
	topic    string
	keywords []string
	reply    string
}

// Rules are checked in order; the first topic with a matching keyword wins.
var easyRules = []rule{
	{
		topic:    "check-in",
		keywords: []string{"check-in", "check in", "checkin"},
		reply:    "Online check-in usually opens 24 hours before departure and closes 60 minutes before takeoff for most routes.",
	},
	{
		topic:    "baggage",
		keywords: []string{"baggage", "bag", "luggage", "carry on", "carry-on"},
		reply:    "Most guests can bring 1 carry-on and 1 personal item. Checked baggage depends on fare type, so share your route and I can help estimate it.",
	},
	{
		topic:    "refund",
		keywords: []string{"refund", "cancel", "cancellation"},
		reply:    "Refund timing depends on fare rules. Non-refundable fares often return taxes only; flexible fares can be refunded to your original payment method.",
	},
	{
		topic:    "payment",
		keywords: []string{"payment", "card", "pay"},
		reply:    "Accepted payment methods include major cards. If payment fails, try matching billing address and retry with a fresh session.",
	},
	{
		topic:    "reschedule",
		keywords: []string{"reschedule", "change flight", "change booking", "change ticket"},
		reply:    "You can change eligible bookings from Manage Trip. Change fees and fare differences depend on fare rules and route.",
	},
	{
		topic:    "boarding-pass",
		keywords: []string{"boarding pass", "mobile pass", "pass"},
		reply:    "After successful check-in, your boarding pass is available in My Trips and can be downloaded to your phone.",
	},
}

var escalationSignals = []string{
	"complaint",
	"legal",
	"chargeback",
	"emergency",
	"medical",
	"visa",
	"passport issue",
	"group booking",
	"corporate booking",
	"special assistance",
	"not received",
	"fraud",
	"representative",
	"agent",
}

// Classify never fails; an empty message gets the generic reply.
func Classify(message string) Result {
	lower := strings.ToLower(message)

	for _, r := range easyRules {
		if containsAny(lower, r.keywords) {
			return Result{HandledBy: HandledByAI, Reply: r.reply}
		}
	}

	if containsAny(lower, escalationSignals) || len([]rune(lower)) > MaxAutoLength {
		return Result{HandledBy: HandledByAI, Escalate: true}
	}

	return Result{HandledBy: HandledByAI, Reply: GenericReply}
}

// Topic reports which canned topic a message falls under, or "".
func Topic(message string) string {
	lower := strings.ToLower(message)
	for _, r := range easyRules {
		if containsAny(lower, r.keywords) {
			return r.topic
		}
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
