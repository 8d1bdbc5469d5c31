package nlp

import (
	"strings"
)

// SentinelAskAdmin is the distinguished answer value the collaborator uses
// to signal "no automatic answer available"
const SentinelAskAdmin = "ASK_ADMIN"

// StatusUnanswered is the collaborator-side status marking a non-answer
const StatusUnanswered = "unanswered"

// Verdict is the escalation resolver's decision for one collaborator reply
type Verdict int

const (
	// VerdictAccept means the answer is returned to the user verbatim
	VerdictAccept Verdict = iota
	// VerdictEscalate means the query goes to the admin review queue
	VerdictEscalate
)

// Classify applies the single deterministic escalation rule: escalate iff
// the answer is the sentinel, empty, or flagged unanswered by the
// collaborator itself. No retries, no heuristic scoring; a similarity score
// on an accepted answer is recorded but never re-classified here.
func Classify(resp AnswerResponse) Verdict {
	answer := strings.TrimSpace(resp.BotResponse)
	if answer == "" || answer == SentinelAskAdmin {
		return VerdictEscalate
	}
	if resp.Status == StatusUnanswered {
		return VerdictEscalate
	}
	return VerdictAccept
}
