package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAcceptsRealAnswer(t *testing.T) {
	resp := AnswerResponse{
		BotResponse: "Minimum wages are set by the state government.",
		Status:      "answered",
	}

	assert.Equal(t, VerdictAccept, Classify(resp))
}

func TestClassifyEscalatesSentinel(t *testing.T) {
	resp := AnswerResponse{
		BotResponse: SentinelAskAdmin,
		Status:      "answered",
	}

	assert.Equal(t, VerdictEscalate, Classify(resp))
}

func TestClassifyEscalatesEmptyAnswer(t *testing.T) {
	assert.Equal(t, VerdictEscalate, Classify(AnswerResponse{BotResponse: ""}))
	assert.Equal(t, VerdictEscalate, Classify(AnswerResponse{BotResponse: "   \n\t"}))
}

func TestClassifyEscalatesUnansweredStatus(t *testing.T) {
	// The collaborator can flag a non-answer even when it returns text
	resp := AnswerResponse{
		BotResponse: "I am not sure about that.",
		Status:      StatusUnanswered,
	}

	assert.Equal(t, VerdictEscalate, Classify(resp))
}

func TestClassifyIgnoresSimilarityScore(t *testing.T) {
	// A low score on an accepted answer does not trigger escalation
	score := 0.01
	resp := AnswerResponse{
		BotResponse:     "Overtime is paid at twice the ordinary rate.",
		Status:          "answered",
		SimilarityScore: &score,
	}

	assert.Equal(t, VerdictAccept, Classify(resp))
}

func TestClassifySentinelIsCaseSensitive(t *testing.T) {
	// Only the exact sentinel escalates; a lookalike is a real answer
	resp := AnswerResponse{BotResponse: "ask_admin", Status: "answered"}

	assert.Equal(t, VerdictAccept, Classify(resp))
}
