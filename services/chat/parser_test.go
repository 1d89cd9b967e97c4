package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greetedMemory = `{"name":"","email":"","phone":"","location":"","artist":"","priceRange":"","description":"","date":"","alreadyGreeted":true}`

func TestParseReplyNoBlock(t *testing.T) {
	res := ParseReply("  Hello! How can I help you today?  \n", DefaultMemory)

	assert.Equal(t, "Hello! How can I help you today?", res.VisibleText)
	assert.Equal(t, DefaultMemory, res.Memory)
	assert.False(t, res.ShouldHandoff)
}

func TestParseReplyExtractsBlock(t *testing.T) {
	raw := "Hi there!\n\n#DATA: " + greetedMemory + " #ENDDATA"

	res := ParseReply(raw, DefaultMemory)

	assert.Equal(t, "Hi there!", res.VisibleText)
	assert.Equal(t, greetedMemory, res.Memory)
	assert.False(t, res.ShouldHandoff)
}

func TestParseReplyMalformedBlockRetainsMemory(t *testing.T) {
	raw := "Sounds great!\n\n#DATA: {\"name\": oops not json} #ENDDATA"

	res := ParseReply(raw, greetedMemory)

	assert.Equal(t, "Sounds great!", res.VisibleText)
	assert.Equal(t, greetedMemory, res.Memory, "previous memory must survive a malformed block")
	assert.False(t, res.ShouldHandoff)
}

func TestParseReplyMissingEndMarker(t *testing.T) {
	raw := "See you soon!\n\n#DATA: {\"name\":\"Alex\""

	res := ParseReply(raw, greetedMemory)

	assert.Equal(t, "See you soon!", res.VisibleText)
	assert.Equal(t, greetedMemory, res.Memory)
	assert.NotContains(t, res.VisibleText, "#DATA")
}

func TestParseReplyHandoffAfterEndMarker(t *testing.T) {
	raw := "All set, forwarding your details now!\n\n#DATA: " + greetedMemory + " #ENDDATA #FORWARD_TELEGRAM#"

	res := ParseReply(raw, DefaultMemory)

	assert.Equal(t, "All set, forwarding your details now!", res.VisibleText)
	assert.Equal(t, greetedMemory, res.Memory)
	assert.True(t, res.ShouldHandoff)
}

func TestParseReplyHandoffInsideBlock(t *testing.T) {
	// The model occasionally drops the marker just before #ENDDATA.
	raw := "Perfect, you're booked in!\n\n#DATA: " + greetedMemory + " #FORWARD_TELEGRAM# #ENDDATA"

	res := ParseReply(raw, DefaultMemory)

	assert.Equal(t, "Perfect, you're booked in!", res.VisibleText)
	assert.Equal(t, greetedMemory, res.Memory)
	assert.True(t, res.ShouldHandoff)
}

func TestParseReplyHandoffWithoutBlock(t *testing.T) {
	res := ParseReply("Forwarding now! #FORWARD_TELEGRAM#", greetedMemory)

	assert.Equal(t, "Forwarding now!", res.VisibleText)
	assert.Equal(t, greetedMemory, res.Memory)
	assert.True(t, res.ShouldHandoff)
}

func TestParseReplyMarkersNeverLeak(t *testing.T) {
	replies := []string{
		"Text.\n\n#DATA: " + greetedMemory + " #ENDDATA",
		"Text.\n\n#DATA: " + greetedMemory + " #ENDDATA #FORWARD_TELEGRAM#",
		"Text.\n\n#DATA: " + greetedMemory + " #FORWARD_TELEGRAM# #ENDDATA",
		"Text.\n\n#DATA: {broken #ENDDATA",
		"Text.\n\n#DATA: {broken",
		"Text. #FORWARD_TELEGRAM#",
	}
	for _, raw := range replies {
		res := ParseReply(raw, DefaultMemory)
		assert.NotContains(t, res.VisibleText, "#DATA", "raw: %q", raw)
		assert.NotContains(t, res.VisibleText, "#ENDDATA", "raw: %q", raw)
		assert.NotContains(t, res.VisibleText, "#FORWARD_TELEGRAM#", "raw: %q", raw)
		assert.NotContains(t, res.VisibleText, "{", "raw: %q", raw)
	}
}

func TestParseReplyToleratesUnknownFields(t *testing.T) {
	raw := "Noted.\n\n#DATA: {\"name\":\"Alex\",\"favoriteColor\":\"teal\"} #ENDDATA"

	res := ParseReply(raw, DefaultMemory)

	require.Equal(t, `{"name":"Alex","favoriteColor":"teal"}`, res.Memory)
	m, err := DecodeMemory(res.Memory)
	require.NoError(t, err)
	assert.Equal(t, "Alex", m.Name)
}

func TestDefaultMemoryIsStructuredRecord(t *testing.T) {
	assert.True(t, isStructuredRecord(DefaultMemory))
	assert.False(t, isStructuredRecord("null"))
	assert.False(t, isStructuredRecord("[1,2]"), "arrays are not records")
	assert.False(t, isStructuredRecord("not json"))
}
