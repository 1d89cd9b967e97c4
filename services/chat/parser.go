package chat

import (
	"encoding/json"
	"strings"
)

// Wire-format markers the assistant appends after the user-visible text.
// None of these may ever reach the visitor.
const (
	dataStartMarker = "#DATA:"
	dataEndMarker   = "#ENDDATA"
	forwardMarker   = "#FORWARD_TELEGRAM#"
)

// DefaultMemory is the empty structured record a fresh session starts with.
const DefaultMemory = `{"name":"","email":"","phone":"","location":"","artist":"","priceRange":"","description":"","date":"","alreadyGreeted":false}`

type blockStatus int

const (
	blockNotFound blockStatus = iota
	blockFound
	blockMalformed
)

// ParseResult is the outcome of splitting a raw assistant reply.
type ParseResult struct {
	// VisibleText is the reply with the data block and completion marker
	// removed, trimmed of surrounding whitespace.
	VisibleText string
	// Memory is the updated serialized record, or the previous one when the
	// reply carried no parseable block.
	Memory string
	// ShouldHandoff reports whether the completion marker was present.
	ShouldHandoff bool
}

// ParseReply scans a raw assistant reply for the trailing data block and the
// completion marker. A malformed block never corrupts memory: the previous
// record is retained and the block is still excised on a best-effort basis.
func ParseReply(raw, previousMemory string) ParseResult {
	body, cleaned, markerInBlock, status := extractDataBlock(raw)

	memory := previousMemory
	if status == blockFound {
		memory = body
	}

	shouldHandoff := markerInBlock
	if strings.Contains(cleaned, forwardMarker) {
		shouldHandoff = true
		cleaned = strings.ReplaceAll(cleaned, forwardMarker, "")
	}

	return ParseResult{
		VisibleText:   strings.TrimSpace(cleaned),
		Memory:        memory,
		ShouldHandoff: shouldHandoff,
	}
}

// extractDataBlock locates the marker-delimited region and splits it off.
// It returns the block body (without markers), the reply with the whole
// region removed, whether the completion marker appeared inside the region,
// and the match status. It never fails on malformed input.
func extractDataBlock(raw string) (body, cleaned string, markerInBlock bool, status blockStatus) {
	start := strings.Index(raw, dataStartMarker)
	if start < 0 {
		return "", raw, false, blockNotFound
	}

	rest := raw[start+len(dataStartMarker):]
	end := strings.Index(rest, dataEndMarker)
	if end < 0 {
		// No closing marker. The block is contracted to trail the visible
		// text, so excise from the start marker to the end of the reply.
		markerInBlock = strings.Contains(rest, forwardMarker)
		return "", raw[:start], markerInBlock, blockMalformed
	}

	body = rest[:end]
	cleaned = raw[:start] + rest[end+len(dataEndMarker):]

	// The model sometimes drops the completion marker just before #ENDDATA
	// instead of after it. Strip it from the body so it neither leaks nor
	// breaks the record parse.
	if strings.Contains(body, forwardMarker) {
		markerInBlock = true
		body = strings.ReplaceAll(body, forwardMarker, "")
	}
	body = strings.TrimSpace(body)

	if !isStructuredRecord(body) {
		return "", cleaned, markerInBlock, blockMalformed
	}
	return body, cleaned, markerInBlock, blockFound
}

// isStructuredRecord reports whether s is syntactically a JSON object. Field
// contents are deliberately not validated; unknown or missing fields are
// tolerated.
func isStructuredRecord(s string) bool {
	var record map[string]any
	if err := json.Unmarshal([]byte(s), &record); err != nil {
		return false
	}
	return record != nil
}
