package relay

// StreamEvent is one logical event on the outbound SSE stream. It is the
// gateway's own wire vocabulary, independent of whatever the upstream
// provider emits. Exactly one of the four types is set via the Type field:
//
//	meta  - mode, model and trace id, emitted before the upstream call resolves
//	chunk - an incremental text delta
//	error - a user-presentable failure, always followed by done
//	done  - stream terminator; nothing is emitted after it
type StreamEvent struct {
	Type    string `json:"type"`
	Mode    string `json:"mode,omitempty"`
	Model   string `json:"model,omitempty"`
	Delta   string `json:"delta,omitempty"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

func metaEvent(mode, model, traceID string) StreamEvent {
	return StreamEvent{Type: "meta", Mode: mode, Model: model, TraceID: traceID}
}

func chunkEvent(delta string) StreamEvent {
	return StreamEvent{Type: "chunk", Delta: delta}
}

func errorEvent(message, detail, traceID string) StreamEvent {
	return StreamEvent{Type: "error", Message: message, Detail: detail, TraceID: traceID}
}

func doneEvent() StreamEvent {
	return StreamEvent{Type: "done"}
}
