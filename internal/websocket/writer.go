package websocket

type Message struct {
	Type int
	Data []byte
}

// Writer queues outbound messages for a single connection. Writes are
// best-effort: a message queued for a connection that dies before the write
// loop drains it is dropped.
type Writer interface {
	WriteMessage(msg Message)
	Error(reason string)
}

type wsWriter struct {
	writer chan Message
	error  chan string
}

func (w wsWriter) WriteMessage(msg Message) {
	w.writer <- msg
}

func (w wsWriter) Error(reason string) {
	w.error <- reason
}
