package ws

// Conn is the slice of a websocket connection the server writes to. The
// fiber websocket.Conn satisfies it; tests substitute an in-memory fake.
type Conn interface {
	WriteJSON(v interface{}) error
}
