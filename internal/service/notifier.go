package service

// Notifier pushes a real-time event to every open connection of a user.
// The WebSocket hub implements it; tests use a recording fake.
type Notifier interface {
	Push(userID string, eventType string, payload interface{})
}
