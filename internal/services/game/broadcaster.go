package game

import "github.com/mcoot/crazyroad-go/internal/model"

// Broadcaster is the outbound side of the real-time channel. Implementations
// must not block: the controller calls these while holding the simulation
// lock.
type Broadcaster interface {
	// Broadcast sends an event to every connected client.
	Broadcast(event string, payload any)

	// BroadcastExcept sends an event to every client but one.
	BroadcastExcept(exclude model.ConnID, event string, payload any)

	// SendTo sends an event to a single client. No-op if the client is gone.
	SendTo(id model.ConnID, event string, payload any)
}
