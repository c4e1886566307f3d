// internal/room/registry.go
package room

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the per-room publish/subscribe layer: clients join rooms by
// code, and messages sent to a room reach every currently-joined client.
// Broadcasts within one room are issued in call order under a single mutex.
type Registry struct {
	mu      sync.Mutex
	rooms   map[string]map[uuid.UUID]*Client
	clients map[uuid.UUID]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:   make(map[string]map[uuid.UUID]*Client),
		clients: make(map[uuid.UUID]*Client),
	}
}

// Register tracks a client so SendTo can reach it before it joins any room.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID] = c
}

// Unregister drops a client from every room and from the direct-send index.
func (r *Registry) Unregister(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, connID)
	for code, members := range r.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, code)
		}
	}
}

// Join subscribes a client to a room. Joining twice is a no-op.
func (r *Registry) Join(code string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.rooms[code]
	if !ok {
		members = make(map[uuid.UUID]*Client)
		r.rooms[code] = members
	}
	members[c.ID] = c
	r.clients[c.ID] = c
}

// Leave removes a client from one room without closing its connection.
func (r *Registry) Leave(code string, connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if members, ok := r.rooms[code]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, code)
		}
	}
}

// Broadcast sends msg to every client joined to the room.
func (r *Registry) Broadcast(code string, msg map[string]interface{}) {
	r.mu.Lock()
	targets := r.membersUnsafe(code, uuid.Nil)
	r.mu.Unlock()
	for _, c := range targets {
		c.Write(msg)
	}
}

// BroadcastExcept sends msg to every client in the room except one
// connection, typically the sender.
func (r *Registry) BroadcastExcept(code string, except uuid.UUID, msg map[string]interface{}) {
	r.mu.Lock()
	targets := r.membersUnsafe(code, except)
	r.mu.Unlock()
	for _, c := range targets {
		c.Write(msg)
	}
}

// SendTo delivers msg to a single connection. Reports whether the connection
// is still registered.
func (r *Registry) SendTo(connID uuid.UUID, msg map[string]interface{}) bool {
	r.mu.Lock()
	c, ok := r.clients[connID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	c.Write(msg)
	return true
}

// membersUnsafe snapshots a room's clients so writes happen outside the lock.
// Assumes the lock is held.
func (r *Registry) membersUnsafe(code string, except uuid.UUID) []*Client {
	members := r.rooms[code]
	out := make([]*Client, 0, len(members))
	for id, c := range members {
		if id == except {
			continue
		}
		out = append(out, c)
	}
	return out
}
