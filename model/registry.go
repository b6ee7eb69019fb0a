package model

import (
	"fmt"

	"github.com/rosbaglib/bagcore/errs"
)

// Registry tracks the set of connections declared in a bag, enforcing the
// id-contiguity and (topic, type)-uniqueness invariants. The writer uses it
// to assign new connection ids; the reader uses it to hold the set
// resolved from the manifest and storage backend.
type Registry struct {
	byID  []Connection         // index i holds the connection with ID i+1
	byKey map[ConnectionKey]int // ConnectionKey -> ID
}

// NewRegistry returns an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[ConnectionKey]int)}
}

// Add validates conn, assigns it the next contiguous id if ID is zero, and
// registers it. Registering the same (topic, type) pair twice is an error.
func (r *Registry) Add(conn Connection) (Connection, error) {
	if err := conn.Validate(); err != nil {
		return Connection{}, err
	}

	key := conn.Key()
	if _, exists := r.byKey[key]; exists {
		return Connection{}, fmt.Errorf("%w: topic=%q type=%q", errs.ErrConnectionAlreadyExists, conn.Topic, conn.Type)
	}

	if conn.ID == 0 {
		conn.ID = len(r.byID) + 1
	}

	r.byID = append(r.byID, conn)
	r.byKey[key] = conn.ID

	return conn, nil
}

// Replace overwrites the registry with conns wholesale, used when the
// reader rebuilds its connection list from the manifest or storage
// backend. Ids are taken as given; callers are responsible for keeping
// them contiguous when that matters.
func (r *Registry) Replace(conns []Connection) {
	r.byID = append([]Connection(nil), conns...)
	r.byKey = make(map[ConnectionKey]int, len(conns))

	for _, c := range conns {
		r.byKey[c.Key()] = c.ID
	}
}

// ByID returns the connection with the given id.
func (r *Registry) ByID(id int) (Connection, bool) {
	if id <= 0 || id > len(r.byID) {
		return Connection{}, false
	}

	c := r.byID[id-1]

	return c, c.ID == id
}

// ByTopicType returns the connection registered for (topic, typ), if any.
func (r *Registry) ByTopicType(topic, typ string) (Connection, bool) {
	id, ok := r.byKey[ConnectionKey{Topic: topic, Type: typ}]
	if !ok {
		return Connection{}, false
	}

	return r.ByID(id)
}

// All returns every registered connection, in id order.
func (r *Registry) All() []Connection {
	return append([]Connection(nil), r.byID...)
}

// IncrementCount bumps the observed message count for the connection with
// the given id, in place.
func (r *Registry) IncrementCount(id int) {
	if id <= 0 || id > len(r.byID) {
		return
	}

	r.byID[id-1].MessageCount++
}

// SetCount overwrites the observed message count for id, used when a
// backend's measured count is authoritative over the manifest's.
func (r *Registry) SetCount(id int, count uint64) {
	if id <= 0 || id > len(r.byID) {
		return
	}

	r.byID[id-1].MessageCount = count
}

// Len returns the number of registered connections.
func (r *Registry) Len() int { return len(r.byID) }
