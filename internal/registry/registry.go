// Package registry tracks live protocol resources — their client
// ownership, wire version, per-object user-data, and destruction hooks.
//
// The dispatch model is single-threaded cooperative (see internal/seat):
// all registry mutation happens on the thread servicing the compositor's
// event loop, so the registry itself carries no locks. Concurrency safety
// comes from that discipline, not from synchronization here.
package registry

import "github.com/bnema/waycore/internal/logger"

// ID identifies a protocol object (a wl_data_source, wl_data_device,
// wl_keyboard, wl_surface, or client connection) within a Registry.
type ID uint32

// Object is the registry's record for one live protocol resource.
type Object struct {
	id       ID
	clientID ID
	version  uint32
	alive    bool
	data     map[string]any
	hooks    []func(*Object)
}

// ID returns the object's identifier.
func (o *Object) ID() ID { return o.id }

// ClientID returns the identifier of the client that owns this object.
func (o *Object) ClientID() ID { return o.clientID }

// Version returns the protocol version this object was bound at.
func (o *Object) Version() uint32 { return o.version }

// IsAlive reports whether the object has not yet been destroyed.
func (o *Object) IsAlive() bool { return o != nil && o.alive }

// UserData returns the value stored under key, and whether it was present.
func (o *Object) UserData(key string) (any, bool) {
	v, ok := o.data[key]
	return v, ok
}

// SetUserData stores a value under key, replacing any previous value.
func (o *Object) SetUserData(key string, value any) {
	if o.data == nil {
		o.data = make(map[string]any)
	}
	o.data[key] = value
}

// OnDestroy registers a hook to run synchronously when the object is
// destroyed. Hooks run in registration order; there is no ordering
// guarantee relative to the destruction hooks of other objects.
func (o *Object) OnDestroy(hook func(*Object)) {
	o.hooks = append(o.hooks, hook)
}

// Registry is an arena of live protocol objects keyed by ID. Cross-object
// references (an offer's source, a device's selection offer) are IDs into
// a Registry, never pointers, so that a dead object is a lookup miss
// rather than a dangling reference.
type Registry struct {
	objects map[ID]*Object
	nextID  ID
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{objects: make(map[ID]*Object)}
}

// NewObject allocates a fresh ID and registers a live object for it, owned
// by clientID at the given protocol version.
func (r *Registry) NewObject(clientID ID, version uint32) *Object {
	r.nextID++
	obj := &Object{id: r.nextID, clientID: clientID, version: version, alive: true}
	r.objects[obj.id] = obj
	return obj
}

// Lookup returns the object for id, or nil if it was never registered or
// has since been destroyed and pruned.
func (r *Registry) Lookup(id ID) *Object {
	return r.objects[id]
}

// IsAlive reports whether id currently names a live object.
func (r *Registry) IsAlive(id ID) bool {
	obj := r.objects[id]
	return obj != nil && obj.alive
}

// SameClient reports whether two objects are owned by the same client.
// A dead or unknown object never matches, matching the spec's "dead
// resource" semantics: comparisons involving it fail closed.
func (r *Registry) SameClient(a, b ID) bool {
	oa, ob := r.objects[a], r.objects[b]
	if oa == nil || ob == nil || !oa.alive || !ob.alive {
		return false
	}
	return oa.clientID == ob.clientID
}

// Destroy marks the object dead, runs its destruction hooks synchronously,
// then prunes it from the arena.
func (r *Registry) Destroy(id ID) {
	obj := r.objects[id]
	if obj == nil {
		return
	}
	obj.alive = false
	for _, hook := range obj.hooks {
		hook(obj)
	}
	delete(r.objects, id)
	logger.Debugf("registry: destroyed object %d (client %d)", id, obj.clientID)
}

// DestroyClient destroys every object owned by clientID, e.g. on client
// disconnect. Hooks fire in arbitrary (map iteration) order, matching the
// "no ordering guarantee across destruction hooks of different objects"
// rule.
func (r *Registry) DestroyClient(clientID ID) {
	var dead []ID
	for id, obj := range r.objects {
		if obj.clientID == clientID {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		r.Destroy(id)
	}
}
