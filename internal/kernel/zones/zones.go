// Package zones implements the ordered containers from spec §2/§3: every
// zone is a sequence of object handles with movement primitives and
// listener hooks, and the invariant that an object appears in at most one
// zone at any instant.
package zones

import (
	"sync"

	"github.com/cardforge/rulesforge/internal/kernel/ids"
)

// Properties describes the fixed shape of one zone kind (spec §3: "A zone
// is an ordered sequence of object handles with properties (owner,
// is_public, is_ordered, may_contain_tokens)").
type Properties struct {
	Zone             ids.Zone
	IsPublic         bool
	IsOrdered        bool
	MayContainTokens bool
	Shared           bool // battlefield and stack are shared across players
}

// StandardProperties returns the canonical property set for each of the
// seven zone kinds.
func StandardProperties(z ids.Zone) Properties {
	switch z {
	case ids.ZoneLibrary:
		return Properties{Zone: z, IsPublic: false, IsOrdered: true, MayContainTokens: false}
	case ids.ZoneHand:
		return Properties{Zone: z, IsPublic: false, IsOrdered: false, MayContainTokens: false}
	case ids.ZoneBattlefield:
		return Properties{Zone: z, IsPublic: true, IsOrdered: false, MayContainTokens: true, Shared: true}
	case ids.ZoneGraveyard:
		return Properties{Zone: z, IsPublic: true, IsOrdered: true, MayContainTokens: false}
	case ids.ZoneStack:
		return Properties{Zone: z, IsPublic: true, IsOrdered: true, MayContainTokens: false, Shared: true}
	case ids.ZoneExile:
		return Properties{Zone: z, IsPublic: true, IsOrdered: false, MayContainTokens: false}
	case ids.ZoneCommand:
		return Properties{Zone: z, IsPublic: true, IsOrdered: false, MayContainTokens: false}
	default:
		return Properties{Zone: z}
	}
}

// MoveListener is notified after an object moves from one zone to
// another. Listeners must not mutate zone contents from inside the
// callback; they may only observe, matching the "no caller outside the
// core may retain a mutable reference across a call" resource rule
// (spec §5).
type MoveListener func(objectID ids.ObjectId, from, to ids.Zone)

// Container is one ordered zone belonging to a single owner (or shared,
// for battlefield/stack).
type Container struct {
	props    Properties
	owner    ids.PlayerSlot
	hasOwner bool
	objects  []ids.ObjectId
}

func newContainer(props Properties, owner ids.PlayerSlot, hasOwner bool) *Container {
	return &Container{props: props, owner: owner, hasOwner: hasOwner}
}

// Objects returns a defensive copy of the contained handles in order.
func (c *Container) Objects() []ids.ObjectId {
	out := make([]ids.ObjectId, len(c.objects))
	copy(out, c.objects)
	return out
}

// Len returns the number of objects currently in the container.
func (c *Container) Len() int { return len(c.objects) }

// Contains reports whether id is present.
func (c *Container) Contains(id ids.ObjectId) bool {
	for _, o := range c.objects {
		if o == id {
			return true
		}
	}
	return false
}

// Top returns the last (top-most) handle, used by the stack and by
// "top of library" queries. ok is false for an empty container.
func (c *Container) Top() (ids.ObjectId, bool) {
	if len(c.objects) == 0 {
		return 0, false
	}
	return c.objects[len(c.objects)-1], true
}

func (c *Container) push(id ids.ObjectId) {
	c.objects = append(c.objects, id)
}

func (c *Container) insertAt(index int, id ids.ObjectId) {
	if index < 0 {
		index = 0
	}
	if index > len(c.objects) {
		index = len(c.objects)
	}
	c.objects = append(c.objects, 0)
	copy(c.objects[index+1:], c.objects[index:])
	c.objects[index] = id
}

func (c *Container) remove(id ids.ObjectId) bool {
	for i, o := range c.objects {
		if o == id {
			c.objects = append(c.objects[:i], c.objects[i+1:]...)
			return true
		}
	}
	return false
}

// Set is the complete collection of zones for one game: the five
// per-player zone kinds duplicated per player, plus the shared
// battlefield and stack.
type Set struct {
	mu        sync.Mutex
	perPlayer map[ids.PlayerSlot]map[ids.Zone]*Container
	shared    map[ids.Zone]*Container
	location  map[ids.ObjectId]ids.Zone
	owner     map[ids.ObjectId]ids.PlayerSlot
	listeners []MoveListener
}

// NewSet builds an empty zone set for the two seats P1 and P2.
func NewSet() *Set {
	s := &Set{
		perPlayer: make(map[ids.PlayerSlot]map[ids.Zone]*Container),
		shared:    make(map[ids.Zone]*Container),
		location:  make(map[ids.ObjectId]ids.Zone),
		owner:     make(map[ids.ObjectId]ids.PlayerSlot),
	}
	for _, slot := range []ids.PlayerSlot{ids.P1, ids.P2} {
		s.perPlayer[slot] = make(map[ids.Zone]*Container)
		for _, z := range []ids.Zone{ids.ZoneLibrary, ids.ZoneHand, ids.ZoneGraveyard, ids.ZoneExile, ids.ZoneCommand} {
			s.perPlayer[slot][z] = newContainer(StandardProperties(z), slot, true)
		}
	}
	s.shared[ids.ZoneBattlefield] = newContainer(StandardProperties(ids.ZoneBattlefield), 0, false)
	s.shared[ids.ZoneStack] = newContainer(StandardProperties(ids.ZoneStack), 0, false)
	return s
}

// Subscribe registers a listener invoked after every successful move.
func (s *Set) Subscribe(l MoveListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// container resolves the Container for (owner, zone), owner is ignored
// for shared zones.
func (s *Set) container(owner ids.PlayerSlot, z ids.Zone) *Container {
	if z.Shared() {
		return s.shared[z]
	}
	return s.perPlayer[owner][z]
}

// Zone reports the current zone of an object, if it is tracked.
func (s *Set) Zone(id ids.ObjectId) (ids.Zone, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.location[id]
	return z, ok
}

// Enter places a brand-new object into a zone (used at game setup, and
// for token creation). It does not go through the move-listener path
// since there is no "from" zone.
func (s *Set) Enter(owner ids.PlayerSlot, z ids.Zone, id ids.ObjectId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.container(owner, z).push(id)
	s.location[id] = z
	s.owner[id] = owner
}

// Move transitions an object from its current zone to a new one,
// appending it to the destination's order. It is the sole primitive by
// which objects change zones; callers mint a new InstanceId separately
// (zones tracks ObjectId identity only - the distinction between
// ObjectId and InstanceId is the object package's concern).
func (s *Set) Move(id ids.ObjectId, to ids.Zone) bool {
	return s.moveWithOwner(id, to, 0, false)
}

// MoveTo is like Move but for a destination owned by a specific player
// (e.g. moving an opponent's permanent to its owner's graveyard).
func (s *Set) MoveTo(id ids.ObjectId, toOwner ids.PlayerSlot, to ids.Zone) bool {
	return s.moveWithOwner(id, to, toOwner, true)
}

func (s *Set) moveWithOwner(id ids.ObjectId, to ids.Zone, toOwner ids.PlayerSlot, explicitOwner bool) bool {
	s.mu.Lock()
	from, ok := s.location[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	fromOwner := s.owner[id]
	if !s.container(fromOwner, from).remove(id) {
		s.mu.Unlock()
		return false
	}
	owner := fromOwner
	if explicitOwner {
		owner = toOwner
	}
	s.container(owner, to).push(id)
	s.location[id] = to
	s.owner[id] = owner
	listeners := append([]MoveListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(id, from, to)
	}
	return true
}

// MoveToBottom is like MoveTo but inserts at the bottom of the destination
// rather than the top, for mulligan hands put on the bottom of the library.
func (s *Set) MoveToBottom(id ids.ObjectId, toOwner ids.PlayerSlot, to ids.Zone) bool {
	s.mu.Lock()
	from, ok := s.location[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	fromOwner := s.owner[id]
	if !s.container(fromOwner, from).remove(id) {
		s.mu.Unlock()
		return false
	}
	s.container(toOwner, to).insertAt(0, id)
	s.location[id] = to
	s.owner[id] = toOwner
	listeners := append([]MoveListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(id, from, to)
	}
	return true
}

// Remove deletes an object from the zone set entirely (used when a token
// ceases to exist per spec §3 invariant (iv)).
func (s *Set) Remove(id ids.ObjectId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if from, ok := s.location[id]; ok {
		owner := s.owner[id]
		s.container(owner, from).remove(id)
		delete(s.location, id)
		delete(s.owner, id)
	}
}

// Container exposes the container for direct reads (ordering queries,
// legality checks). Callers must treat the returned pointer as read-only.
func (s *Set) Container(owner ids.PlayerSlot, z ids.Zone) *Container {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.container(owner, z)
}

// Owner returns the zone-owner of a tracked object (the player slot whose
// per-player zone currently holds it; meaningless for shared zones).
func (s *Set) Owner(id ids.ObjectId) (ids.PlayerSlot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.owner[id]
	return owner, ok
}

// Shuffler is the narrow interface a zone shuffle needs: a Fisher-Yates
// driver over n elements. rng.Source satisfies this; zones takes the
// interface instead of importing rng directly so the randomness source
// stays the engine's one PRNG per spec §5, never a package-local one.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Shuffle randomizes a library's order in place using shuffler (spec §5:
// shuffling is one of the only two observable consequences of the
// engine's PRNG).
func (s *Set) Shuffle(owner ids.PlayerSlot, z ids.Zone, shuffler Shuffler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.container(owner, z)
	shuffler.Shuffle(len(c.objects), func(i, j int) {
		c.objects[i], c.objects[j] = c.objects[j], c.objects[i]
	})
}
