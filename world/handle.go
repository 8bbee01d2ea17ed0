package world

import "strconv"

// Handle is a non-owning reference to an object held by a Manager. The low
// 32 bits are the slot and the high 32 bits the slot's generation, so a
// handle kept after its object was destroyed resolves to nothing.
type Handle uint64

type slotID uint32
type generation uint32

const slotIDBits = 32

func makeHandle(id slotID, gen generation) Handle {
	return Handle(uint64(gen)<<slotIDBits | uint64(id))
}

func (h Handle) id() slotID {
	return slotID(uint32(h))
}

func (h Handle) generation() generation {
	return generation(uint32(uint64(h) >> slotIDBits))
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// Valid reports whether h was ever issued. Slot ids start at 1.
func (h Handle) Valid() bool {
	return h.id() > 0
}

// slots maps handles to objects, recycling freed slots with a bumped
// generation.
type slots struct {
	objects []Object
	gen     []generation
	free    []slotID
}

func (s *slots) insert(obj Object) Handle {
	var id slotID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.objects = append(s.objects, nil)
		s.gen = append(s.gen, 0)
		id = slotID(len(s.objects))
	}
	s.objects[id-1] = obj
	return makeHandle(id, s.gen[id-1])
}

func (s *slots) release(h Handle) {
	if !s.alive(h) {
		return
	}
	idx := h.id() - 1
	s.objects[idx] = nil
	s.gen[idx]++
	s.free = append(s.free, h.id())
}

func (s *slots) get(h Handle) (Object, bool) {
	if !s.alive(h) {
		return nil, false
	}
	return s.objects[h.id()-1], true
}

func (s *slots) alive(h Handle) bool {
	id := h.id()
	if id == 0 || int(id) > len(s.gen) {
		return false
	}
	return s.gen[id-1] == h.generation() && s.objects[id-1] != nil
}

func (s *slots) reset() {
	s.objects = nil
	s.gen = nil
	s.free = nil
}
