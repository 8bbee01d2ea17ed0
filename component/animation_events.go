package component

import "sort"

// FrameEventType names a declarative frame event, as written in prefab files.
type FrameEventType string

const (
	FrameEventSound FrameEventType = "sound"
	FrameEventSpawn FrameEventType = "spawn"
	FrameEventEmit  FrameEventType = "emit"
)

// FrameEvent is what a prefab attaches to an animation frame.
type FrameEvent struct {
	Type    FrameEventType
	Payload string
}

// FrameEventHandler handles events raised by bound animation frames.
type FrameEventHandler func(anim string, frame int, evt FrameEvent)

// FrameEventEmitter dispatches frame events to handlers.
type FrameEventEmitter struct {
	Handlers []FrameEventHandler
}

// Emit sends a frame event to all handlers.
func (e *FrameEventEmitter) Emit(anim string, frame int, evt FrameEvent) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(anim, frame, evt)
		}
	}
}

// FrameEventMap stores per-frame events.
type FrameEventMap struct {
	Frames map[int][]FrameEvent
}

func NewFrameEventMap() *FrameEventMap {
	return &FrameEventMap{Frames: make(map[int][]FrameEvent)}
}

// Add adds an event for a frame.
func (m *FrameEventMap) Add(frame int, evt FrameEvent) {
	if m == nil || frame < 0 {
		return
	}
	if m.Frames == nil {
		m.Frames = make(map[int][]FrameEvent)
	}
	m.Frames[frame] = append(m.Frames[frame], evt)
}

// BindFrameEvents registers one player callback per frame of events that
// forwards them to emitter. Frames are bound in ascending order.
func BindFrameEvents(p *AnimationPlayer, name string, events *FrameEventMap, emitter *FrameEventEmitter) error {
	if p == nil || events == nil || len(events.Frames) == 0 {
		return nil
	}
	idx := make([]int, 0, len(events.Frames))
	for frame := range events.Frames {
		idx = append(idx, frame)
	}
	sort.Ints(idx)

	for _, frame := range idx {
		copied := append([]FrameEvent(nil), events.Frames[frame]...)
		err := p.AddFrameEvent(name, frame, func(key string, frameIdx int) {
			for _, evt := range copied {
				emitter.Emit(key, frameIdx, evt)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}
