package loco

import "github.com/san-kum/locosim/internal/geom"

// Head holds a head transform for hosts that track one. It is not animated.
type Head struct {
	initial     geom.Transform
	initialized bool
}

func (h *Head) Initialize(t geom.Transform) {
	h.initial = t
	h.initialized = true
}

func (h *Head) Transform() geom.Transform { return h.initial }

func (h *Head) Initialized() bool { return h.initialized }
