package sim

import (
	"sync"

	"github.com/san-kum/locosim/internal/loco"
)

// StatusPool recycles foot status buffers between frames and runs.
type StatusPool struct {
	pool sync.Pool
}

func NewStatusPool() *StatusPool {
	return &StatusPool{
		pool: sync.Pool{
			New: func() interface{} {
				buf := make([]loco.FootStatus, 0, 8)
				return &buf
			},
		},
	}
}

func (p *StatusPool) Get() *[]loco.FootStatus {
	return p.pool.Get().(*[]loco.FootStatus)
}

func (p *StatusPool) Put(buf *[]loco.FootStatus) {
	*buf = (*buf)[:0]
	p.pool.Put(buf)
}

var statuses = NewStatusPool()
