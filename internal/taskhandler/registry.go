package taskhandler

import (
	"sync/atomic"

	"roboone/internal/datastructures"
)

// record is what the registry keeps per in-flight task: just enough to
// route its eventual indication (§4.5).
type record struct {
	handle           uint32
	headerPresent    bool
	sourceServerPort uint16
	ip               string
}

// Registry is the Task Handler's in-flight task table, dual-purposed as
// both the handle allocator and the originator-routing lookup — the same
// role the teacher's dual-indexed robot registry plays for live
// connections (see DESIGN.md).
type Registry struct {
	tasks   *datastructures.SafeMap[uint32, record]
	counter atomic.Uint32
}

func NewRegistry() *Registry {
	return &Registry{tasks: datastructures.NewSafeMap[uint32, record]()}
}

// Accept assigns a fresh handle to a task and stores its routing
// information, returning the handle to embed in the TASK_HANDLER_TASK_IND
// sent later.
func (r *Registry) Accept(req *NewTaskReq) uint32 {
	handle := r.counter.Add(1)
	rec := record{handle: handle}
	if req.HeaderPresent {
		rec.headerPresent = true
		rec.sourceServerPort = req.Header.SourceServerPort
		if req.Header.IPPresent {
			rec.ip = req.Header.IP
		}
	}
	r.tasks.Set(handle, rec)
	return handle
}

// Complete removes a task from the in-flight table and reports where (if
// anywhere) its indication should be sent.
func (r *Registry) Complete(handle uint32) (sourceServerPort uint16, ip string, shouldNotify bool) {
	rec, ok := r.tasks.Pop(handle)
	if !ok || !rec.headerPresent {
		return 0, "", false
	}
	ip = rec.ip
	if ip == "" {
		ip = "127.0.0.1"
	}
	return rec.sourceServerPort, ip, true
}

// Len reports the number of in-flight tasks (used by the debug surface,
// §2.2).
func (r *Registry) Len() int { return r.tasks.Len() }
