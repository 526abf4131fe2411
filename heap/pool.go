package heap

// Pool is one frame of the autorelease pool stack: a weak backing vector
// holding the deferred objects and a link to the enclosing frame. Created
// by PoolPush, populated by Autorelease, drained and destroyed by PoolPop.
type Pool struct {
	backing Value // weak vector: holds entries without retaining them
	prev    *Pool
}

// PoolPush allocates a new pool frame and makes it the top of the stack.
// Every evaluation scope pushes a pool, evaluates, and pops it, so
// intermediate results not bound into a longer-lived structure are freed
// deterministically at scope exit.
func (h *Heap) PoolPush() *Pool {
	p := &Pool{
		backing: h.NewWeakVector(h.cfg.PoolCapacity),
		prev:    h.poolTop,
	}
	h.poolTop = p
	h.poolCount++
	h.stats.PoolPushes++
	if h.cfg.Trace {
		h.log.Debugf("pool push depth=%d", h.poolCount)
	}
	return p
}

// Autorelease appends v to the top pool without retaining it: ownership is
// assumed to already rest with the caller and transfers to the pool, which
// releases the entry at drain time. Returns v, count-unchanged.
//
// Immediates and singletons pass through untouched. Calling with no active
// pool is fatal: the object would leak with no pool to ever release it.
func (h *Heap) Autorelease(v Value) Value {
	if !v.IsHandle() || h.IsSingleton(v) {
		return v
	}
	if h.poolTop == nil {
		panic(&CorruptionError{Kind: NoActivePool, Handle: v.id()})
	}
	h.vectorPushInplace(h.poolTop.backing, v)
	h.stats.Autoreleases++
	if h.cfg.Trace {
		h.log.Debugf("autorelease id=%d rc=%d", v.id(), h.RefCount(v))
	}
	return v
}

// PoolPop drains and destroys a pool frame. Only the top of the stack can
// be popped; popping a non-top frame is a no-op, tolerating stale handles.
// Passing nil pops the current top. Entries are released in reverse
// insertion order, each slot cleared before its release to guard against
// reentrant double-release.
//
// A pop with no preceding push is a pool imbalance: the counter is clamped
// to keep the stack from corrupting further, but the error still surfaces.
func (h *Heap) PoolPop(p *Pool) {
	if h.poolCount <= 0 {
		h.poolCount = 0
		panic(&CorruptionError{Kind: PoolImbalance})
	}
	if p == nil {
		p = h.poolTop
	}
	if p == nil || p != h.poolTop {
		return
	}

	vec := h.object(p.backing).vec
	for i := vec.count - 1; i >= 0; i-- {
		entry := vec.elems[i]
		vec.elems[i] = Nil
		h.releasePooled(entry)
	}
	vec.count = 0

	h.poolTop = p.prev
	h.poolCount--
	h.stats.PoolPops++
	h.Release(p.backing)
	if h.cfg.Trace {
		h.log.Debugf("pool pop depth=%d", h.poolCount)
	}
}

// PoolCleanupAll pops pools until the stack is empty. Global teardown and
// the unwind path of error propagation both funnel through here: any
// failure that abandoned pool scopes without popping them must call this
// (or have used WithPool) or everything pooled leaks permanently.
func (h *Heap) PoolCleanupAll() {
	for h.poolTop != nil {
		h.PoolPop(h.poolTop)
	}
}

// WithPool runs fn inside a fresh pool scope, guaranteeing the pop on every
// exit path, panics included. This is the preferred way for evaluation
// scopes to bound the lifetime of their temporaries: the pop cannot be
// forgotten and the unwind contract holds by construction.
func (h *Heap) WithPool(fn func()) {
	p := h.PoolPush()
	defer h.PoolPop(p)
	fn()
}

// PoolDepth returns the number of active pool frames.
func (h *Heap) PoolDepth() int {
	return h.poolCount
}
