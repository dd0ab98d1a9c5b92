package kernel

import "runtime/debug"

// PanicInfo describes a recovered task panic.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

// OnPanic sets the handler for the first task panic on k. Later panics only
// end their own task. The handler runs on the panicking task's goroutine and
// must not panic.
func (k *Kernel) OnPanic(fn func(PanicInfo)) {
	k.panicMu.Lock()
	k.onPanic = fn
	k.panicMu.Unlock()
}

// Panicked reports whether a task on k has panicked.
func (k *Kernel) Panicked() bool {
	return k.panicked.Load()
}

// recoverTask is deferred by runTask.
func (k *Kernel) recoverTask(id TaskID) {
	v := recover()
	if v == nil || !k.panicked.CompareAndSwap(false, true) {
		return
	}
	k.panicMu.Lock()
	fn := k.onPanic
	k.panicMu.Unlock()
	if fn != nil {
		fn(PanicInfo{TaskID: id, Value: v, Stack: debug.Stack()})
	}
}
