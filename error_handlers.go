package workerpool

import (
	lg "github.com/Andrej220/go-utils/zlog"
)

// reportInternalError reports an internal pool error.
//
// Internal errors are non-job-related failures such as
// worker setup issues or unexpected runtime conditions.
func (p *Pool[M]) reportInternalError(e error) {
	lg.FromContext(p.opts.Ctx).Warn("pool internal error", lg.Any("error", e))
	p.callHandler(p.opts.OnInternalError, e)
}

// reportJobError reports an error returned by a task or
// produced by panic recovery.
//
// Job errors do not stop pool execution.
func (p *Pool[M]) reportJobError(err error) {
	p.callHandler(p.opts.OnJobError, err)
}

// callHandler runs a user handler. A panicking handler is logged and
// dropped so it cannot escape into the worker loop.
func (p *Pool[M]) callHandler(h func(error), err error) {
	if h == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			lg.FromContext(p.opts.Ctx).Error("error handler panicked",
				lg.Any("panic", r),
				lg.Any("error", err),
			)
		}
	}()
	h(err)
}
