package render

import (
	"fmt"
	"runtime"

	"github.com/vulkan-go/vulkan"
)

// NewError wraps a non-success vulkan.Result, tagging it with the calling
// frame so queue and device failures point at the site that issued them.
func NewError(retVal vulkan.Result) error {
	if retVal == vulkan.Success {
		return nil
	}
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return fmt.Errorf("vulkan error: %w (%d)", vulkan.Error(retVal), retVal)
	}
	return fmt.Errorf("vulkan error: %w (%d) on %s",
		vulkan.Error(retVal), retVal, stackFrame(pc))
}

func IsError(retVal vulkan.Result) bool {
	return retVal != vulkan.Success
}

func OrPanic(err error, finalizers ...func()) {
	if err != nil {
		for _, fn := range finalizers {
			fn()
		}
		panic(err)
	}
}

func CheckError(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%+v", v)
	}
}

func stackFrame(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown frame"
	}
	file, line := fn.FileLine(pc)
	return fmt.Sprintf("%s (%s:%d)", fn.Name(), file, line)
}

// RecordError is a caller contract violation: an attempt to re-record a
// command buffer whose previous submission has not completed. The tick that
// trips it must be aborted, not retried.
type RecordError struct {
	Slot int
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("render: slot %d command buffer still in flight", e.Slot)
}

// AllocError is a failed GPU resource request. The tick that hit it is lost
// but no simulation state is; the next tick may retry once the allocator
// recovers.
type AllocError struct {
	Resource string
	Err      error
}

func (e *AllocError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("render: allocation failed: %s", e.Resource)
	}
	return fmt.Sprintf("render: allocation failed: %s: %v", e.Resource, e.Err)
}

func (e *AllocError) Unwrap() error {
	return e.Err
}
