// Package debounce 提供可取消的尾随防抖定时器。
//
// 每次 Schedule 都会取消尚未触发的上一次调度并重新计时，
// 静默期内只有最后一次调度会真正执行。
package debounce

import (
	"sync"
	"time"
)

// Timer 可停止的定时器（*time.Timer 天然满足）
type Timer interface {
	Stop() bool
}

// AfterFunc 在 d 之后于独立 goroutine 中执行 f
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option Debouncer 可选项
type Option func(*Debouncer)

// WithAfterFunc 替换底层计时实现，测试中用于注入假时钟
func WithAfterFunc(fn AfterFunc) Option {
	return func(d *Debouncer) { d.after = fn }
}

// Debouncer 尾随防抖器
type Debouncer struct {
	mu      sync.Mutex
	quiet   time.Duration
	after   AfterFunc
	timer   Timer
	pending func()
	gen     uint64
}

// New 创建 Debouncer
func New(quiet time.Duration, opts ...Option) *Debouncer {
	d := &Debouncer{quiet: quiet, after: realAfterFunc}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Schedule 取消已挂起的调用并在静默期后执行 f
func (d *Debouncer) Schedule(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = f
	d.timer = d.after(d.quiet, func() { d.fire(gen) })
}

// fire 定时器到期回调；代际不匹配说明已被新调度替换，直接丢弃
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	f := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	f()
}

// Cancel 丢弃挂起的调用，返回是否确有调用被丢弃
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending == nil {
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.pending = nil
	d.timer = nil
	return true
}

// Flush 立即执行挂起的调用（用于优雅关闭），返回是否执行
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	f := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	f()
	return true
}

// Pending 是否存在尚未执行的调用
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
