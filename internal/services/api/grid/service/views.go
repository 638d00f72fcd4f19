package service

import (
	"sync"
	"time"

	"dcbadmin/internal/core/gridquery"
)

// views keeps the live controller of each open grid so overlapping loads of one view
// supersede each other; idle views fall back to the cached page
type views struct {
	mu   sync.Mutex
	m    map[string]*view
	idle time.Duration
	now  func() time.Time
}

type view struct {
	c    *gridquery.Controller
	used time.Time
}

func newViews(idle time.Duration) *views {
	return &views{m: map[string]*view{}, idle: idle, now: time.Now}
}

// get returns the live controller for key or builds one with mk
func (v *views) get(key string, mk func() *gridquery.Controller) *gridquery.Controller {
	v.mu.Lock()
	defer v.mu.Unlock()
	now := v.now()
	v.sweep(now)
	if w, ok := v.m[key]; ok {
		w.used = now
		return w.c
	}
	c := mk()
	v.m[key] = &view{c: c, used: now}
	return c
}

func (v *views) drop(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.m, key)
}

// sweep evicts idle views; callers hold mu
func (v *views) sweep(now time.Time) {
	for k, w := range v.m {
		if now.Sub(w.used) > v.idle {
			delete(v.m, k)
		}
	}
}

func (v *views) len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.m)
}
