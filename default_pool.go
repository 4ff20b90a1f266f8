// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package weave

import "sync"

var (
	defaultPoolMu   sync.Mutex
	defaultPool     *Pool
	defaultPoolOnce sync.Once
)

// DefaultPool returns the process-wide lazily-initialized [Pool] used by the
// parallel package and by any caller that doesn't want to manage its own
// pool. It is started on first use and sized to hardware parallelism.
func DefaultPool() *Pool {
	defaultPoolOnce.Do(func() {
		defaultPoolMu.Lock()
		defer defaultPoolMu.Unlock()
		if defaultPool == nil {
			defaultPool = NewPool(0)
			defaultPool.Start()
		}
	})
	defaultPoolMu.Lock()
	defer defaultPoolMu.Unlock()
	return defaultPool
}

// InstallDefaultPool replaces the process-wide default pool, returning the
// one it replaced (or nil if none had been installed yet). Intended for
// tests that want a controlled pool in place of the lazily-started default;
// pair with [UninstallDefaultPool] to restore prior state.
func InstallDefaultPool(p *Pool) *Pool {
	defaultPoolOnce.Do(func() {})
	defaultPoolMu.Lock()
	defer defaultPoolMu.Unlock()
	prev := defaultPool
	defaultPool = p
	return prev
}

// UninstallDefaultPool stops (blocking) and clears the process-wide default
// pool, if one has been installed or lazily started. A subsequent call to
// [DefaultPool] will not re-create one automatically since the sync.Once
// guarding lazy creation has already fired; callers that uninstall should
// follow up with [InstallDefaultPool] if further default-pool use is
// expected.
func UninstallDefaultPool() {
	defaultPoolMu.Lock()
	p := defaultPool
	defaultPool = nil
	defaultPoolMu.Unlock()
	if p != nil {
		p.Stop(true)
	}
}
