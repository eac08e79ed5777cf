package sampler

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// ResolverTTL is how long a resolved command line stays fresh.
const ResolverTTL = 5 * time.Second

type cacheEntry struct {
	cmdline  string
	fetched  time.Time
	resolved bool // false when the lookup itself failed
}

// CmdlineResolver fetches command lines per pid for platforms where the
// lister leaves them empty, caching results with a short TTL so a busy
// poll loop does not hammer the OS.
type CmdlineResolver struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[int32]cacheEntry
	now     func() time.Time
	lookup  func(ctx context.Context, pid int32) (string, error)
}

// NewCmdlineResolver creates a resolver backed by gopsutil.
func NewCmdlineResolver() *CmdlineResolver {
	return &CmdlineResolver{
		ttl:     ResolverTTL,
		entries: make(map[int32]cacheEntry),
		now:     time.Now,
		lookup: func(ctx context.Context, pid int32) (string, error) {
			p, err := process.NewProcessWithContext(ctx, pid)
			if err != nil {
				return "", err
			}
			return p.CmdlineWithContext(ctx)
		},
	}
}

// Resolve returns the command line for pid, or "" when it cannot be
// read. Failed lookups are cached for the TTL as well so a denied pid
// is not retried every tick.
func (r *CmdlineResolver) Resolve(ctx context.Context, pid int32) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if e, ok := r.entries[pid]; ok && now.Sub(e.fetched) < r.ttl {
		return e.cmdline
	}
	cmdline, err := r.lookup(ctx, pid)
	e := cacheEntry{cmdline: cmdline, fetched: now, resolved: err == nil}
	if err != nil {
		e.cmdline = ""
	}
	r.entries[pid] = e
	return e.cmdline
}

// Forget drops the cache entry for a pid that disappeared.
func (r *CmdlineResolver) Forget(pid int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, pid)
}
