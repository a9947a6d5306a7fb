// Package server exposes a small read-only HTTP introspection endpoint over
// a running synchronizer, in the same github.com/gocraft/web router style
// as the teacher's node_status handler. It answers "what is this
// synchronizer's internal state right now" for operators, the way the
// teacher's /node_status answered "what topologies are currently loaded".
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gocraft/web"

	"github.com/CursedRock17/message-filters/core"
	"github.com/CursedRock17/message-filters/msync"
)

// StatsProvider is a named synchronizer's stats snapshot, exposed as a plain
// interface{} so the registry can hold ExactSync and ApproxSync instances
// (which return different concrete Stats types) side by side.
type StatsProvider interface {
	Stats() interface{}
}

// exactProvider and approxProvider adapt msync.ExactSync.Stats() and
// msync.ApproxSync.Stats() - which each return their own concrete Stats
// struct - to the single StatsProvider interface the registry deals in.
type exactProvider struct{ s *msync.ExactSync }

func (p exactProvider) Stats() interface{} { return p.s.Stats() }

// NewExactProvider adapts an ExactSync for registration.
func NewExactProvider(s *msync.ExactSync) StatsProvider { return exactProvider{s} }

type approxProvider struct{ s *msync.ApproxSync }

func (p approxProvider) Stats() interface{} { return p.s.Stats() }

// NewApproxProvider adapts an ApproxSync for registration.
func NewApproxProvider(s *msync.ApproxSync) StatsProvider { return approxProvider{s} }

// Registry tracks the named synchronizers a status server reports on.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]StatsProvider
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{providers: map[string]StatsProvider{}}
}

// Register adds (or replaces) the synchronizer reported under name.
func (r *Registry) Register(name string, p StatsProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// Unregister removes name from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.providers, name)
}

func (r *Registry) snapshot() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]interface{}, len(r.providers))
	for name, p := range r.providers {
		out[name] = p.Stats()
	}
	return out
}

// APIContext is threaded through every request by gocraft/web's middleware
// chain, the same way the teacher's APIContext carries shared dependencies
// to each handler.
type APIContext struct {
	ctx *core.Context
	reg *Registry
}

type syncStatus struct {
	*APIContext
}

// NewRouter builds a web.Router serving GET /sync_status, reporting the
// stats of every synchronizer registered with reg.
func NewRouter(ctx *core.Context, reg *Registry) *web.Router {
	root := web.New(APIContext{ctx: ctx, reg: reg}).
		Middleware(func(c *APIContext, rw web.ResponseWriter, r *web.Request, next web.NextMiddlewareFunc) {
			c.ctx = ctx
			c.reg = reg
			next(rw, r)
		})

	sub := root.Subrouter(syncStatus{}, "")
	sub.Get("/sync_status", (*syncStatus).Show)
	return root
}

func (s *syncStatus) Show(rw web.ResponseWriter, req *web.Request) {
	snapshot := s.reg.snapshot()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(snapshot); err != nil {
		s.ctx.ErrLog(err).Error("failed to encode sync_status response")
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.Write(buf.Bytes())
}
