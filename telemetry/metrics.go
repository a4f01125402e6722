package telemetry

import "sync/atomic"

// Metrics counts simulation events. Safe for concurrent reads from HTTP
// handlers while the game loop writes.
type Metrics struct {
	Ticks              int64
	ProjectilesSpawned int64
	Picks              int64
	Drops              int64
	Selects            int64
	HoverEnters        int64
	Snapshots          int64
	ClientDrops        int64
	Clients            int64
}

func (m *Metrics) IncTick()       { atomic.AddInt64(&m.Ticks, 1) }
func (m *Metrics) IncProjectile() { atomic.AddInt64(&m.ProjectilesSpawned, 1) }
func (m *Metrics) IncPick()       { atomic.AddInt64(&m.Picks, 1) }
func (m *Metrics) IncDrop()       { atomic.AddInt64(&m.Drops, 1) }
func (m *Metrics) IncSelect()     { atomic.AddInt64(&m.Selects, 1) }
func (m *Metrics) IncHoverEnter() { atomic.AddInt64(&m.HoverEnters, 1) }
func (m *Metrics) IncSnapshot()   { atomic.AddInt64(&m.Snapshots, 1) }
func (m *Metrics) IncClientDrop() { atomic.AddInt64(&m.ClientDrops, 1) }
func (m *Metrics) AddClients(n int64) {
	atomic.AddInt64(&m.Clients, n)
}

// Snapshot returns a read-only copy for the /metrics endpoint.
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"ticks":               atomic.LoadInt64(&m.Ticks),
		"projectiles_spawned": atomic.LoadInt64(&m.ProjectilesSpawned),
		"picks":               atomic.LoadInt64(&m.Picks),
		"drops":               atomic.LoadInt64(&m.Drops),
		"selects":             atomic.LoadInt64(&m.Selects),
		"hover_enters":        atomic.LoadInt64(&m.HoverEnters),
		"snapshots":           atomic.LoadInt64(&m.Snapshots),
		"client_drops":        atomic.LoadInt64(&m.ClientDrops),
		"clients":             atomic.LoadInt64(&m.Clients),
	}
}
