package scheduler

import (
	"sort"
	"time"

	"schedd/pkg/types"
)

// Status builds the read-only status report.
func (s *Scheduler) Status() types.StatusResponse {
	s.mu.RLock()
	resp := types.StatusResponse{
		LimitMB:     s.budget.Limit(),
		UsedMB:      s.budget.Used(),
		LastContext: s.lastContext,
	}
	resp.ContextHistory = append([]string(nil), s.history...)
	resp.Residents = make([]types.ResidentStatus, 0, len(s.residents))
	for _, r := range s.residents {
		resp.Residents = append(resp.Residents, types.ResidentStatus{
			ID:           r.id,
			State:        string(r.state),
			Priority:     r.desc.Priority,
			MemoryCostMB: r.desc.MemoryCostMB,
			LastUsed:     r.lastUsed.Unix(),
			Inflight:     len(r.inflight),
		})
	}
	s.mu.RUnlock()
	sort.Slice(resp.Residents, func(i, j int) bool { return resp.Residents[i].ID < resp.Residents[j].ID })

	resp.LoadsTotal = s.loadsTotal.Load()
	resp.LoadFailuresTotal = s.loadFailuresTotal.Load()
	resp.EvictionsTotal = s.evictionsTotal.Load()
	resp.FallbacksTotal = s.fallbacksTotal.Load()
	resp.ServesTotal = s.servesTotal.Load()
	resp.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	resp.ServerTimeUnix = time.Now().Unix()
	return resp
}
