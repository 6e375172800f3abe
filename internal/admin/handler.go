// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/partnerdesk/agreements-api/internal/core"
)

// EntityCounters exposes the aggregate queries behind the admin overview.
type EntityCounters struct {
	Users              func(ctx context.Context) (int, error)
	UsersByRole        func(ctx context.Context) (map[string]int, error)
	Banks              func(ctx context.Context) (int, error)
	Agreements         func(ctx context.Context) (int, error)
	AgreementsByStatus func(ctx context.Context) (map[string]int, error)
}

type Handler struct {
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	dbPing     func(ctx context.Context) error
	redisPing  func(ctx context.Context) error
	counters   EntityCounters
}

type HandlerConfig struct {
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	DBPing     func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
	Counters   EntityCounters
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		dbPing:     cfg.DBPing,
		redisPing:  cfg.RedisPing,
		counters:   cfg.Counters,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.GetOverview)
		r.Get("/entities", h.GetEntityStats)
		r.Get("/db", h.GetDatabaseStats)
		r.Get("/redis", h.GetRedisStats)
		r.Get("/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entities, err := h.collectEntityStats(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	dbHealthy := true
	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			dbHealthy = false
		}
	}

	redisHealthy := true
	if h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			redisHealthy = false
		}
	}

	response := OverviewResponse{
		Entities: entities,
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: collectRuntimeStats(),
	}

	core.OK(w, "system stats retrieved", response)
}

func (h *Handler) GetEntityStats(w http.ResponseWriter, r *http.Request) {
	entities, err := h.collectEntityStats(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, "entity stats retrieved", entities)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, "database stats retrieved", h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, "redis stats retrieved", h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, "runtime stats retrieved", collectRuntimeStats())
}

func (h *Handler) collectEntityStats(
	ctx context.Context,
) (EntityStats, error) {
	var stats EntityStats

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		stats.Users, err = h.counters.Users(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.UsersByRole, err = h.counters.UsersByRole(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Banks, err = h.counters.Banks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Agreements, err = h.counters.Agreements(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.AgreementsByStatus, err = h.counters.AgreementsByStatus(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return EntityStats{}, err
	}

	return stats, nil
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

func collectRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

type OverviewResponse struct {
	Entities EntityStats    `json:"entities"`
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type EntityStats struct {
	Users              int            `json:"users"`
	UsersByRole        map[string]int `json:"users_by_role"`
	Banks              int            `json:"banks"`
	Agreements         int            `json:"agreements"`
	AgreementsByStatus map[string]int `json:"agreements_by_status"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64  `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
