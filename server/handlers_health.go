package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/jrsteele09/go-identity-gateway/internal/config"
)

type healthResponse struct {
	Status      string         `json:"status"`
	Timestamp   float64        `json:"timestamp"`
	Version     string         `json:"version"`
	Environment string         `json:"environment"`
	Uptime      float64        `json:"uptime"`
	SystemInfo  map[string]any `json:"system_info"`
}

type detailedHealthResponse struct {
	healthResponse
	Directory   string         `json:"directory"`
	MemoryUsage map[string]any `json:"memory_usage"`
	Goroutines  int            `json:"goroutines"`
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.health())
	}
}

func (s *Server) DetailedHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		directoryStatus := "not_configured"
		if s.config.Directory.Enabled {
			directoryStatus = "configured"
		}

		writeJSON(w, http.StatusOK, detailedHealthResponse{
			healthResponse: s.health(),
			Directory:      directoryStatus,
			MemoryUsage: map[string]any{
				"alloc":        mem.Alloc,
				"total_alloc":  mem.TotalAlloc,
				"sys":          mem.Sys,
				"heap_objects": mem.HeapObjects,
				"num_gc":       mem.NumGC,
			},
			Goroutines: runtime.NumGoroutine(),
		})
	}
}

func (s *Server) PingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
	}
}

func (s *Server) health() healthResponse {
	now := time.Now()
	return healthResponse{
		Status:      "healthy",
		Timestamp:   float64(now.UnixNano()) / float64(time.Second),
		Version:     config.Version,
		Environment: s.env,
		Uptime:      now.Sub(s.startTime).Seconds(),
		SystemInfo: map[string]any{
			"platform":     runtime.GOOS,
			"architecture": runtime.GOARCH,
			"go_version":   runtime.Version(),
			"cpus":         runtime.NumCPU(),
		},
	}
}
