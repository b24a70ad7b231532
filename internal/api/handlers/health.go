package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/maxesser1776/mcf-dashboard/internal/pipeline"
	"github.com/maxesser1776/mcf-dashboard/internal/store"
)

// HealthHandler reports dashboard health and processed-file freshness.
type HealthHandler struct {
	store *store.CSVStore
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Topics    map[string]TopicStatus `json:"topics"`
	Memory    *MemoryStats           `json:"memory,omitempty"`
}

// TopicStatus describes one processed file.
type TopicStatus struct {
	Present   bool       `json:"present"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	SizeBytes int64      `json:"size_bytes,omitempty"`
}

// MemoryStats carries host memory usage, useful when the refresh job and
// the dashboard share a small box.
type MemoryStats struct {
	TotalBytes  uint64  `json:"total_bytes"`
	UsedBytes   uint64  `json:"used_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

func NewHealthHandler(st *store.CSVStore) *HealthHandler {
	return &HealthHandler{store: st}
}

// Check reports overall status. The dashboard stays "ok" as long as it can
// serve; topics with no processed file are reported but are not an error,
// they render as absent panels.
func (h *HealthHandler) Check(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Topics:    make(map[string]TopicStatus),
	}

	present := 0
	for _, topic := range pipeline.Topics() {
		info, err := h.store.Stat(topic.Name)
		if err != nil {
			response.Topics[topic.Name] = TopicStatus{Present: false}
			continue
		}
		modTime := info.ModTime().UTC()
		response.Topics[topic.Name] = TopicStatus{
			Present:   true,
			UpdatedAt: &modTime,
			SizeBytes: info.Size(),
		}
		present++
	}
	if present == 0 {
		response.Status = "degraded"
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		response.Memory = &MemoryStats{
			TotalBytes:  vm.Total,
			UsedBytes:   vm.Used,
			UsedPercent: vm.UsedPercent,
		}
	}

	status := http.StatusOK
	if response.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}
