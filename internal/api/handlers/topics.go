package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/maxesser1776/mcf-dashboard/internal/pipeline"
	"github.com/maxesser1776/mcf-dashboard/internal/store"
	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

// FrameLoader reads processed frames by topic name.
type FrameLoader interface {
	Load(name string) (*timeseries.Frame, error)
}

// TopicHandler serves processed-file contents as JSON for the chart panels.
type TopicHandler struct {
	store  FrameLoader
	logger *logrus.Logger
}

// TopicSummary describes one topic for the panel list.
type TopicSummary struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Present  bool     `json:"present"`
	Rows     int      `json:"rows,omitempty"`
	Columns  []string `json:"columns,omitempty"`
	LastDate string   `json:"last_date,omitempty"`
}

// TopicData is one derived table rendered to JSON. Gaps become nulls so the
// chart library leaves them unplotted.
type TopicData struct {
	Name    string                `json:"name"`
	Title   string                `json:"title"`
	Dates   []string              `json:"dates"`
	Columns []string              `json:"columns"`
	Values  map[string][]*float64 `json:"values"`
}

func NewTopicHandler(st FrameLoader, logger *logrus.Logger) *TopicHandler {
	return &TopicHandler{store: st, logger: logger}
}

// List returns every registered topic with the shape of its current
// processed file. Topics whose file is missing are listed as absent; the UI
// renders an empty panel for them.
func (h *TopicHandler) List(c *gin.Context) {
	topics := pipeline.Topics()
	out := make([]TopicSummary, 0, len(topics))

	for _, topic := range topics {
		summary := TopicSummary{Name: topic.Name, Title: topic.Title}
		frame, err := h.store.Load(topic.Name)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				h.logger.WithField("topic", topic.Name).WithError(err).Warn("failed to read processed file")
			}
			out = append(out, summary)
			continue
		}
		summary.Present = true
		summary.Rows = frame.Len()
		summary.Columns = frame.Columns()
		if n := frame.Len(); n > 0 {
			summary.LastDate = frame.Dates()[n-1].Format("2006-01-02")
		}
		out = append(out, summary)
	}

	c.JSON(http.StatusOK, gin.H{"topics": out})
}

// Get returns one topic's table. Unknown topics and missing files are 404;
// optional ?limit=N trims to the most recent N rows.
func (h *TopicHandler) Get(c *gin.Context) {
	name := c.Param("name")
	topic, ok := findTopic(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown topic: " + name})
		return
	}

	frame, err := h.store.Load(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no processed file for topic: " + name})
			return
		}
		h.logger.WithField("topic", name).WithError(err).Error("failed to read processed file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read processed file"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
	}

	c.JSON(http.StatusOK, frameJSON(topic, frame, limit))
}

func findTopic(name string) (pipeline.Topic, bool) {
	for _, topic := range pipeline.Topics() {
		if topic.Name == name {
			return topic, true
		}
	}
	return pipeline.Topic{}, false
}

func frameJSON(topic pipeline.Topic, frame *timeseries.Frame, limit int) TopicData {
	dates := frame.Dates()
	offset := 0
	if limit > 0 && limit < len(dates) {
		offset = len(dates) - limit
	}

	data := TopicData{
		Name:    topic.Name,
		Title:   topic.Title,
		Columns: frame.Columns(),
		Dates:   make([]string, 0, len(dates)-offset),
		Values:  make(map[string][]*float64, len(frame.Columns())),
	}
	for _, d := range dates[offset:] {
		data.Dates = append(data.Dates, d.Format("2006-01-02"))
	}
	for _, col := range frame.Columns() {
		vals := make([]*float64, 0, len(dates)-offset)
		for i := offset; i < len(dates); i++ {
			v := frame.Value(i, col)
			if math.IsNaN(v) {
				vals = append(vals, nil)
			} else {
				value := v
				vals = append(vals, &value)
			}
		}
		data.Values[col] = vals
	}
	return data
}
