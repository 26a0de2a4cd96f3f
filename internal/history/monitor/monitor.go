package monitor

import (
	"wasabi-history/internal/history/config"

	"github.com/prometheus/client_golang/prometheus"
)

// TextfileWriter 一次性任务没有常驻端口，结束时把指标写到 node_exporter textfile 目录
type TextfileWriter struct {
	cfg      config.MonitorConfig
	gatherer prometheus.Gatherer
}

func NewTextfileWriter(cfg config.MonitorConfig) *TextfileWriter {
	return &TextfileWriter{cfg: cfg, gatherer: prometheus.DefaultGatherer}
}

// Flush 写出当前所有指标
func (w *TextfileWriter) Flush() error {
	if !w.cfg.Enable || w.cfg.TextfilePath == "" {
		return nil // disabled
	}
	return prometheus.WriteToTextfile(w.cfg.TextfilePath, w.gatherer)
}
