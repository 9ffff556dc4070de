package prometheus

import (
	"github.com/subplayer/mediacore/engine"
	"github.com/subplayer/mediacore/process"

	"github.com/prometheus/client_golang/prometheus"
)

// Source provides the counters and the running transcode. *engine.Engine
// implements it.
type Source interface {
	Stats() engine.Stats
	Status() (process.Status, bool)
}

type engineCollector struct {
	instance string
	source   Source

	transcodesDesc       *prometheus.Desc
	runningDesc          *prometheus.Desc
	progressDesc         *prometheus.Desc
	cpuDesc              *prometheus.Desc
	memoryDesc           *prometheus.Desc
	downloadsDesc        *prometheus.Desc
	downloadFailuresDesc *prometheus.Desc
	probesDesc           *prometheus.Desc
	probeFailuresDesc    *prometheus.Desc
	subscribersDesc      *prometheus.Desc
}

func NewEngineCollector(instance string, source Source) prometheus.Collector {
	return &engineCollector{
		instance: instance,
		source:   source,
		transcodesDesc: prometheus.NewDesc(
			"mediacore_transcodes_total",
			"Accumulated transcodes per state",
			[]string{"instance", "state"}, nil),
		runningDesc: prometheus.NewDesc(
			"mediacore_transcode_running",
			"Whether a transcode is running",
			[]string{"instance"}, nil),
		progressDesc: prometheus.NewDesc(
			"mediacore_transcode_progress_percent",
			"Progress of the running transcode",
			[]string{"instance", "strategy"}, nil),
		cpuDesc: prometheus.NewDesc(
			"mediacore_transcode_cpu_percent",
			"CPU usage of the running ffmpeg, 100 per core",
			[]string{"instance"}, nil),
		memoryDesc: prometheus.NewDesc(
			"mediacore_transcode_memory_bytes",
			"Resident memory of the running ffmpeg",
			[]string{"instance"}, nil),
		downloadsDesc: prometheus.NewDesc(
			"mediacore_downloads_total",
			"Accumulated ffmpeg downloads",
			[]string{"instance"}, nil),
		downloadFailuresDesc: prometheus.NewDesc(
			"mediacore_download_failures_total",
			"Accumulated failed ffmpeg downloads per kind",
			[]string{"instance", "kind"}, nil),
		probesDesc: prometheus.NewDesc(
			"mediacore_probes_total",
			"Accumulated probes",
			[]string{"instance"}, nil),
		probeFailuresDesc: prometheus.NewDesc(
			"mediacore_probe_failures_total",
			"Accumulated failed probes per kind",
			[]string{"instance", "kind"}, nil),
		subscribersDesc: prometheus.NewDesc(
			"mediacore_event_subscribers",
			"Current subscribers of the event stream",
			[]string{"instance"}, nil),
	}
}

func (c *engineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.transcodesDesc
	ch <- c.runningDesc
	ch <- c.progressDesc
	ch <- c.cpuDesc
	ch <- c.memoryDesc
	ch <- c.downloadsDesc
	ch <- c.downloadFailuresDesc
	ch <- c.probesDesc
	ch <- c.probeFailuresDesc
	ch <- c.subscribersDesc
}

func (c *engineCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.Stats()

	states := map[string]uint64{
		"started":   stats.Transcodes.Started,
		"completed": stats.Transcodes.Completed,
		"cancelled": stats.Transcodes.Cancelled,
		"failed":    stats.Transcodes.Failed,
	}

	for state, value := range states {
		ch <- prometheus.MustNewConstMetric(c.transcodesDesc, prometheus.CounterValue, float64(value), c.instance, state)
	}

	ch <- prometheus.MustNewConstMetric(c.downloadsDesc, prometheus.CounterValue, float64(stats.Downloads), c.instance)

	for kind, value := range stats.DownloadFails {
		ch <- prometheus.MustNewConstMetric(c.downloadFailuresDesc, prometheus.CounterValue, float64(value), c.instance, kind)
	}

	ch <- prometheus.MustNewConstMetric(c.probesDesc, prometheus.CounterValue, float64(stats.Probes), c.instance)

	for kind, value := range stats.ProbeFails {
		ch <- prometheus.MustNewConstMetric(c.probeFailuresDesc, prometheus.CounterValue, float64(value), c.instance, kind)
	}

	ch <- prometheus.MustNewConstMetric(c.subscribersDesc, prometheus.GaugeValue, float64(stats.Subscribers), c.instance)

	status, running := c.source.Status()
	if !running {
		ch <- prometheus.MustNewConstMetric(c.runningDesc, prometheus.GaugeValue, 0, c.instance)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.runningDesc, prometheus.GaugeValue, 1, c.instance)
	ch <- prometheus.MustNewConstMetric(c.progressDesc, prometheus.GaugeValue, status.Progress.Percent, c.instance, status.Strategy.String())
	ch <- prometheus.MustNewConstMetric(c.cpuDesc, prometheus.GaugeValue, status.Usage.CPU, c.instance)
	ch <- prometheus.MustNewConstMetric(c.memoryDesc, prometheus.GaugeValue, float64(status.Usage.Memory), c.instance)
}
