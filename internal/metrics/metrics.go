// Package metrics counts what a run reads, compiles and writes.
//
// A Recorder keeps its collectors on a registry of its own, so that runs and tests
// do not share state through the global registry. The numbers can be exported in
// the Prometheus text format for the node exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ngrash/tzjson/tzc"
	"github.com/ngrash/tzjson/tzdata"
)

const namespace = "tzjson"

// Recorder holds the collectors of a run.
type Recorder struct {
	registry *prometheus.Registry

	FilesRead     prometheus.Counter
	Transitions   prometheus.Counter
	RawZones      prometheus.Counter
	LinksIgnored  prometheus.Counter
	ParseErrors   prometheus.Counter
	RulesCompiled prometheus.Counter
	ZoneIntervals prometheus.Counter
	Documents     *prometheus.CounterVec // by kind: "rules" or "zone"
	RunDuration   prometheus.Gauge
	LastSuccess   prometheus.Gauge
}

// NewRecorder returns a Recorder with all collectors registered.
func NewRecorder(logger *zap.Logger) *Recorder {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	r := &Recorder{
		registry:      prometheus.NewRegistry(),
		FilesRead:     counter("files_read_total", "Number of tzdata files parsed."),
		Transitions:   counter("transitions_total", "Number of rule lines parsed."),
		RawZones:      counter("raw_zones_total", "Number of zone and continuation lines parsed."),
		LinksIgnored:  counter("links_ignored_total", "Number of link lines parsed and ignored."),
		ParseErrors:   counter("parse_errors_total", "Number of malformed lines."),
		RulesCompiled: counter("rules_compiled_total", "Number of rules compiled from transitions."),
		ZoneIntervals: counter("zone_intervals_total", "Number of zone intervals compiled."),
		Documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_written_total",
			Help:      "Number of documents written.",
		}, []string{"kind"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}
	for name, c := range map[string]prometheus.Collector{
		"files read":        r.FilesRead,
		"transitions":       r.Transitions,
		"raw zones":         r.RawZones,
		"links ignored":     r.LinksIgnored,
		"parse errors":      r.ParseErrors,
		"rules compiled":    r.RulesCompiled,
		"zone intervals":    r.ZoneIntervals,
		"documents written": r.Documents,
		"run duration":      r.RunDuration,
		"last success":      r.LastSuccess,
	} {
		mustRegister(logger, r.registry, name, c)
	}
	return r
}

// mustRegister registers c on reg. A collector registered twice is fine; any other
// failure is a programming error.
func mustRegister(logger *zap.Logger, reg *prometheus.Registry, name string, c prometheus.Collector) {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return
		}
		if logger != nil {
			logger.Fatal("failed to register "+name, zap.Error(err))
		}
		panic("metrics: failed to register " + name + ": " + err.Error())
	}
}

// Gatherer returns the registry holding the collectors.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }

// ObserveFile counts the records of a parsed file.
func (r *Recorder) ObserveFile(f tzdata.File) {
	r.FilesRead.Inc()
	r.Transitions.Add(float64(len(f.Transitions)))
	r.RawZones.Add(float64(len(f.RawZones)))
	r.LinksIgnored.Add(float64(len(f.Links)))
}

// ObserveParseError counts a malformed line.
func (r *Recorder) ObserveParseError(*tzdata.ParseError) {
	r.ParseErrors.Inc()
}

// ObserveCompiled counts the rules and zone intervals of c.
func (r *Recorder) ObserveCompiled(c *tzc.Compiled) {
	for _, rs := range c.Rules {
		r.RulesCompiled.Add(float64(len(rs)))
	}
	for _, zones := range c.Zones {
		for _, z := range zones {
			r.ZoneIntervals.Add(float64(len(z.Intervals())))
		}
	}
}

// ObserveDocument counts a written document of the given kind.
func (r *Recorder) ObserveDocument(kind string) {
	r.Documents.WithLabelValues(kind).Inc()
}

// Finish records the duration of a run that started at start and, if it succeeded, its end.
func (r *Recorder) Finish(start time.Time, err error) {
	end := time.Now()
	r.RunDuration.Set(end.Sub(start).Seconds())
	if err == nil {
		r.LastSuccess.Set(float64(end.Unix()))
	}
}

// WriteTextfile writes all metrics to path in the Prometheus text format. The file
// is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
