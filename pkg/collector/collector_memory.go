package collector

import (
	"fmt"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/dnslab/knot-exporter/pkg/knotctl"
)

type memoryCollector struct {
	metricsC    chan<- prometheus.Metric
	processName string
	log         logr.Logger
}

var _ categoryCollector = (*memoryCollector)(nil)

func newMemoryCollector(
	metricsC chan<- prometheus.Metric, processName string, log logr.Logger,
) *memoryCollector {
	return &memoryCollector{
		metricsC:    metricsC,
		processName: processName,
		log:         log,
	}
}

func (c *memoryCollector) Name() string {
	return "memory"
}

func (c *memoryCollector) Enabled(cfg Config) bool {
	return cfg.Memory
}

var memoryUsageDesc = prometheus.NewDesc(
	"knot_memory_usage",
	"resident set size of a running knot server process, in bytes",
	[]string{"section", "type"}, nil,
)

// Collect reads the resident set size of every running server process. It
// does not touch the control session: memory comes from the host, one
// sample per matching pid.
func (c *memoryCollector) Collect(_ knotctl.Session) error {
	procs, err := process.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, p := range procs {
		name, err := p.Name()
		if err != nil || name != c.processName {
			continue
		}

		mem, err := p.MemoryInfo()
		if err != nil {
			c.log.Error(err, "memory info", "pid", p.Pid)
			continue
		}

		c.metricsC <- prometheus.MustNewConstMetric(
			memoryUsageDesc,
			prometheus.GaugeValue,
			float64(mem.RSS),
			"server",
			strconv.Itoa(int(p.Pid)),
		)
	}

	return nil
}
