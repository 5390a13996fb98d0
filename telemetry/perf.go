package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step.
const (
	PhaseSense     = "sense"     // camera sampling
	PhaseDecide    = "decide"    // manual input or classifier inference
	PhaseIntegrate = "integrate" // kinematics
	PhaseTrain     = "train"     // Teach: example storage and retraining
	PhaseTelemetry = "telemetry"
)

// phaseOrder is the order phases are reported in.
var phaseOrder = []string{PhaseSense, PhaseDecide, PhaseIntegrate, PhaseTrain, PhaseTelemetry}

// PhaseOrder returns the phase names in report order.
func PhaseOrder() []string {
	return append([]string(nil), phaseOrder...)
}

// tickTiming is the wall time of one tick split by phase.
type tickTiming struct {
	total  time.Duration
	phases map[string]time.Duration
}

// PerfCollector keeps phase timings for the last windowSize ticks.
// It is driven from the update loop and is not safe for concurrent use.
type PerfCollector struct {
	now func() time.Time

	ring   []tickTiming
	next   int
	filled int

	cur     tickTiming
	started time.Time
	phase   string
	phaseAt time.Time

	// Work reported between ticks, charged to the next EndTick
	pending map[string]time.Duration

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	return newPerfCollector(windowSize, time.Now)
}

func newPerfCollector(windowSize int, now func() time.Time) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:     now,
		ring:    make([]tickTiming, windowSize),
		pending: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.started = p.now()
	p.cur = tickTiming{phases: make(map[string]time.Duration)}
	p.phase = ""
}

// closePhase charges the time since the open phase began to it.
func (p *PerfCollector) closePhase(at time.Time) {
	if p.phase != "" {
		p.cur.phases[p.phase] += at.Sub(p.phaseAt)
	}
	p.phase = ""
}

// StartPhase ends the open phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	at := p.now()
	p.closePhase(at)
	p.phase, p.phaseAt = phase, at
}

// AddPhase records work done outside a tick, such as training after a Teach.
// It is folded into the next tick that ends.
func (p *PerfCollector) AddPhase(phase string, d time.Duration) {
	p.pending[phase] += d
}

// EndTick closes the tick and pushes it into the window.
func (p *PerfCollector) EndTick() {
	if p.cur.phases == nil {
		p.StartTick()
	}
	at := p.now()
	p.closePhase(at)

	p.cur.total = at.Sub(p.started)
	for phase, d := range p.pending {
		p.cur.phases[phase] += d
		p.cur.total += d
	}
	clear(p.pending)

	p.ring[p.next] = p.cur
	p.cur = tickTiming{}
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// RecordFrame marks a rendered frame; the gap to the previous one gives FPS.
func (p *PerfCollector) RecordFrame() {
	at := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = at.Sub(p.lastFrame)
	}
	p.lastFrame = at
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average time per phase, and its share of total tick time in percent
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Graphics mode only
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	sums := make(map[string]time.Duration)
	for i, t := range p.ring[:p.filled] {
		total += t.total
		if i == 0 || t.total < s.MinTickDuration {
			s.MinTickDuration = t.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, t.total)
		for phase, d := range t.phases {
			sums[phase] += d
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	for phase, sum := range sums {
		s.PhaseAvg[phase] = sum / n
		if total > 0 {
			s.PhasePct[phase] = float64(sum) / float64(total) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the window under the "perf" message.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	SessionID    string  `csv:"session"`
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SensePct     float64 `csv:"sense_pct"`
	DecidePct    float64 `csv:"decide_pct"`
	IntegratePct float64 `csv:"integrate_pct"`
	TrainPct     float64 `csv:"train_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(session string, windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		SessionID:    session,
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SensePct:     s.PhasePct[PhaseSense],
		DecidePct:    s.PhasePct[PhaseDecide],
		IntegratePct: s.PhasePct[PhaseIntegrate],
		TrainPct:     s.PhasePct[PhaseTrain],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
