package diffusion

import "sort"

// Snapshot is a value copy of the field taken at one iteration.
type Snapshot struct {
	Iteration int
	Time      float64
	Values    []float64
}

// NeumannResidual returns 3c[N-1] - 4c[N-2] + c[N-3], zero when the
// right-hand boundary condition holds.
func (s Snapshot) NeumannResidual() float64 {
	return neumannResidual(s.Values)
}

func neumannResidual(v []float64) float64 {
	n := len(v)
	if n < 3 {
		return 0
	}
	return 3*v[n-1] - 4*v[n-2] + v[n-3]
}

// Observer receives snapshots as they are captured during Run.
type Observer interface {
	OnSnapshot(s Snapshot)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(s Snapshot)

func (f ObserverFunc) OnSnapshot(s Snapshot) { f(s) }

// Stepper advances a concentration field one explicit time step at a time.
type Stepper struct {
	cfg       Config
	field     []float64
	scratch   []float64
	source    []float64
	initial   []float64
	r         float64
	iteration int
	observers []Observer
}

// New validates cfg and builds a stepper at iteration 0. The initial and
// source slices are copied.
func New(cfg Config) (*Stepper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Stepper{
		cfg:     cfg,
		field:   clone(cfg.InitialField),
		scratch: make([]float64, cfg.GridLength),
		source:  clone(cfg.SourceField),
		initial: clone(cfg.InitialField),
		r:       cfg.MeshRatio(),
	}
	s.cfg.InitialField = s.initial
	s.cfg.SourceField = s.source
	s.cfg.CaptureIterations = append([]int(nil), cfg.CaptureIterations...)
	return s, nil
}

// Simulate runs cfg.TotalSteps steps and returns the snapshots listed in
// cfg.CaptureIterations together with the initial one.
func Simulate(cfg Config, observers ...Observer) ([]Snapshot, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	for _, o := range observers {
		s.AddObserver(o)
	}
	return s.Run(cfg.TotalSteps, cfg.CaptureIterations), nil
}

func (s *Stepper) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Config returns the configuration the stepper was built with.
func (s *Stepper) Config() Config { return s.cfg }

func (s *Stepper) Iteration() int { return s.iteration }

// Time is the simulated time Iteration·Δt.
func (s *Stepper) Time() float64 { return float64(s.iteration) * s.cfg.TimeStep }

// Field returns a copy of the live field.
func (s *Stepper) Field() []float64 { return clone(s.field) }

// Snapshot captures the live field at the current iteration.
func (s *Stepper) Snapshot() Snapshot {
	return Snapshot{Iteration: s.iteration, Time: s.Time(), Values: clone(s.field)}
}

// Reset restores the initial field and sets the iteration count to 0.
func (s *Stepper) Reset() {
	copy(s.field, s.initial)
	s.iteration = 0
}

// Step advances the field by one Δt.
//
// Index 0 is never evaluated through the stencil: it has no left neighbour
// and the Dirichlet value overwrites it anyway. The stencil reads only the
// previous field, so index 1 sees the Dirichlet value imposed one step ago.
func (s *Stepper) Step() {
	cur, next := s.field, s.scratch
	n := len(cur)
	dt := s.cfg.TimeStep

	for i := 1; i < n-1; i++ {
		next[i] = cur[i] + s.r*(cur[i-1]-2*cur[i]+cur[i+1]) + dt*s.source[i]
	}
	next[n-1] = (4*next[n-2] - next[n-3]) / 3
	next[0] = s.cfg.DirichletValue

	s.field, s.scratch = next, cur
	s.iteration++
}

// Run captures the current state, then steps totalSteps times, capturing
// after every step whose iteration count appears in captureAt. Snapshots
// come back in increasing iteration order; duplicate or unreachable capture
// indices are ignored.
func (s *Stepper) Run(totalSteps int, captureAt []int) []Snapshot {
	end := s.iteration + totalSteps
	want := make([]int, 0, len(captureAt))
	for _, it := range captureAt {
		if it > s.iteration && it <= end {
			want = append(want, it)
		}
	}
	sort.Ints(want)
	want = dedup(want)

	snaps := make([]Snapshot, 0, len(want)+1)
	snaps = append(snaps, s.capture())

	next := 0
	for s.iteration < end {
		s.Step()
		if next < len(want) && want[next] == s.iteration {
			snaps = append(snaps, s.capture())
			next++
		}
	}
	return snaps
}

func (s *Stepper) capture() Snapshot {
	snap := s.Snapshot()
	for _, o := range s.observers {
		o.OnSnapshot(snap)
	}
	return snap
}

func clone(v []float64) []float64 {
	c := make([]float64, len(v))
	copy(c, v)
	return c
}

func dedup(sorted []int) []int {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
