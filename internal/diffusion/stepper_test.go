package diffusion_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/delab/internal/diffusion"
)

// sourceConfig is the salt-transport run: zero start, unit source on [45,56).
func sourceConfig() diffusion.Config {
	src := diffusion.Uniform(100, 0)
	Expect(diffusion.Fill(src, diffusion.Region{Start: 45, End: 56, Value: 1.0})).To(Succeed())
	return diffusion.Config{
		GridLength:        100,
		SpatialStep:       1.0,
		TimeStep:          0.1,
		TotalSteps:        200000,
		CaptureIterations: []int{0, 1000, 10000, 50000, 200000},
		InitialField:      diffusion.Uniform(100, 0),
		SourceField:       src,
		DirichletValue:    0,
	}
}

func randomConfig(rng *rand.Rand, n int) diffusion.Config {
	initial := make([]float64, n)
	source := make([]float64, n)
	for i := range initial {
		initial[i] = rng.Float64()*2 - 1
		source[i] = rng.Float64()
	}
	dx := 0.5 + rng.Float64()
	return diffusion.Config{
		GridLength:     n,
		SpatialStep:    dx,
		TimeStep:       0.4 * dx * dx,
		InitialField:   initial,
		SourceField:    source,
		DirichletValue: rng.Float64()*4 - 2,
	}
}

// rollStep is the wrap-around form of the update
// (neighbours read through a circular shift, Δx = 1).
func rollStep(c, h []float64, dt, dirichlet float64) {
	n := len(c)
	left := make([]float64, n)
	right := make([]float64, n)
	for i := range c {
		left[i] = c[(i-1+n)%n]
		right[i] = c[(i+1)%n]
	}
	for i := 0; i < n-1; i++ {
		c[i] = c[i] + (left[i]-2*c[i]+right[i])*dt + h[i]*dt
	}
	c[n-1] = (4.*c[n-2] - c[n-3]) / 3.
	c[0] = dirichlet
}

var _ = Describe("Stepper", func() {
	Describe("construction", func() {
		It("rejects a grid shorter than four samples", func() {
			cfg := diffusion.Config{
				GridLength:   3,
				SpatialStep:  1,
				TimeStep:     0.1,
				InitialField: make([]float64, 3),
				SourceField:  make([]float64, 3),
			}
			st, err := diffusion.New(cfg)
			Expect(err).To(MatchError(diffusion.ErrInvalidArgument))
			Expect(st).To(BeNil())
		})

		DescribeTable("rejects invalid parameters",
			func(mutate func(*diffusion.Config)) {
				cfg := sourceConfig()
				mutate(&cfg)
				_, err := diffusion.New(cfg)
				Expect(err).To(MatchError(diffusion.ErrInvalidArgument))
			},
			Entry("zero spatial step", func(c *diffusion.Config) { c.SpatialStep = 0 }),
			Entry("negative spatial step", func(c *diffusion.Config) { c.SpatialStep = -1 }),
			Entry("NaN spatial step", func(c *diffusion.Config) { c.SpatialStep = math.NaN() }),
			Entry("zero time step", func(c *diffusion.Config) { c.TimeStep = 0 }),
			Entry("negative time step", func(c *diffusion.Config) { c.TimeStep = -0.1 }),
			Entry("negative total steps", func(c *diffusion.Config) { c.TotalSteps = -1 }),
			Entry("short initial field", func(c *diffusion.Config) { c.InitialField = c.InitialField[:99] }),
			Entry("long source field", func(c *diffusion.Config) { c.SourceField = append(c.SourceField, 0) }),
		)

		It("does not enforce the stability bound", func() {
			cfg := sourceConfig()
			cfg.TimeStep = 10
			_, err := diffusion.New(cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("copies the caller's slices", func() {
			cfg := sourceConfig()
			st, err := diffusion.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			cfg.InitialField[50] = 42
			cfg.SourceField[50] = 42
			Expect(st.Field()[50]).To(Equal(0.0))

			st.Step()
			Expect(st.Field()[50]).To(BeNumerically("~", 0.1, 1e-12))
		})
	})

	Describe("Step", func() {
		It("imposes the Dirichlet value exactly", func() {
			rng := rand.New(rand.NewSource(7))
			for _, n := range []int{4, 5, 10, 100} {
				cfg := randomConfig(rng, n)
				st, err := diffusion.New(cfg)
				Expect(err).NotTo(HaveOccurred())
				st.Step()
				Expect(st.Field()[0]).To(Equal(cfg.DirichletValue))
			}
		})

		It("satisfies the three-point Neumann relation", func() {
			rng := rand.New(rand.NewSource(11))
			for _, n := range []int{4, 6, 33, 100} {
				cfg := randomConfig(rng, n)
				st, err := diffusion.New(cfg)
				Expect(err).NotTo(HaveOccurred())
				st.Step()
				Expect(st.Snapshot().NeumannResidual()).To(BeNumerically("~", 0, 1e-12))
			}
		})

		It("keeps a uniform steady state fixed", func() {
			cfg := diffusion.Config{
				GridLength:     20,
				SpatialStep:    1,
				TimeStep:       0.25,
				InitialField:   diffusion.Uniform(20, 0.75),
				SourceField:    diffusion.Uniform(20, 0),
				DirichletValue: 0.75,
			}
			st, err := diffusion.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 50; i++ {
				st.Step()
			}
			field := st.Field()
			for i := 0; i < len(field)-1; i++ {
				Expect(field[i]).To(Equal(0.75))
			}
			Expect(field[len(field)-1]).To(BeNumerically("~", 0.75, 1e-12))
		})

		It("adds Δt times the source on the first step", func() {
			cfg := sourceConfig()
			st, err := diffusion.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			st.Step()

			field := st.Field()
			Expect(field[50]).To(BeNumerically("~", 0.1, 1e-15))
			Expect(field[30]).To(Equal(0.0))
			Expect(st.Iteration()).To(Equal(1))
			Expect(st.Time()).To(BeNumerically("~", 0.1, 1e-15))
		})

		It("matches the wrap-around update everywhere", func() {
			cfg := sourceConfig()
			st, err := diffusion.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			ref := diffusion.Uniform(100, 0)
			for i := 0; i < 5000; i++ {
				st.Step()
				rollStep(ref, cfg.SourceField, cfg.TimeStep, cfg.DirichletValue)
			}
			Expect(st.Field()).To(Equal(ref))
		})
	})

	Describe("Run", func() {
		It("returns the initial field alone for zero steps", func() {
			cfg := sourceConfig()
			cfg.InitialField[10] = 3
			st, err := diffusion.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			snaps := st.Run(0, []int{0, 10})
			Expect(snaps).To(HaveLen(1))
			Expect(snaps[0].Iteration).To(Equal(0))
			Expect(snaps[0].Values).To(Equal(cfg.InitialField))
		})

		It("orders captures and drops duplicates and unreachable iterations", func() {
			cfg := sourceConfig()
			st, err := diffusion.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			snaps := st.Run(30, []int{20, 5, 5, -1, 31, 10})
			iters := make([]int, len(snaps))
			for i, s := range snaps {
				iters[i] = s.Iteration
			}
			Expect(iters).To(Equal([]int{0, 5, 10, 20}))
			Expect(st.Iteration()).To(Equal(30))
		})

		It("hands snapshots to observers as they are captured", func() {
			cfg := sourceConfig()
			st, err := diffusion.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			var seen []int
			st.AddObserver(diffusion.ObserverFunc(func(s diffusion.Snapshot) {
				seen = append(seen, s.Iteration)
			}))
			st.Run(100, []int{50, 100})
			Expect(seen).To(Equal([]int{0, 50, 100}))
		})

		It("snapshots do not alias the live field", func() {
			st, err := diffusion.New(sourceConfig())
			Expect(err).NotTo(HaveOccurred())

			snap := st.Snapshot()
			st.Step()
			st.Step()
			Expect(snap.Values[50]).To(Equal(0.0))
		})

		It("restarts from the initial field after Reset", func() {
			st, err := diffusion.New(sourceConfig())
			Expect(err).NotTo(HaveOccurred())

			first := st.Run(200, []int{200})
			st.Reset()
			Expect(st.Iteration()).To(Equal(0))
			second := st.Run(200, []int{200})
			Expect(second).To(Equal(first))
		})

		It("is bit-for-bit deterministic", func() {
			cfg := sourceConfig()
			cfg.TotalSteps = 20000
			cfg.CaptureIterations = []int{1000, 10000, 20000}

			a, err := diffusion.Simulate(cfg)
			Expect(err).NotTo(HaveOccurred())
			b, err := diffusion.Simulate(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(Equal(b))
		})
	})

	Describe("the salt-transport scenario", func() {
		var snaps []diffusion.Snapshot

		BeforeEach(func() {
			var err error
			snaps, err = diffusion.Simulate(sourceConfig())
			Expect(err).NotTo(HaveOccurred())
		})

		It("captures five snapshots in order", func() {
			Expect(snaps).To(HaveLen(5))
			want := []int{0, 1000, 10000, 50000, 200000}
			for i, s := range snaps {
				Expect(s.Iteration).To(Equal(want[i]))
				Expect(s.Time).To(BeNumerically("~", float64(want[i])*0.1, 1e-9))
				Expect(s.Values).To(HaveLen(100))
			}
		})

		It("holds both boundary conditions in every snapshot", func() {
			for _, s := range snaps {
				Expect(s.Values[0]).To(Equal(0.0))
				Expect(s.NeumannResidual()).To(BeNumerically("~", 0, 1e-9))
			}
		})

		It("never lowers the concentration inside the source", func() {
			for i := 1; i < len(snaps); i++ {
				for j := 45; j < 56; j++ {
					Expect(snaps[i].Values[j]).To(BeNumerically(">=", snaps[i-1].Values[j]))
				}
			}
			Expect(snaps[len(snaps)-1].Values[50]).To(BeNumerically(">", 0))
		})
	})
})

var _ = Describe("Config", func() {
	DescribeTable("MeshRatio is Δt/Δx²",
		func(dt, dx, want float64) {
			cfg := diffusion.Config{TimeStep: dt, SpatialStep: dx}
			Expect(cfg.MeshRatio()).To(BeNumerically("~", want, 1e-15))
		},
		Entry("unit spacing", 0.1, 1.0, 0.1),
		Entry("half spacing", 0.1, 0.5, 0.4),
		Entry("double spacing", 2.0, 2.0, 0.5),
	)
})

var _ = Describe("Fill", func() {
	It("writes half-open regions", func() {
		f := diffusion.Uniform(10, 0)
		Expect(diffusion.Fill(f, diffusion.Region{Start: 2, End: 4, Value: 1})).To(Succeed())
		Expect(f).To(Equal([]float64{0, 0, 1, 1, 0, 0, 0, 0, 0, 0}))
	})

	It("rejects regions outside the grid", func() {
		f := diffusion.Uniform(10, 0)
		Expect(diffusion.Fill(f, diffusion.Region{Start: 5, End: 11, Value: 1})).To(MatchError(diffusion.ErrInvalidArgument))
		Expect(diffusion.Fill(f, diffusion.Region{Start: -1, End: 2, Value: 1})).To(MatchError(diffusion.ErrInvalidArgument))
	})
})
