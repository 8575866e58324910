package experiment

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/field"
	"github.com/san-kum/gravsim/internal/physics"
)

var _ = Describe("Driver", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("RunSimulation with vacuum", func() {
		var res *Result

		BeforeEach(func() {
			g, err := field.NewGrid(4, 1.0)
			Expect(err).NotTo(HaveOccurred())
			m := physics.Vacuum(g)

			res, err = RunSimulation(ctx, 4, 1.0, m.Density, m.Pressure, m.Velocity)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns an all-zero gravitational field", func() {
			Expect(res.Gravity.Data()).To(HaveLen(3 * 64))
			Expect(res.Gravity.Data()).To(HaveEach(BeZero()))
		})

		It("returns an all-zero stress-energy tensor", func() {
			Expect(res.StressEnergy.Data()).To(HaveEach(BeZero()))
		})

		It("returns the identity spatial metric and nothing else", func() {
			for p := 0; p < res.Grid.Points(); p++ {
				for a := 0; a < field.Rank; a++ {
					for b := 0; b < field.Rank; b++ {
						want := 0.0
						if a == b && a < 3 {
							want = 1
						}
						Expect(res.Metric.Component(p, a, b)).To(Equal(want))
					}
				}
			}
		})

		It("records a timing per stage", func() {
			Expect(res.Timings).To(HaveKey("stress_energy"))
			Expect(res.Timings).To(HaveKey("metric"))
			Expect(res.Timings).To(HaveKey("gravity"))
		})
	})

	Describe("single pass semantics", func() {
		It("always computes the metric from a zero field", func() {
			d, err := New(Config{N: 5, L: 2.0, Workers: 2})
			Expect(err).NotTo(HaveOccurred())
			m, err := NewRegistry().GetMatter("rotating", d.Grid(), MatterParams{Density: 1, Sigma: 0.5, Omega: 1, W: 0.2})
			Expect(err).NotTo(HaveOccurred())

			res, err := d.Run(ctx, m)
			Expect(err).NotTo(HaveOccurred())

			for p := 0; p < d.Grid().Points(); p++ {
				Expect(res.Metric.Component(p, 0, 0)).To(Equal(1.0))
				Expect(res.Metric.Component(p, 3, 3)).To(BeZero())
			}
		})

		It("is reproducible run to run", func() {
			d, err := New(Config{N: 4, L: 1.0})
			Expect(err).NotTo(HaveOccurred())
			m := physics.Gaussian(d.Grid(), 2, 0.3, 0.1)

			first, err := d.Run(ctx, m)
			Expect(err).NotTo(HaveOccurred())
			second, err := d.Run(ctx, m)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Gravity.Data()).To(Equal(first.Gravity.Data()))
			Expect(second.Metric.Data()).To(Equal(first.Metric.Data()))
		})

		It("re-feeds gravity into the metric when relaxing", func() {
			d, err := New(Config{N: 4, L: 1.0, Relax: 1})
			Expect(err).NotTo(HaveOccurred())
			g := d.Grid()

			m := physics.Vacuum(g)
			res, err := d.Run(ctx, m)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Gravity.Data()).To(HaveEach(BeZero()))
		})
	})

	Describe("validation", func() {
		It("rejects matter on a different grid", func() {
			d, err := New(Config{N: 4, L: 1.0})
			Expect(err).NotTo(HaveOccurred())
			other, _ := field.NewGrid(3, 1.0)

			_, err = d.Run(ctx, physics.Vacuum(other))
			Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		})

		It("rejects an invalid grid", func() {
			_, err := New(Config{N: 0, L: 1.0})
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects negative relaxation", func() {
			_, err := New(Config{N: 2, L: 1.0, Relax: -1})
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("stops on a canceled context", func() {
			d, err := New(Config{N: 2, L: 1.0})
			Expect(err).NotTo(HaveOccurred())
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err = d.Run(cctx, physics.Vacuum(d.Grid()))
			Expect(err).To(MatchError(dynamo.ErrContextCanceled))
		})
	})
})

var _ = Describe("Registry", func() {
	It("lists every matter preset in order", func() {
		Expect(NewRegistry().ListMatter()).To(Equal([]string{"dust", "gaussian", "rotating", "shell", "vacuum"}))
	})

	It("rejects unknown presets", func() {
		g, _ := field.NewGrid(2, 1.0)
		_, err := NewRegistry().GetMatter("plasma", g, MatterParams{})
		Expect(err).To(HaveOccurred())
	})
})
