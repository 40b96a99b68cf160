package sim

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/dynamo"
	"github.com/san-kum/particlebox/internal/physics"
)

const canvas = 400.0

var _ = Describe("Simulator", func() {
	var (
		s      *Simulator
		global config.Global
	)

	BeforeEach(func() {
		s = New(WithSeed(17))
		global = config.DefaultGlobal()
	})

	tick := func(n int) {
		for range n {
			s.Tick(global, canvas, canvas)
		}
	}

	Context("when paused", func() {
		It("leaves every body untouched", func() {
			Expect(s.Initialize(config.DefaultSimulation(), canvas, canvas)).To(Succeed())
			tick(5)
			before := s.State()

			global.TimeScale = 0
			tick(3)

			after := s.State()
			Expect(after.Rotation).To(Equal(before.Rotation))
			Expect(after.Bodies).To(Equal(before.Bodies))
		})
	})

	Context("with a rectangular canvas", func() {
		BeforeEach(func() {
			cfg := config.DefaultSimulation()
			cfg.CanvasBounds = true
			cfg.Gravity = 0
			cfg.Friction = 0
			cfg.Restitution = 0.8
			cfg.BallCount = 1
			Expect(s.Initialize(cfg, canvas, canvas)).To(Succeed())

			b := &s.state.Bodies[0]
			b.Pos = dynamo.Vec2{X: canvas/2 - b.Radius - 0.1, Y: 0}
			b.Vel = dynamo.Vec2{X: 5, Y: 0}
		})

		It("bounces off the wall with restitution", func() {
			tick(1)
			b := s.State().Bodies[0]
			Expect(b.Pos.X).To(BeNumerically("<=", canvas/2-b.Radius))
			Expect(b.Vel.X).To(BeNumerically("~", -4, 1e-9))
		})
	})

	Context("with the sst-hydrogen model", func() {
		BeforeEach(func() {
			cfg, err := config.GetPreset("sst-hydrogen")
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Initialize(cfg, canvas, canvas)).To(Succeed())
		})

		It("spawns every body on a tangential orbit", func() {
			for _, b := range s.State().Bodies {
				Expect(b.Vel.Len()).To(BeNumerically("~", 9, 1e-9))
				Expect(b.Pos.Dot(b.Vel)).To(BeNumerically("~", 0, 1e-6))
			}
		})

		It("keeps bodies captured around the center", func() {
			limit := math.Min(canvas, canvas) * physics.ShapeScale
			for range 300 {
				s.Tick(global, canvas, canvas)
				for _, b := range s.State().Bodies {
					Expect(b.Valid()).To(BeTrue())
					Expect(b.Pos.Len()).To(BeNumerically("<=", limit+b.Radius))
				}
			}
		})
	})

	Context("with the dual-ring-swarm model", func() {
		var innerR float64

		BeforeEach(func() {
			cfg, err := config.GetPreset("dual-ring-swarm")
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Initialize(cfg, canvas, canvas)).To(Succeed())
			innerR = canvas * physics.ShapeScale * cfg.Swarm.InnerRadius
		})

		It("spawns both groups", func() {
			report := s.SpawnReport()
			Expect(report.Outer).To(Equal(40))
			Expect(report.Inner).To(Equal(20))
		})

		It("pushes a stray outer body out of the inner ring within one frame", func() {
			b := &s.state.Bodies[0]
			Expect(b.Group).To(Equal(physics.Outer))
			b.Pos = dynamo.Vec2{X: 3, Y: 4}
			b.Vel = dynamo.Vec2{}

			tick(1)

			Expect(s.State().Bodies[0].Pos.Len()).To(BeNumerically(">=", innerR-1e-6))
		})

		It("keeps inner bodies inside the inner ring", func() {
			tick(120)
			for _, b := range s.State().Bodies {
				if b.Group == physics.Inner {
					Expect(b.Pos.Len()).To(BeNumerically("<=", innerR+b.Radius))
				}
			}
		})
	})

	Context("with a gravity-free elastic box", func() {
		BeforeEach(func() {
			cfg := config.DefaultSimulation()
			cfg.Gravity = 0
			cfg.Friction = 0
			cfg.Restitution = 1
			Expect(s.Initialize(cfg, canvas, canvas)).To(Succeed())
		})

		It("resolves contacts every frame", func() {
			for range 100 {
				tick(1)
				st := s.State()
				Expect(st.Overlaps(s.Model(), 1)).To(BeZero())
			}
		})
	})

	Context("after a reconfigure", func() {
		It("re-spawns with the new population", func() {
			Expect(s.Initialize(config.DefaultSimulation(), canvas, canvas)).To(Succeed())
			tick(10)

			cfg, err := config.GetPreset("fluid-vortex")
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Reconfigure(cfg)).To(Succeed())

			Expect(s.Model().Kind()).To(Equal(config.ModelFluidVortex))
			Expect(s.State().Bodies).To(HaveLen(cfg.BallCount + cfg.Vortex.InnerBallCount))
			Expect(s.Frame()).To(BeZero())
		})
	})
})
