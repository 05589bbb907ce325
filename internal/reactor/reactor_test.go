package reactor

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sludgeworks/asmsim/internal/biokin"
	"github.com/sludgeworks/asmsim/internal/stream"
)

// fakeKinetics is a 2-component model (component 0 soluble, component 1
// particulate) with a pluggable rate function.
type fakeKinetics struct {
	rate      func(current biokin.ComponentVector) biokin.ComponentVector
	condErr   error
	lastTemp  float64
	lastDO    float64
	rateCalls int
}

func (f *fakeKinetics) RateOfChange(volume, totalInflow float64, inflow, current biokin.ComponentVector) (biokin.ComponentVector, error) {
	f.rateCalls++
	return f.rate(current), nil
}

func (f *fakeKinetics) UpdateConditions(tempC, do float64) error {
	if tempC < 4 || do < 0 {
		return biokin.ErrInvalidCondition
	}
	if f.condErr != nil {
		return f.condErr
	}
	f.lastTemp = tempC
	f.lastDO = do
	return nil
}

func (f *fakeKinetics) Params() map[string]float64        { return map[string]float64{"u_max_H": 6} }
func (f *fakeKinetics) Stoichiometry() map[string]float64 { return map[string]float64{"Y_H": 0.67} }
func (f *fakeKinetics) NumComponents() int                { return 2 }
func (f *fakeKinetics) FirstParticulate() int             { return 1 }

// recordingOutlet captures what a downstream consumer receives.
type recordingOutlet struct {
	flow  float64
	comps biokin.ComponentVector
	calls int
}

func (o *recordingOutlet) Receive(flow float64, comps biokin.ComponentVector) {
	o.flow = flow
	o.comps = comps.Clone()
	o.calls++
}

func zeroRate(c biokin.ComponentVector) biokin.ComponentVector {
	return make(biokin.ComponentVector, len(c))
}

var _ = Describe("Reactor", func() {
	var (
		kin *fakeKinetics
		cfg Config
	)

	BeforeEach(func() {
		kin = &fakeKinetics{rate: zeroRate}
		cfg = DefaultConfig()
	})

	Describe("construction", func() {
		It("derives the surface area from volume and side water depth", func() {
			r, err := New("R1", kin, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(r.SurfaceArea()).To(BeNumerically("~", 380.0/3.5, 1e-9))
		})

		It("rejects a non-positive active volume", func() {
			cfg.ActiveVolume = 0
			_, err := New("R1", kin, cfg)
			Expect(errors.Is(err, biokin.ErrInvalidVolume)).To(BeTrue())
		})

		It("rejects a non-positive side water depth", func() {
			cfg.SideWaterDepth = -1
			_, err := New("R1", kin, cfg)
			Expect(err).To(HaveOccurred())
		})

		It("rejects invalid operating conditions", func() {
			cfg.Temperature = 2
			_, err := New("R1", kin, cfg)
			Expect(errors.Is(err, biokin.ErrInvalidCondition)).To(BeTrue())
		})

		It("forwards conditions to the kinetics model", func() {
			cfg.Temperature = 15
			cfg.DissolvedOxygen = 1.5
			_, err := New("R1", kin, cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(kin.lastTemp).To(Equal(15.0))
			Expect(kin.lastDO).To(Equal(1.5))
		})
	})

	Describe("mutators", func() {
		var r *Reactor

		BeforeEach(func() {
			var err error
			r, err = New("R1", kin, cfg)
			Expect(err).ToNot(HaveOccurred())
		})

		It("accepts a positive volume and recomputes the area", func() {
			Expect(r.SetActiveVolume(700)).To(Succeed())
			Expect(r.ActiveVolume()).To(Equal(700.0))
			Expect(r.SurfaceArea()).To(BeNumerically("~", 200.0, 1e-9))
		})

		It("rejects a non-positive volume leaving state unchanged", func() {
			err := r.SetActiveVolume(-5)
			Expect(errors.Is(err, biokin.ErrInvalidVolume)).To(BeTrue())
			Expect(r.ActiveVolume()).To(Equal(380.0))
		})

		It("rejects crazy temperature or DO leaving conditions unchanged", func() {
			err := r.SetModelConditions(3, 2)
			Expect(errors.Is(err, biokin.ErrInvalidCondition)).To(BeTrue())
			Expect(r.Temperature()).To(Equal(20.0))

			err = r.SetModelConditions(20, -1)
			Expect(errors.Is(err, biokin.ErrInvalidCondition)).To(BeTrue())
			Expect(r.DissolvedOxygen()).To(Equal(2.0))
		})

		It("applies valid condition updates", func() {
			Expect(r.SetModelConditions(12, 3)).To(Succeed())
			Expect(r.Temperature()).To(Equal(12.0))
			Expect(r.DissolvedOxygen()).To(Equal(3.0))
		})
	})

	Describe("initial guess", func() {
		var r *Reactor

		BeforeEach(func() {
			var err error
			r, err = New("R1", kin, cfg)
			Expect(err).ToNot(HaveOccurred())
		})

		It("seeds liquor and secondary outlet with independent copies", func() {
			guess := biokin.ComponentVector{10, 500}
			Expect(r.AssignInitialGuess(guess)).To(Succeed())

			guess[0] = 999
			Expect(r.Liquor()[0]).To(Equal(10.0))
			Expect(r.SecondaryOutlet()[0]).To(Equal(10.0))

			leaked := r.Liquor()
			leaked[1] = -1
			Expect(r.Liquor()[1]).To(Equal(500.0))
		})

		It("rejects a wrong-length guess", func() {
			err := r.AssignInitialGuess(biokin.ComponentVector{1, 2, 3})
			Expect(errors.Is(err, biokin.ErrDimensionMismatch)).To(BeTrue())
		})
	})

	Describe("discharge cycle", func() {
		var (
			r      *Reactor
			source *stream.Source
			outlet *recordingOutlet
		)

		BeforeEach(func() {
			var err error
			r, err = New("R1", kin, cfg)
			Expect(err).ToNot(HaveOccurred())

			source = stream.NewSource(1000, biokin.ComponentVector{200, 100})
			outlet = &recordingOutlet{}
			r.SetUpstream(source)
			r.SetMainOutlet(outlet)
			Expect(r.AssignInitialGuess(biokin.ComponentVector{10, 5})).To(Succeed())
		})

		It("fails without an upstream inlet", func() {
			r.SetUpstream(nil)
			err := r.Discharge()
			var cerr *CycleErr
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Phase).To(Equal(PhaseFlowResolved))
			Expect(r.Phase()).To(Equal(PhaseIdle))
		})

		It("fails on an upstream dimension mismatch", func() {
			r.SetUpstream(stream.NewSource(1000, biokin.ComponentVector{1, 2, 3}))
			err := r.Discharge()
			Expect(errors.Is(err, biokin.ErrDimensionMismatch)).To(BeTrue())
		})

		It("snapshots the pre-step outlet vectors", func() {
			kin.rate = func(c biokin.ComponentVector) biokin.ComponentVector {
				return biokin.ComponentVector{-2, -1}
			}
			Expect(r.Discharge()).To(Succeed())
			Expect(r.PreviousMainOutlet()).To(Equal(biokin.ComponentVector{10, 5}))
			Expect(r.PreviousSecondaryOutlet()).To(Equal(biokin.ComponentVector{10, 5}))
		})

		It("advances liquor by the worked decay example", func() {
			// Soluble bound 10/2=5 scaled by 0.1 gives step 0.5;
			// Euler advances to [9, 4.5].
			kin.rate = func(c biokin.ComponentVector) biokin.ComponentVector {
				return biokin.ComponentVector{-2, -1}
			}
			cfg.SolubleFraction = 0.1
			var err error
			r, err = New("R1", kin, cfg)
			Expect(err).ToNot(HaveOccurred())
			r.SetUpstream(source)
			r.SetMainOutlet(outlet)
			Expect(r.AssignInitialGuess(biokin.ComponentVector{10, 5})).To(Succeed())

			Expect(r.Discharge()).To(Succeed())
			liquor := r.Liquor()
			Expect(liquor[0]).To(BeNumerically("~", 9.0, 1e-12))
			Expect(liquor[1]).To(BeNumerically("~", 4.5, 1e-12))
			Expect(r.LastStepSizes().Soluble).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("publishes the liquor to both outlets as copies", func() {
			Expect(r.Discharge()).To(Succeed())

			Expect(outlet.calls).To(Equal(1))
			Expect(outlet.flow).To(Equal(1000.0))
			Expect(outlet.comps).To(Equal(r.Liquor()))

			secondary := r.SecondaryOutlet()
			secondary[0] = -99
			Expect(r.SecondaryOutlet()[0]).ToNot(Equal(-99.0))
		})

		It("splits the resolved flow by the side fraction", func() {
			cfg.SideFraction = 0.25
			var err error
			r, err = New("R1", kin, cfg)
			Expect(err).ToNot(HaveOccurred())
			r.SetUpstream(source)
			r.SetMainOutlet(outlet)
			Expect(r.AssignInitialGuess(biokin.ComponentVector{10, 5})).To(Succeed())

			Expect(r.Discharge()).To(Succeed())
			Expect(outlet.flow).To(Equal(750.0))
			Expect(r.SideFlow()).To(Equal(250.0))
		})

		It("stays at steady state under zero rate across repeated cycles", func() {
			for i := 0; i < 5; i++ {
				Expect(r.Discharge()).To(Succeed())
			}
			Expect(r.Liquor()).To(Equal(biokin.ComponentVector{10, 5}))
			Expect(r.Phase()).To(Equal(PhaseIdle))
		})

		It("performs exactly one rate evaluation per Euler cycle", func() {
			Expect(r.Discharge()).To(Succeed())
			Expect(kin.rateCalls).To(Equal(1))
		})
	})
})
