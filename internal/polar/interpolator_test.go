package polar_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sailsim/internal/polar"
)

var _ = Describe("Interpolator", func() {
	var ip *polar.Interpolator

	BeforeEach(func() {
		ip = polar.NewInterpolator(polar.Dinghy())
	})

	It("returns grid values at breakpoints", func() {
		Expect(ip.SpeedFor(8, 90)).To(Equal(5.4))
		Expect(ip.SpeedFor(10, 90)).To(Equal(6.1))
		Expect(ip.SpeedFor(20, 180)).To(Equal(7.6))
		Expect(ip.SpeedFor(4, 45)).To(Equal(2.6))
	})

	It("interpolates halfway between wind speed rows", func() {
		Expect(ip.SpeedFor(9, 90)).To(BeNumerically("~", (5.4+6.1)/2, 1e-9))
	})

	It("interpolates across both axes", func() {
		// rows 8 and 10 between 90 and 110 degrees
		want := ((5.4+5.4)/2 + (6.1+6.4)/2) / 2
		Expect(ip.SpeedFor(9, 100)).To(BeNumerically("~", want, 0.005))
	})

	It("is idempotent", func() {
		for _, tws := range []float64{3, 7.3, 11, 25} {
			for _, twa := range []float64{0, 37, 91.5, 179} {
				Expect(ip.SpeedFor(tws, twa)).To(Equal(ip.SpeedFor(tws, twa)))
			}
		}
	})

	It("gives the same answer on either tack", func() {
		for _, twa := range []float64{30, 60, 97, 145, 180} {
			Expect(ip.SpeedFor(12, -twa)).To(Equal(ip.SpeedFor(12, twa)))
			Expect(ip.SpeedFor(12, 360-twa)).To(Equal(ip.SpeedFor(12, twa)))
		}
	})

	It("folds angles past 180 back onto the other tack", func() {
		Expect(ip.SpeedFor(10, 200)).To(Equal(ip.SpeedFor(10, 160)))
		Expect(ip.SpeedFor(10, 200)).To(Equal(5.13))
		Expect(ip.SpeedFor(10, -200)).To(Equal(5.13))
		Expect(ip.SpeedFor(10, 540)).To(Equal(ip.SpeedFor(10, 180)))
		Expect(ip.SpeedFor(10, 200)).NotTo(Equal(ip.SpeedFor(10, 180)))
	})

	It("clamps below the table minimum", func() {
		Expect(ip.SpeedFor(2, 90)).To(Equal(ip.SpeedFor(4, 90)))
		Expect(ip.SpeedFor(0, 90)).To(Equal(3.4))
		Expect(ip.SpeedFor(10, 20)).To(Equal(ip.SpeedFor(10, 45)))
	})

	It("clamps above the table maximum", func() {
		Expect(ip.SpeedFor(40, 120)).To(Equal(12.0))
	})

	It("maps NaN to the table minimum", func() {
		Expect(ip.SpeedFor(math.NaN(), 90)).To(Equal(ip.SpeedFor(4, 90)))
		Expect(ip.SpeedFor(10, math.NaN())).To(Equal(ip.SpeedFor(10, 45)))
	})

	It("rounds to two decimals", func() {
		v := ip.SpeedFor(9.37, 83.1)
		Expect(math.Round(v*100) / 100).To(Equal(v))
	})

	Describe("Curve", func() {
		It("spans the angle envelope", func() {
			pts := ip.Curve(10, 10)
			Expect(pts[0].Angle).To(Equal(45.0))
			Expect(pts[len(pts)-1].Angle).To(Equal(180.0))
			for _, p := range pts {
				Expect(p.Speed).To(Equal(ip.SpeedFor(10, p.Angle)))
			}
		})

		It("falls back to one degree steps", func() {
			Expect(ip.Curve(10, 0)).To(HaveLen(136))
			Expect(ip.Curve(10, math.NaN())).To(HaveLen(136))
		})

		It("raises tiny steps to the minimum", func() {
			pts := ip.Curve(10, 1e-12)
			Expect(len(pts)).To(BeNumerically(">=", 1351))
			Expect(len(pts)).To(BeNumerically("<=", 1352))
			Expect(pts[1].Angle - pts[0].Angle).To(BeNumerically("~", polar.MinCurveStep, 1e-9))
			Expect(pts[len(pts)-1].Angle).To(BeNumerically("~", 180, 1e-9))
		})
	})

	Describe("BestVMG", func() {
		It("finds an upwind angle forward of the beam and a downwind one aft", func() {
			up, down := ip.BestVMG(12)
			Expect(up.Angle).To(BeNumerically("<", 90))
			Expect(up.VMG).To(BeNumerically(">", 0))
			Expect(down.Angle).To(BeNumerically(">", 90))
			Expect(down.VMG).To(BeNumerically(">", 0))
			Expect(up.VMG).To(BeNumerically("<=", up.Speed))
		})
	})

	It("reports its table", func() {
		Expect(ip.Table()).To(BeIdenticalTo(polar.Dinghy()))
	})
})
