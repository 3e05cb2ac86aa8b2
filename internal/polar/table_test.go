package polar_test

import (
	"bytes"
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sailsim/internal/polar"
)

var _ = Describe("Table", func() {
	tws := []float64{4, 8}
	twa := []float64{45, 90, 180}
	grid := [][]float64{{1, 2, 1.5}, {3, 4, 3.5}}

	It("accepts a well-formed grid", func() {
		t, err := polar.NewTable("t", "1", tws, twa, grid)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Name()).To(Equal("t"))
		Expect(t.Version()).To(Equal("1"))
		Expect(t.At(1, 2)).To(Equal(3.5))
		Expect(t.String()).To(Equal("t@1 (2x3)"))

		minTWS, maxTWS, minTWA, maxTWA := t.Envelope()
		Expect([]float64{minTWS, maxTWS, minTWA, maxTWA}).To(Equal([]float64{4, 8, 45, 180}))
	})

	It("copies its inputs", func() {
		speeds := []float64{4, 8}
		row := [][]float64{{1, 2, 1.5}, {3, 4, 3.5}}
		t, err := polar.NewTable("t", "1", speeds, twa, row)
		Expect(err).NotTo(HaveOccurred())

		speeds[0] = 100
		row[0][0] = 100
		Expect(t.WindSpeeds()[0]).To(Equal(4.0))
		Expect(t.At(0, 0)).To(Equal(1.0))

		t.WindAngles()[0] = -1
		Expect(t.WindAngles()[0]).To(Equal(45.0))
	})

	DescribeTable("rejects malformed tables",
		func(tws, twa []float64, grid [][]float64, want error) {
			_, err := polar.NewTable("bad", "1", tws, twa, grid)
			Expect(err).To(MatchError(want))
		},
		Entry("single speed", []float64{4}, []float64{45, 90}, [][]float64{{1, 2}}, polar.ErrTooFewBreakpoints),
		Entry("descending speeds", []float64{8, 4}, []float64{45, 90}, [][]float64{{1, 2}, {1, 2}}, polar.ErrNotAscending),
		Entry("duplicate angles", []float64{4, 8}, []float64{45, 45}, [][]float64{{1, 2}, {1, 2}}, polar.ErrNotAscending),
		Entry("nan breakpoint", []float64{4, math.NaN()}, []float64{45, 90}, [][]float64{{1, 2}, {1, 2}}, polar.ErrNotAscending),
		Entry("angle above 180", []float64{4, 8}, []float64{45, 190}, [][]float64{{1, 2}, {1, 2}}, polar.ErrAngleRange),
		Entry("negative angle", []float64{4, 8}, []float64{-10, 90}, [][]float64{{1, 2}, {1, 2}}, polar.ErrAngleRange),
		Entry("negative wind speed", []float64{-2, 8}, []float64{45, 90}, [][]float64{{1, 2}, {1, 2}}, polar.ErrBadSpeed),
		Entry("missing row", []float64{4, 8}, []float64{45, 90}, [][]float64{{1, 2}}, polar.ErrShapeMismatch),
		Entry("short row", []float64{4, 8}, []float64{45, 90}, [][]float64{{1, 2}, {1}}, polar.ErrShapeMismatch),
		Entry("negative speed", []float64{4, 8}, []float64{45, 90}, [][]float64{{1, 2}, {1, -2}}, polar.ErrBadSpeed),
		Entry("infinite speed", []float64{4, 8}, []float64{45, 90}, [][]float64{{1, 2}, {math.Inf(1), 2}}, polar.ErrBadSpeed),
	)

	Describe("built-in tables", func() {
		It("registers every table by name", func() {
			Expect(polar.BuiltinNames()).To(Equal([]string{"dinghy", "keelboat"}))
			for _, name := range polar.BuiltinNames() {
				t, err := polar.Builtin(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(t.Name()).To(Equal(name))
				Expect(t.Version()).NotTo(BeEmpty())
			}
		})

		It("serves the same instances as the accessors", func() {
			d, err := polar.Builtin("dinghy")
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(BeIdenticalTo(polar.Dinghy()))
			k, err := polar.Builtin("keelboat")
			Expect(err).NotTo(HaveOccurred())
			Expect(k).To(BeIdenticalTo(polar.Keelboat()))
		})

		It("reports unknown names", func() {
			_, err := polar.Builtin("catamaran")
			Expect(err).To(MatchError(ContainSubstring("unknown polar table")))
		})
	})

	Describe("YAML files", func() {
		It("round-trips a built-in table", func() {
			var buf bytes.Buffer
			Expect(polar.Encode(&buf, polar.Dinghy())).To(Succeed())

			t, err := polar.LoadTable(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.String()).To(Equal(polar.Dinghy().String()))
			Expect(t.WindAngles()).To(Equal(polar.Dinghy().WindAngles()))
			Expect(t.At(4, 6)).To(Equal(polar.Dinghy().At(4, 6)))
		})

		It("rejects unknown keys", func() {
			doc := "name: x\nversion: '1'\ntws: [4, 8]\ntwa: [45, 90]\nspeeds: [[1, 2], [3, 4]]\ncolour: red\n"
			_, err := polar.LoadTable(strings.NewReader(doc))
			Expect(err).To(HaveOccurred())
		})

		It("validates the grid", func() {
			doc := "name: x\nversion: '1'\ntws: [8, 4]\ntwa: [45, 90]\nspeeds: [[1, 2], [3, 4]]\n"
			_, err := polar.LoadTable(strings.NewReader(doc))
			Expect(err).To(MatchError(polar.ErrNotAscending))
			Expect(err.Error()).To(ContainSubstring("table x"))
		})

		It("requires a name and version", func() {
			_, err := polar.LoadTable(strings.NewReader("tws: [4, 8]\n"))
			Expect(err).To(MatchError(ContainSubstring("name is required")))

			_, err = polar.LoadTable(strings.NewReader("name: x\n"))
			Expect(err).To(MatchError(ContainSubstring("version is required")))
		})
	})
})
