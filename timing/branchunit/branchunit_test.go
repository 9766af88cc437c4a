package branchunit_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/timing/branchunit"
)

var _ = Describe("BranchUnit", func() {
	newStatic := func() *predictor.Predictor {
		p, err := predictor.New(predictor.Config{
			Kind:              predictor.KindStatic,
			GlobalHistoryBits: predictor.DefaultGlobalHistoryBits,
		})
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	conditional := func(pc uint64, outcome predictor.Outcome) predictor.Branch {
		return predictor.Branch{
			PC:          pc,
			Outcome:     outcome,
			Conditional: true,
		}
	}

	It("should retire one branch per cycle without mispredictions", func() {
		branches := []predictor.Branch{
			conditional(0x10, predictor.Taken),
			conditional(0x20, predictor.Taken),
			conditional(0x30, predictor.Taken),
		}

		report, err := branchunit.Simulate(newStatic(), branches, 12)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.Branches).To(Equal(uint64(3)))
		Expect(report.Cycles).To(Equal(uint64(3)))
		Expect(report.StallCycles).To(Equal(uint64(0)))
		Expect(report.Mispredictions).To(Equal(uint64(0)))
		Expect(report.CPB).To(BeNumerically("~", 1.0, 0.001))
	})

	It("should charge the penalty for each misprediction", func() {
		// Static predicts taken, so the middle branch mispredicts.
		branches := []predictor.Branch{
			conditional(0x10, predictor.Taken),
			conditional(0x20, predictor.NotTaken),
			conditional(0x30, predictor.Taken),
		}

		report, err := branchunit.Simulate(newStatic(), branches, 2)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.Branches).To(Equal(uint64(3)))
		Expect(report.Mispredictions).To(Equal(uint64(1)))
		Expect(report.StallCycles).To(Equal(uint64(2)))
		Expect(report.Cycles).To(Equal(uint64(5)))
	})

	It("should not consult the predictor for unconditional branches", func() {
		branches := []predictor.Branch{
			{PC: 0x10, Outcome: predictor.Taken, Call: true},
			{PC: 0x20, Outcome: predictor.NotTaken, Ret: true},
		}

		pred := newStatic()
		report, err := branchunit.Simulate(pred, branches, 12)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.Branches).To(Equal(uint64(2)))
		Expect(report.Cycles).To(Equal(uint64(2)))
		Expect(report.Mispredictions).To(Equal(uint64(0)))
		Expect(pred.Stats().Predictions).To(Equal(uint64(0)))
	})

	It("should drain the final stall before stopping", func() {
		branches := []predictor.Branch{
			conditional(0x10, predictor.NotTaken),
		}

		report, err := branchunit.Simulate(newStatic(), branches, 3)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.Cycles).To(Equal(uint64(4)))
		Expect(report.StallCycles).To(Equal(uint64(3)))
	})

	It("should handle an empty trace", func() {
		report, err := branchunit.Simulate(newStatic(), nil, 12)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.Branches).To(Equal(uint64(0)))
		Expect(report.Cycles).To(Equal(uint64(0)))
		Expect(report.CPB).To(BeNumerically("~", 0.0, 0.001))
	})

	It("should reward a better predictor with fewer cycles", func() {
		// A heavily biased branch: gshare learns it, static cannot.
		var branches []predictor.Branch
		for i := 0; i < 200; i++ {
			branches = append(branches, conditional(0x400840, predictor.NotTaken))
		}

		staticReport, err := branchunit.Simulate(newStatic(), branches, 12)
		Expect(err).NotTo(HaveOccurred())

		gshare, err := predictor.New(predictor.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		gshareReport, err := branchunit.Simulate(gshare, branches, 12)
		Expect(err).NotTo(HaveOccurred())

		Expect(gshareReport.Cycles).To(BeNumerically("<", staticReport.Cycles))
	})
})
