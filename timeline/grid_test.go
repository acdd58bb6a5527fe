package timeline_test

import (
	"studioboard/domain"
	"studioboard/timeline"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("BuildMonthGrid", func() {
	p := domain.Project{
		Name: "Лофт", StartDate: "2024-03-04", EndDate: "2024-03-20", Stage: domain.StageMounting,
		Dates: domain.ProjectDates{Mounting: "2024-03-10", Electric: "2024-03-04", Edit1: "2024-03-15"},
	}
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	It("should start the week on monday", func() {
		grid := timeline.BuildMonthGrid(&p, 2024, time.March, now)
		Expect(grid.Month).To(Equal("2024-03"))
		Expect(grid.Label).To(Equal("март 2024"))
		Expect(grid.LeadingBlanks).To(Equal(4))
		Expect(len(grid.Days)).To(Equal(31))

		Expect(timeline.BuildMonthGrid(&p, 2024, time.April, now).LeadingBlanks).To(Equal(0))
		Expect(timeline.BuildMonthGrid(&p, 2024, time.September, now).LeadingBlanks).To(Equal(6))
		Expect(len(timeline.BuildMonthGrid(&p, 2024, time.February, now).Days)).To(Equal(29))
	})

	It("should apply exactly one treatment per day by priority", func() {
		days := timeline.BuildMonthGrid(&p, 2024, time.March, now).Days
		Expect(days[0].Treatment).To(Equal(timeline.TreatmentNone))
		Expect(days[3].Treatment).To(Equal(timeline.TreatmentBoundary))
		Expect(days[3].Milestone).To(BeEmpty())
		Expect(days[4].Treatment).To(Equal(timeline.TreatmentInRange))
		Expect(days[9].Treatment).To(Equal(timeline.TreatmentMilestone))
		Expect(days[9].Milestone).To(Equal(timeline.MilestoneMounting))
		Expect(days[9].InRange).To(BeTrue())
		Expect(days[14].Treatment).To(Equal(timeline.TreatmentToday))
		Expect(days[19].Treatment).To(Equal(timeline.TreatmentBoundary))
		Expect(days[20].Treatment).To(Equal(timeline.TreatmentNone))
		Expect(days[20].InRange).To(BeFalse())
	})

	It("should not shade anything for an unscheduled project", func() {
		broken := domain.Project{Name: "x", StartDate: "bad", EndDate: "2024-03-20"}
		for _, d := range timeline.BuildMonthGrid(&broken, 2024, time.March, now).Days {
			Expect(d.InRange).To(BeFalse())
			Expect(d.Treatment).To(BeElementOf(timeline.TreatmentNone, timeline.TreatmentToday, timeline.TreatmentBoundary))
		}
	})
})
