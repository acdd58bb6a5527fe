package timeline_test

import (
	"studioboard/domain"
	"studioboard/timeline"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Render", func() {
	var (
		dir      domain.Directory
		projects []domain.Project
		window   timeline.Window
		now      time.Time
	)

	BeforeEach(func() {
		dir = domain.NewDirectory([]domain.User{
			{ID: 10, Username: "irina", FullName: "Ирина", Role: domain.RoleArchitect},
			{ID: 20, Username: "oleg", FullName: "Олег", Role: domain.RoleDesigner},
		})
		a := scheduled("2024-01-10", "2024-01-20")
		a.ID, a.ArchitectID, a.DesignerID = 1, 10, 20
		a.Dates = domain.ProjectDates{Mounting: "2024-01-12", Electric: "bad", Edit1: "2023-01-01"}
		b := scheduled("2024-01-15", "2024-02-04")
		b.ID, b.ArchitectID, b.DesignerID, b.Stage = 2, 99, 98, domain.Stage("архив")
		c := scheduled("", "2024-01-20")
		c.ID = 3
		projects = []domain.Project{a, b, c}
		now = time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
		window = timeline.NewWindow(projects, now)
	})

	It("should lay out rows in input order", func() {
		chart := timeline.Render(window, projects, dir, &domain.User{ID: 1, Role: domain.RoleAdmin}, now)
		Expect(chart.Window).To(Equal(window))
		Expect(len(chart.Rows)).To(Equal(3))
		Expect(chart.Rows[0].ProjectID).To(BeEquivalentTo(1))
		Expect(chart.Rows[1].ProjectID).To(BeEquivalentTo(2))
		Expect(chart.Rows[2].ProjectID).To(BeEquivalentTo(3))

		row := chart.Rows[0]
		Expect(row.Left).To(BeNumerically("~", 100.0*5/35, 1e-9))
		Expect(row.Width).To(BeNumerically("~", 100.0*10/35, 1e-9))
		Expect(row.ColorClass).To(Equal("bg-blue-50 text-blue-700"))
		Expect(row.OverlayLabel).To(Equal("Начало"))
		Expect(row.Unscheduled).To(BeFalse())
	})

	It("should fall back to the neutral style for an unknown stage", func() {
		chart := timeline.Render(window, projects, dir, nil, now)
		Expect(chart.Rows[1].ColorClass).To(Equal(timeline.DefaultStageStyle))
	})

	It("should flag unscheduled projects with zero geometry", func() {
		chart := timeline.Render(window, projects, dir, nil, now)
		Expect(chart.Rows[2].Unscheduled).To(BeTrue())
		Expect(chart.Rows[2].Left).To(Equal(0.0))
		Expect(chart.Rows[2].Width).To(Equal(0.0))
		Expect(chart.Rows[2].Milestones).To(BeEmpty())
	})

	It("should show the counterpart by viewer perspective", func() {
		byDesigner := timeline.Render(window, projects, dir, &domain.User{ID: 20, Role: domain.RoleDesigner}, now)
		Expect(byDesigner.Rows[0].CounterpartName).To(Equal("Ирина"))

		byArchitect := timeline.Render(window, projects, dir, &domain.User{ID: 10, Role: domain.RoleArchitect}, now)
		Expect(byArchitect.Rows[0].CounterpartName).To(Equal("Олег"))

		byAdmin := timeline.Render(window, projects, dir, &domain.User{ID: 1, Role: domain.RoleAdmin}, now)
		Expect(byAdmin.Rows[0].CounterpartName).To(Equal("Олег"))
		Expect(byAdmin.Rows[1].CounterpartName).To(BeEmpty())
	})

	It("should keep only parseable milestones inside the window", func() {
		chart := timeline.Render(window, projects, dir, nil, now)
		Expect(chart.Rows[0].Milestones).To(Equal([]timeline.Milestone{
			{Kind: timeline.MilestoneMounting, Date: "2024-01-12", Position: window.Position(day(2024, 1, 12)), Style: "bg-yellow-400"},
		}))
	})

	It("should draw gridlines for months inside the window", func() {
		chart := timeline.Render(window, projects, dir, nil, now)
		Expect(len(chart.Gridlines)).To(Equal(1))
		Expect(chart.Gridlines[0].Month).To(Equal("2024-02"))
		Expect(chart.Gridlines[0].Label).To(Equal("февраль 2024"))
		Expect(chart.Gridlines[0].Position).To(BeNumerically("~", 100.0*27/35, 1e-9))
	})

	It("should place the today marker only inside the window", func() {
		chart := timeline.Render(window, projects, dir, nil, now)
		Expect(chart.Today).ToNot(BeNil())
		Expect(*chart.Today).To(BeNumerically("~", 100.0*15/35, 1e-9))

		later := timeline.Render(window, projects, dir, nil, day(2025, 1, 1))
		Expect(later.Today).To(BeNil())
	})

	It("should render an empty chart on the default window", func() {
		w := timeline.NewWindow(nil, now)
		chart := timeline.Render(w, nil, dir, nil, now)
		Expect(chart.Rows).To(BeEmpty())
		Expect(chart.Today).ToNot(BeNil())
		Expect(*chart.Today).To(Equal(0.0))
	})
})
