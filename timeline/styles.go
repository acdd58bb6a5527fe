package timeline

import "studioboard/domain"

const DefaultStageStyle = "bg-gray-200 text-gray-700"

var StageStyles = map[domain.Stage]string{
	domain.StageQueue:     "bg-gray-100 text-gray-500 border border-gray-200",
	domain.StageStart:     "bg-blue-50 text-blue-700",
	domain.StageMounting:  "bg-yellow-100 text-yellow-700",
	domain.StageElectrics: "bg-orange-100 text-orange-700",
	domain.StageEdits1:    "bg-purple-100 text-purple-700",
	domain.StageEdits2:    "bg-purple-200 text-purple-800",
	domain.StageEdits3:    "bg-purple-300 text-purple-900",
	domain.StageFinish:    "bg-teal-100 text-teal-700",
	domain.StageCompleted: "bg-green-100 text-green-700",
	domain.StageWaiting:   "bg-red-50 text-red-600",
}

func StageStyle(stage domain.Stage) string {
	if style, ok := StageStyles[stage]; ok {
		return style
	}
	return DefaultStageStyle
}

// MilestoneKind names a milestone date of a project.
type MilestoneKind string

const (
	MilestoneMounting MilestoneKind = "mounting"
	MilestoneElectric MilestoneKind = "electric"
	MilestoneEdit1    MilestoneKind = "edit1"
	MilestoneEdit2    MilestoneKind = "edit2"
	MilestoneEdit3    MilestoneKind = "edit3"
)

var milestoneStyles = map[MilestoneKind]string{
	MilestoneMounting: "bg-yellow-400",
	MilestoneElectric: "bg-orange-400",
	MilestoneEdit1:    "bg-purple-400",
	MilestoneEdit2:    "bg-purple-400",
	MilestoneEdit3:    "bg-purple-400",
}

type milestoneDate struct {
	kind MilestoneKind
	date string
}

// milestones lists the milestone dates in priority order.
func milestones(d *domain.ProjectDates) []milestoneDate {
	return []milestoneDate{
		{MilestoneMounting, d.Mounting},
		{MilestoneElectric, d.Electric},
		{MilestoneEdit1, d.Edit1},
		{MilestoneEdit2, d.Edit2},
		{MilestoneEdit3, d.Edit3},
	}
}
