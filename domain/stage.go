package domain

type Stage string

const (
	StageQueue     Stage = "В очереди"
	StageStart     Stage = "Начало"
	StageMounting  Stage = "Монтаж"
	StageElectrics Stage = "Электрика"
	StageEdits1    Stage = "Первый круг правок"
	StageEdits2    Stage = "Второй круг правок"
	StageEdits3    Stage = "Третий круг правок"
	StageFinish    Stage = "Финиш"
	StageCompleted Stage = "Завершено"
	StageWaiting   Stage = "Ждет информации"
)

// Stages lists every stage in pipeline order; the index is the stage rank.
var Stages = []Stage{
	StageQueue,
	StageStart,
	StageMounting,
	StageElectrics,
	StageEdits1,
	StageEdits2,
	StageEdits3,
	StageFinish,
	StageCompleted,
	StageWaiting,
}

var stageRanks = func() map[Stage]int {
	ranks := make(map[Stage]int, len(Stages))
	for i, s := range Stages {
		ranks[s] = i
	}
	return ranks
}()

// Rank is the position of the stage in the pipeline. Unknown stages rank
// after every known one.
func (s Stage) Rank() int {
	if r, ok := stageRanks[s]; ok {
		return r
	}
	return len(Stages)
}

func (s Stage) Valid() bool {
	_, ok := stageRanks[s]
	return ok
}
