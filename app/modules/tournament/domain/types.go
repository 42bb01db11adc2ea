package tournamentdomain

// Gender of the draw.
type Gender string

const (
	GenderMen   Gender = "MEN"
	GenderWomen Gender = "WOMEN"
)

func (g Gender) Valid() bool {
	return g == GenderMen || g == GenderWomen
}

// Level selects the round preset used when a tournament is created.
type Level string

const (
	LevelGrandSlam Level = "GRAND_SLAM"
	LevelATP1000   Level = "ATP_1000"
	LevelATP500    Level = "ATP_500"
	LevelATP250    Level = "ATP_250"
	LevelWTA1000   Level = "WTA_1000"
	LevelWTA500    Level = "WTA_500"
	LevelWTA250    Level = "WTA_250"
)

// Status is the tournament lifecycle state.
type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

var statusOrder = map[Status]int{
	StatusUpcoming:  0,
	StatusActive:    1,
	StatusCompleted: 2,
}

func (s Status) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// CanTransitionTo reports whether next is the single step after s.
// Status never regresses and never skips ACTIVE.
func (s Status) CanTransitionTo(next Status) bool {
	from, ok := statusOrder[s]
	if !ok {
		return false
	}
	to, ok := statusOrder[next]
	if !ok {
		return false
	}
	return to == from+1
}
