package teacher

import "fmt"

// Phase is the stage of a single curriculum step the controller is in
type Phase int

const (
	// Idle is the phase between curriculum steps
	Idle Phase = iota

	// ScenarioBuilt denotes that a scenario was generated and scored
	ScenarioBuilt

	// SubSessionRunning denotes that the trainee is being trained on
	// the scenario
	SubSessionRunning

	// Evaluated denotes that the trainee policy was saved and the
	// curriculum reward computed
	Evaluated

	// Advanced denotes that the desired difficulty was reached and the
	// curriculum moved to the next stage
	Advanced

	// Stalled denotes that the desired difficulty was not reached
	Stalled
)

func (p Phase) String() string {
	switch p {
	case ScenarioBuilt:
		return "ScenarioBuilt"
	case SubSessionRunning:
		return "SubSessionRunning"
	case Evaluated:
		return "Evaluated"
	case Advanced:
		return "Advanced"
	case Stalled:
		return "Stalled"
	default:
		return "Idle"
	}
}

// Session holds the state of a curriculum
type Session struct {
	// Episodes is the number of curriculum stages completed
	Episodes int

	CurrentDifficulty float64
	DesiredDifficulty float64

	// RobotLevel counts consecutive successful advance draws
	RobotLevel int

	// TimeSteps is the number of curriculum steps taken since the last
	// reset
	TimeSteps int

	// TraineeReward is the reward the trainee accumulated during the
	// last sub-session
	TraineeReward float64

	Phase Phase
}

func (s Session) String() string {
	return fmt.Sprintf("Session{Episodes: %d, Current: %.3f, Desired: "+
		"%.3f, Level: %d, TimeSteps: %d, Phase: %v}", s.Episodes,
		s.CurrentDifficulty, s.DesiredDifficulty, s.RobotLevel,
		s.TimeSteps, s.Phase)
}
