package teacher

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ActionDims is the length of curriculum action vectors
const ActionDims int = 3

// ErrInvalidAction is returned when a curriculum action vector cannot
// be decoded
var ErrInvalidAction = errors.New("invalid curriculum action")

// Action is a decoded curriculum action
type Action struct {
	// RobotParam scales the robot start position
	RobotParam float64

	// GoalParam scales the goal position
	GoalParam float64

	// ObstacleCount is the number of obstacles to generate
	ObstacleCount int
}

// DecodeAction decodes an action vector by position into
// [RobotParam, GoalParam, ObstacleCount]. Every component must be
// finite and within [low, high]. The obstacle count is truncated
// towards zero.
func DecodeAction(a mat.Vector, low, high float64) (Action, error) {
	if a == nil || a.Len() != ActionDims {
		length := 0
		if a != nil {
			length = a.Len()
		}
		return Action{}, errors.Wrapf(ErrInvalidAction, "want %d "+
			"components, got %d", ActionDims, length)
	}

	for i := 0; i < ActionDims; i++ {
		v := a.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < low || v > high {
			return Action{}, errors.Wrapf(ErrInvalidAction, "component %d "+
				"= %v outside [%v, %v]", i, v, low, high)
		}
	}

	return Action{
		RobotParam:    a.AtVec(0),
		GoalParam:     a.AtVec(1),
		ObstacleCount: int(a.AtVec(2)),
	}, nil
}
