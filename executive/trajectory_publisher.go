package executive

import (
	"github.com/afb2001/CCOM_planner/common"
	"github.com/afb2001/CCOM_planner/planner"
	"github.com/afb2001/CCOM_planner/ribbon"
)

// TrajectoryPublisher is the Executive's one dependency on the outside
// world: whatever drives the vehicle (a controller node, a simulator, a
// test double) implements this to receive plans and report time.
type TrajectoryPublisher interface {
	// Time returns the current time in the same units as common.State.Time.
	Time() float64
	// PublishPlan hands the chosen plan to the controller and returns the
	// state the controller says it will actually start from -- which may
	// differ from the plan's nominal start if the controller couldn't
	// keep up.
	PublishPlan(plan *planner.DubinsPlan) common.State
	// DisplayTrajectory is a best-effort visualization hook that receives
	// the current plan together with the remaining ribbons; a
	// TrajectoryPublisher that doesn't care can make it a no-op.
	DisplayTrajectory(plan *planner.DubinsPlan, ribbons ribbon.Manager)
	// AllDone is called once, when every ribbon has been covered.
	AllDone()
}
