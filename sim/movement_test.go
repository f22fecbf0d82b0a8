package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMove_WithinReach_SnapsAndPops(t *testing.T) {
	a := &Agent{Position: Point{X: 0, Y: 0}, Path: []Point{{X: 3, Y: 4}, {X: 100, Y: 4}}}

	move(a, 5)

	assert.Equal(t, Point{X: 3, Y: 4}, a.Position)
	assert.Equal(t, []Point{{X: 100, Y: 4}}, a.Path)
}

func TestMove_SurplusStepNotCarried(t *testing.T) {
	// GIVEN a waypoint 1 unit away and a speed of 10
	a := &Agent{Position: Point{}, Path: []Point{{X: 1, Y: 0}, {X: 50, Y: 0}}}

	// WHEN one step is taken
	move(a, 10)

	// THEN the agent stops on the first waypoint rather than continuing 9 units
	assert.Equal(t, Point{X: 1, Y: 0}, a.Position)
	assert.Len(t, a.Path, 1)
}

func TestMove_OutOfReach_MovesAlongDirection(t *testing.T) {
	a := &Agent{Position: Point{X: 10, Y: 10}, Path: []Point{{X: 10, Y: 0}}}

	move(a, 2)

	assert.InDelta(t, 10, a.Position.X, 1e-9)
	assert.InDelta(t, 8, a.Position.Y, 1e-9)
	assert.Len(t, a.Path, 1)
}

func TestMove_LastWaypoint_LeavesEmptyPath(t *testing.T) {
	a := &Agent{Position: Point{}, Path: []Point{{X: 1, Y: 1}}}

	move(a, 2)

	assert.Empty(t, a.Path)
}

func TestMove_EmptyPath_NoOp(t *testing.T) {
	a := &Agent{Position: Point{X: 7, Y: 7}, Facing: FacingWest}

	move(a, 2)

	assert.Equal(t, Point{X: 7, Y: 7}, a.Position)
	assert.Equal(t, FacingWest, a.Facing)
}

func TestMove_Facing_FollowsHorizontalDirection(t *testing.T) {
	a := &Agent{Position: Point{X: 10}, Path: []Point{{X: 0}}, Facing: FacingEast}
	move(a, 1)
	assert.Equal(t, FacingWest, a.Facing)

	a.Path = []Point{{X: 20}}
	move(a, 1)
	assert.Equal(t, FacingEast, a.Facing)
}
