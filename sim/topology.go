package sim

import (
	"fmt"
	"sort"
)

// Point is a position on the clinic floor plan.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned area on the floor plan. Only renderers read it.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// ResourceID identifies a clinical resource. Distinct type to keep it apart
// from agent and category strings.
type ResourceID string

// ResourceKind classifies a resource.
type ResourceKind string

const (
	KindWaiting      ResourceKind = "waiting"
	KindNurse        ResourceKind = "nurse"
	KindHepatologist ResourceKind = "hepatologist"
	KindMonitoring   ResourceKind = "monitoring"
)

// Resource is a fixed station in the clinic. Capacity 0 means unbounded.
type Resource struct {
	ID       ResourceID   `json:"id"`
	Kind     ResourceKind `json:"kind"`
	Capacity int          `json:"capacity"`
	Anchor   Point        `json:"anchor"`
	Bounds   Rect         `json:"bounds"`
	Door     Point        `json:"door"`
	// Approach lists the corridor waypoints walked before entering the room.
	Approach []Point `json:"approach,omitempty"`
}

// Topology is the immutable floor plan of one clinic instance.
type Topology struct {
	Entry Point `json:"entry"`

	Waiting      Resource   `json:"waiting"`
	NurseRooms   []Resource `json:"nurse_rooms"` // sorted by ascending ID
	Hepatologist Resource   `json:"hepatologist"`
	Monitoring   Resource   `json:"monitoring"`

	// NorthRoom is the nurse room whose patients take the north corridor
	// to monitoring; everyone else takes the south corridor.
	NorthRoom     ResourceID `json:"north_room"`
	NorthCorridor []Point    `json:"north_corridor"`
	SouthCorridor []Point    `json:"south_corridor"`
}

// IDs of the fixed clinic resources. Nurse room IDs must not reuse them.
const (
	WaitingID      ResourceID = "waiting"
	HepatologistID ResourceID = "hepatologist"
	MonitoringID   ResourceID = "monitoring"
)

// Floor plan constants for the generated clinic layout.
const (
	corridorY     = 200.0
	roomPitchX    = 120.0
	firstRoomX    = 240.0
	roomHalfSize  = 40.0
	northRoomY    = 100.0
	southRoomY    = 300.0
	northDoorY    = 160.0
	southDoorY    = 240.0
	monitoringX   = 780.0
	monitoringTop = 140.0
)

// NurseRoomID returns the generated identifier for the i-th (0-based) nurse room.
// Zero-padded so that lexical order matches numeric order.
func NurseRoomID(i int) ResourceID {
	return ResourceID(fmt.Sprintf("nurse-%02d", i+1))
}

// NewClinicTopology lays out a clinic with the given nurse rooms.
// If roomIDs is empty, nurseRooms IDs are generated with NurseRoomID.
// Rooms alternate north and south of the main corridor. northRoom empty
// selects the first room in ascending ID order.
func NewClinicTopology(nurseRooms int, roomIDs []ResourceID, northRoom ResourceID) *Topology {
	ids := make([]ResourceID, 0, nurseRooms)
	if len(roomIDs) > 0 {
		ids = append(ids, roomIDs...)
	} else {
		for i := 0; i < nurseRooms; i++ {
			ids = append(ids, NurseRoomID(i))
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	waitingExit := Point{X: 160, Y: corridorY}
	t := &Topology{
		Entry: Point{X: 0, Y: corridorY},
		Waiting: Resource{
			ID:     WaitingID,
			Kind:   KindWaiting,
			Anchor: Point{X: 100, Y: corridorY},
			Bounds: Rect{Min: Point{X: 60, Y: 160}, Max: Point{X: 140, Y: 240}},
			Door:   waitingExit,
		},
		NurseRooms: make([]Resource, 0, len(ids)),
	}

	for i, id := range ids {
		x := firstRoomX + roomPitchX*float64(i/2)
		anchorY, doorY := northRoomY, northDoorY
		if i%2 == 1 {
			anchorY, doorY = southRoomY, southDoorY
		}
		anchor := Point{X: x, Y: anchorY}
		door := Point{X: x, Y: doorY}
		t.NurseRooms = append(t.NurseRooms, Resource{
			ID:       id,
			Kind:     KindNurse,
			Capacity: 1,
			Anchor:   anchor,
			Bounds:   squareAround(anchor, roomHalfSize),
			Door:     door,
			Approach: []Point{waitingExit, door},
		})
	}

	wingX := firstRoomX + roomPitchX*float64((len(ids)+1)/2)
	hepAnchor := Point{X: wingX, Y: northRoomY}
	hepDoor := Point{X: wingX, Y: northDoorY}
	t.Hepatologist = Resource{
		ID:       HepatologistID,
		Kind:     KindHepatologist,
		Capacity: 1,
		Anchor:   hepAnchor,
		Bounds:   squareAround(hepAnchor, roomHalfSize),
		Door:     hepDoor,
		Approach: []Point{{X: wingX, Y: corridorY}, hepDoor},
	}

	monX := max(monitoringX, wingX+160)
	t.Monitoring = Resource{
		ID:     MonitoringID,
		Kind:   KindMonitoring,
		Anchor: Point{X: monX, Y: monitoringTop},
		Bounds: Rect{Min: Point{X: monX - 20, Y: monitoringTop - 20}, Max: Point{X: monX + 200, Y: monitoringTop + 260}},
		Door:   Point{X: monX - 20, Y: corridorY},
	}

	t.NorthCorridor = []Point{{X: monX - 60, Y: northDoorY - 40}, {X: monX - 20, Y: northDoorY - 40}}
	t.SouthCorridor = []Point{{X: monX - 60, Y: southDoorY + 40}, {X: monX - 20, Y: southDoorY + 40}}

	t.NorthRoom = northRoom
	if t.NorthRoom == "" && len(t.NurseRooms) > 0 {
		t.NorthRoom = t.NurseRooms[0].ID
	}
	return t
}

func squareAround(p Point, half float64) Rect {
	return Rect{
		Min: Point{X: p.X - half, Y: p.Y - half},
		Max: Point{X: p.X + half, Y: p.Y + half},
	}
}

// Resource returns the resource with the given ID, or nil.
func (t *Topology) Resource(id ResourceID) *Resource {
	switch id {
	case t.Waiting.ID:
		return &t.Waiting
	case t.Hepatologist.ID:
		return &t.Hepatologist
	case t.Monitoring.ID:
		return &t.Monitoring
	}
	for i := range t.NurseRooms {
		if t.NurseRooms[i].ID == id {
			return &t.NurseRooms[i]
		}
	}
	return nil
}

// Resources returns every resource, nurse rooms in ascending ID order.
func (t *Topology) Resources() []Resource {
	out := make([]Resource, 0, len(t.NurseRooms)+3)
	out = append(out, t.Waiting)
	out = append(out, t.NurseRooms...)
	out = append(out, t.Hepatologist, t.Monitoring)
	return out
}
