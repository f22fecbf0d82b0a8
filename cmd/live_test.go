package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safal938/iso-clinic-v2-sub000/sim"
	"github.com/safal938/iso-clinic-v2-sub000/sim/comparison"
)

// newLiveTestRun returns a comparison whose arms tick every 10ms of wall time.
func newLiveTestRun(t *testing.T) *comparison.ComparativeRun {
	t.Helper()
	base := sim.DefaultSimConfig(1)
	base.Timing.TickDurationMs = 10
	cand := sim.DefaultSimConfig(3)
	cand.Timing.TickDurationMs = 10
	run, err := comparison.NewComparativeRun(comparison.ArmStandard, base, comparison.ArmAugmented, cand)
	require.NoError(t, err)
	return run
}

func decodeFrame(t *testing.T, b []byte) frameMsg {
	t.Helper()
	var f frameMsg
	require.NoError(t, json.Unmarshal(b, &f))
	return f
}

func TestLiveServer_FrameOnlyAdvancesWhenStarted(t *testing.T) {
	s := NewLiveServer(newLiveTestRun(t))

	// GIVEN a paused server, frames do nothing
	assert.Equal(t, 0, s.frame(100))

	// WHEN started, 100ms advances ten ticks on each arm
	s.apply(controlStart)
	assert.Equal(t, 20, s.frame(100))
	assert.True(t, s.running())

	// AND pause stops it again
	s.apply(controlPause)
	assert.Equal(t, 0, s.frame(100))

	// AND reset rewinds both arms
	s.apply(controlReset)
	assert.False(t, s.running())
	for _, a := range s.run.Arms() {
		assert.Equal(t, int64(0), a.Ticks())
	}
}

func TestLiveServer_PublishEncodesBothArms(t *testing.T) {
	s := NewLiveServer(newLiveTestRun(t))
	s.apply(controlStart)
	s.frame(50)
	s.publish()

	f := decodeFrame(t, s.latest)
	assert.Equal(t, "frame", f.Type)
	assert.True(t, f.Running)
	require.Len(t, f.Arms, 2)
	assert.Equal(t, int64(5), f.Arms[comparison.ArmStandard].Tick)
	assert.Equal(t, comparison.ArmAugmented, f.Comparison.Candidate.Arm)
}

func TestLiveServer_Bootstrap(t *testing.T) {
	s := NewLiveServer(newLiveTestRun(t))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/bootstrap")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Arms map[string]struct {
			NurseRooms []json.RawMessage `json:"nurse_rooms"`
		} `json:"arms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Len(t, got.Arms["standard"].NurseRooms, 1)
	assert.Len(t, got.Arms["ai-augmented"].NurseRooms, 3)

	post, err := http.Post(srv.URL+"/bootstrap", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

func TestLiveServer_WebsocketControl(t *testing.T) {
	s := NewLiveServer(newLiveTestRun(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx, 5*time.Millisecond)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	// readUntil returns the first frame satisfying ok.
	readUntil := func(ok func(frameMsg) bool) frameMsg {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		for {
			_, msg, err := conn.ReadMessage()
			require.NoError(t, err)
			if f := decodeFrame(t, msg); ok(f) {
				return f
			}
		}
	}

	// GIVEN the initial paused frame
	first := readUntil(func(frameMsg) bool { return true })
	assert.False(t, first.Running)
	assert.Equal(t, int64(0), first.Arms[comparison.ArmStandard].Tick)

	// WHEN the client starts the run, frames with progress arrive
	require.NoError(t, conn.WriteJSON(controlMsg{Type: controlStart}))
	moving := readUntil(func(f frameMsg) bool { return f.Running && f.Arms[comparison.ArmStandard].Tick > 0 })
	assert.Equal(t, moving.Arms[comparison.ArmStandard].Tick, moving.Arms[comparison.ArmAugmented].Tick)

	// AND reset returns to a paused, empty clinic
	require.NoError(t, conn.WriteJSON(controlMsg{Type: controlReset}))
	reset := readUntil(func(f frameMsg) bool { return !f.Running })
	assert.Equal(t, int64(0), reset.Arms[comparison.ArmStandard].Tick)
	assert.Empty(t, reset.Arms[comparison.ArmStandard].Agents)
}
