package bramble

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rotisserie/eris"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Key    string  `json:"key,omitempty"`
	Button string  `json:"button,omitempty"`
	X      float32 `json:"x,omitempty"`
	Y      float32 `json:"y,omitempty"`
	Frames int     `json:"frames,omitempty"`

	key    ebiten.Key
	button MouseButton
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input, waits, screenshots and quitting
// across frames for automated runs. Attach with Runtime.SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script:
//
//	{"steps": [
//	  {"action": "key", "key": "Space"},
//	  {"action": "click", "x": 10, "y": 20, "button": "left"},
//	  {"action": "move", "x": 30, "y": 40},
//	  {"action": "wait", "frames": 10},
//	  {"action": "screenshot", "label": "after-jump"},
//	  {"action": "quit"}
//	]}
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, eris.Wrap(err, "bramble: parse test script")
	}
	if len(script.Steps) == 0 {
		return nil, eris.New("bramble: parse test script: no steps")
	}
	for i := range script.Steps {
		if err := script.Steps[i].resolve(); err != nil {
			return nil, eris.Wrapf(err, "bramble: parse test script: step %d", i)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func (st *testStep) resolve() error {
	switch st.Action {
	case "key":
		if err := st.key.UnmarshalText([]byte(st.Key)); err != nil {
			return eris.Errorf("unknown key %q", st.Key)
		}
	case "click":
		switch strings.ToLower(st.Button) {
		case "", "left":
			st.button = MouseButtonLeft
		case "right":
			st.button = MouseButtonRight
		case "middle":
			st.button = MouseButtonMiddle
		default:
			return eris.Errorf("unknown button %q", st.Button)
		}
	case "move", "wait", "screenshot", "quit":
	default:
		return eris.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from Runtime.Update
// before input is sampled.
func (r *TestRunner) step(rt *Runtime) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if rt.injector.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "key":
		rt.injector.InjectKey(st.key)
	case "click":
		rt.injector.InjectClick(st.X, st.Y, st.button)
	case "move":
		rt.injector.InjectMove(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		rt.Screenshot(st.Label)
	case "quit":
		rt.Quit()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && rt.injector.Pending() == 0 {
		r.done = true
	}
}
