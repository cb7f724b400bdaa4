package livecanvas

import (
	"encoding/json"
	"fmt"
)

// frameStep is a single action in a step script.
type frameStep struct {
	Action string `json:"action"`
	File   string `json:"file,omitempty"`
	Key    string `json:"key,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// stepScript is the top-level JSON structure of a step script.
type stepScript struct {
	Steps []frameStep `json:"steps"`
}

var stepKeys = map[string]Key{
	"escape":    KeyEscape,
	"backquote": KeyBackquote,
}

// StepRunner drives a headless display frame by frame from a JSON script:
//
//	{"steps": [
//		{"action": "wait", "frames": 30},
//		{"action": "save", "file": "out/frame30.png"},
//		{"action": "key", "key": "backquote"},
//		{"action": "quit"}
//	]}
type StepRunner struct {
	steps     []frameStep
	cursor    int
	waitCount int
	done      bool
}

// LoadStepScript parses and validates a step script.
func LoadStepScript(data []byte) (*StepRunner, error) {
	var script stepScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse step script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse step script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "wait", "quit":
		case "save":
			if st.File == "" {
				return nil, fmt.Errorf("parse step script: step %d: save needs a file", i)
			}
		case "key":
			if _, ok := stepKeys[st.Key]; !ok {
				return nil, fmt.Errorf("parse step script: step %d: unknown key %q", i, st.Key)
			}
		default:
			return nil, fmt.Errorf("parse step script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &StepRunner{steps: script.Steps}, nil
}

// Done reports whether every step has run.
func (r *StepRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Injected keys are consumed before
// the next step runs.
func (r *StepRunner) step(d *HeadlessDisplay) {
	if r.done {
		return
	}
	if d.queued() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		r.finish(d)
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "save":
		d.SaveFrame(st.File)
	case "key":
		d.InjectKey(stepKeys[st.Key])
	case "quit":
		d.InjectQuit()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	r.finish(d)
}

// finish marks the runner done once the last step has fully played out.
func (r *StepRunner) finish(d *HeadlessDisplay) {
	if r.cursor >= len(r.steps) && r.waitCount == 0 && d.queued() == 0 {
		r.done = true
	}
}
