package textfx

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// scriptStep represents a single action in an animation script.
type scriptStep struct {
	Action  string  `json:"action"`
	Label   string  `json:"label,omitempty"`
	Text    string  `json:"text,omitempty"`
	Class   string  `json:"class,omitempty"`
	Frames  int     `json:"frames,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`
	Time    float64 `json:"time,omitempty"`
	Paused  bool    `json:"paused,omitempty"`
}

// script is the top-level JSON structure of an animation script.
type script struct {
	// DT is the fixed frame delta in seconds. Defaults to 1/60.
	DT    float64      `json:"dt,omitempty"`
	Steps []scriptStep `json:"steps"`
}

var scriptActions = []string{
	"settext", "append", "wait", "advance", "pause", "play", "restart",
	"visible", "hidden", "addclass", "removeclass", "snapshot",
}

// ScriptRunner drives an Animator frame by frame from a JSON script and
// records quad snapshots by label, for deterministic animation tests and
// reproducible demos.
//
//	{"dt": 0.1, "steps": [
//	  {"action": "settext", "text": "<link anim=\"wave\">hi</link>"},
//	  {"action": "wait", "frames": 3},
//	  {"action": "snapshot", "label": "wave-3"}
//	]}
//
// Actions without a duration run immediately one after another; wait and
// advance consume frames, each frame calling Animator.Update once.
type ScriptRunner struct {
	dt        float64
	steps     []scriptStep
	cursor    int
	waitCount int
	frames    int
	done      bool
	snapshots map[string][]Quad
}

// LoadScript parses a JSON animation script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("textfx: parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("textfx: parse script: no steps")
	}
	for i, st := range s.Steps {
		if !slices.Contains(scriptActions, st.Action) {
			return nil, fmt.Errorf("textfx: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	if s.DT <= 0 {
		s.DT = 1.0 / 60
	}
	return &ScriptRunner{dt: s.DT, steps: s.Steps, snapshots: make(map[string][]Quad)}, nil
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool { return r.done }

// Frames returns the number of Update calls made so far.
func (r *ScriptRunner) Frames() int { return r.frames }

// Snapshot returns the quads captured under label.
func (r *ScriptRunner) Snapshot(label string) ([]Quad, bool) {
	q, ok := r.snapshots[label]
	return q, ok
}

// Step runs one frame of the script against a.
func (r *ScriptRunner) Step(a *Animator) {
	if r.done {
		return
	}
	for r.waitCount == 0 && r.cursor < len(r.steps) {
		st := r.steps[r.cursor]
		r.cursor++
		r.exec(a, st)
	}
	if r.waitCount > 0 {
		r.waitCount--
		a.Update(r.dt)
		r.frames++
	}
	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

// Run steps until the script is done or maxFrames frames have passed. It
// reports whether the script finished.
func (r *ScriptRunner) Run(a *Animator, maxFrames int) bool {
	for !r.done && r.frames < maxFrames {
		r.Step(a)
	}
	return r.done
}

func (r *ScriptRunner) exec(a *Animator, st scriptStep) {
	switch st.Action {
	case "settext":
		a.SetText(st.Text)
	case "append":
		a.SetText(a.Markup().Source + st.Text)
	case "wait":
		r.waitCount = max(st.Frames, 1)
	case "advance":
		r.waitCount = max(int(math.Ceil(st.Seconds/r.dt-1e-9)), 1)
	case "pause":
		a.Pause()
	case "play":
		a.Play()
	case "restart":
		a.Restart(st.Paused, st.Time)
	case "visible":
		a.SetVisible(true)
	case "hidden":
		a.SetVisible(false)
	case "addclass":
		a.AddClass(st.Class)
	case "removeclass":
		a.RemoveClass(st.Class)
	case "snapshot":
		r.snapshots[st.Label] = slices.Clone(a.Quads())
	}
}
