package scrollfx

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action    string  `json:"action"`
	Label     string  `json:"label,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	DX        float64 `json:"dx,omitempty"`
	DY        float64 `json:"dy,omitempty"`
	FromX     float64 `json:"fromX,omitempty"`
	FromY     float64 `json:"fromY,omitempty"`
	ToX       float64 `json:"toX,omitempty"`
	ToY       float64 `json:"toY,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	Target    string  `json:"target,omitempty"`
	Key       string  `json:"key,omitempty"`
	Pressed   bool    `json:"pressed,omitempty"`
	Touch     bool    `json:"touch,omitempty"`
	Immediate bool    `json:"immediate,omitempty"`
	Frames    int     `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences injected input, programmatic scrolls, resizes and
// screenshots across frames for automated runs. Attach it with
// Site.SetScript.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	errs      []error
}

// LoadScript parses a JSON script:
//
//	{"steps": [
//	  {"action": "wheel", "dy": 120, "frames": 10},
//	  {"action": "wait", "frames": 60},
//	  {"action": "scrollTo", "target": "#gallery"},
//	  {"action": "screenshot", "label": "gallery"}
//	]}
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "wheel", "pointer", "drag", "key", "scrollTo", "resize", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// LoadScriptFile reads and parses a JSON script file.
func LoadScriptFile(path string) (*ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return LoadScript(data)
}

// SetScript attaches a runner. Its step method runs from Site.Update
// before input is processed each frame.
func (s *Site) SetScript(r *ScriptRunner) { s.runner = r }

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool { return r.done }

// Err returns the errors of every failed step joined, or nil. Failed steps
// do not stop the script.
func (r *ScriptRunner) Err() error { return errors.Join(r.errs...) }

// step advances the runner by one frame.
func (r *ScriptRunner) step(s *Site) {
	if r.done {
		return
	}
	// Wait for injected input to drain before advancing.
	if len(s.injectQueue) > 0 {
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
	case "wheel":
		n := max(st.Frames, 1)
		for i := 0; i < n; i++ {
			s.InjectWheel(st.DX, st.DY)
		}
	case "pointer":
		s.InjectPointer(st.X, st.Y, st.Pressed)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames, st.Touch)
	case "key":
		s.InjectKey(st.Key)
	case "scrollTo":
		opts := ScrollToOptions{Immediate: st.Immediate}
		if st.Target != "" {
			if err := s.ScrollToAnchor(st.Target, opts); err != nil {
				r.errs = append(r.errs, fmt.Errorf("script step %d: %w", r.cursor-1, err))
			}
		} else {
			s.engine.ScrollTo(st.Y, opts)
		}
	case "resize":
		s.Resize(st.Width, st.Height)
	case "screenshot":
		s.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
