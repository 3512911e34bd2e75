package textfx

import (
	"fmt"
	"sort"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// Easing selects the function that maps a normalized progress in [0, 1] to
// an eased value. Typewriter modules use one easing per animated property.
type Easing uint8

const (
	EaseLinear Easing = iota
	EaseDefault
	EaseQuadIn
	EaseQuadOut
	EaseQuadInOut
	EaseCubicIn
	EaseCubicOut
	EaseCubicInOut
	EaseSineIn
	EaseSineOut
	EaseSineInOut
	EaseExpoIn
	EaseExpoOut
	EaseExpoInOut
	EaseBackIn
	EaseBackOut
	EaseBackInOut
	EaseElasticIn
	EaseElasticOut
	EaseElasticInOut
	EaseBounceIn
	EaseBounceOut
	EaseBounceInOut
	// EaseCustomCurve defers to the module's Curve.
	EaseCustomCurve
)

var easingNames = [...]string{
	EaseLinear:       "linear",
	EaseDefault:      "ease",
	EaseQuadIn:       "quadIn",
	EaseQuadOut:      "quadOut",
	EaseQuadInOut:    "quadInOut",
	EaseCubicIn:      "cubicIn",
	EaseCubicOut:     "cubicOut",
	EaseCubicInOut:   "cubicInOut",
	EaseSineIn:       "sineIn",
	EaseSineOut:      "sineOut",
	EaseSineInOut:    "sineInOut",
	EaseExpoIn:       "expoIn",
	EaseExpoOut:      "expoOut",
	EaseExpoInOut:    "expoInOut",
	EaseBackIn:       "backIn",
	EaseBackOut:      "backOut",
	EaseBackInOut:    "backInOut",
	EaseElasticIn:    "elasticIn",
	EaseElasticOut:   "elasticOut",
	EaseElasticInOut: "elasticInOut",
	EaseBounceIn:     "bounceIn",
	EaseBounceOut:    "bounceOut",
	EaseBounceInOut:  "bounceInOut",
	EaseCustomCurve:  "curve",
}

var easingFuncs = [...]ease.TweenFunc{
	EaseLinear:       ease.Linear,
	EaseDefault:      ease.InOutSine,
	EaseQuadIn:       ease.InQuad,
	EaseQuadOut:      ease.OutQuad,
	EaseQuadInOut:    ease.InOutQuad,
	EaseCubicIn:      ease.InCubic,
	EaseCubicOut:     ease.OutCubic,
	EaseCubicInOut:   ease.InOutCubic,
	EaseSineIn:       ease.InSine,
	EaseSineOut:      ease.OutSine,
	EaseSineInOut:    ease.InOutSine,
	EaseExpoIn:       ease.InExpo,
	EaseExpoOut:      ease.OutExpo,
	EaseExpoInOut:    ease.InOutExpo,
	EaseBackIn:       ease.InBack,
	EaseBackOut:      ease.OutBack,
	EaseBackInOut:    ease.InOutBack,
	EaseElasticIn:    ease.InElastic,
	EaseElasticOut:   ease.OutElastic,
	EaseElasticInOut: ease.InOutElastic,
	EaseBounceIn:     ease.InBounce,
	EaseBounceOut:    ease.OutBounce,
	EaseBounceInOut:  ease.InOutBounce,
}

// String returns the configuration name of the easing.
func (e Easing) String() string {
	if int(e) < len(easingNames) {
		return easingNames[e]
	}
	return fmt.Sprintf("Easing(%d)", e)
}

// TweenFunc returns the gween easing function, or nil for EaseCustomCurve.
func (e Easing) TweenFunc() ease.TweenFunc {
	if e == EaseCustomCurve {
		return nil
	}
	if int(e) < len(easingFuncs) {
		return easingFuncs[e]
	}
	return ease.Linear
}

// Ease maps t in [0, 1] through the easing. EaseCustomCurve evaluates curve,
// falling back to linear when curve is nil.
func (e Easing) Ease(t float64, curve *Curve) float64 {
	if e == EaseCustomCurve {
		if curve == nil {
			return t
		}
		return curve.Evaluate(t)
	}
	fn := e.TweenFunc()
	if fn == nil {
		return t
	}
	return float64(fn(float32(t), 0, 1, 1))
}

// ParseEasing resolves an easing by its configuration name.
func ParseEasing(name string) (Easing, error) {
	for i, n := range easingNames {
		if n == name {
			return Easing(i), nil
		}
	}
	return EaseLinear, fmt.Errorf("textfx: unknown easing %q", name)
}

// MarshalYAML writes the easing by name.
func (e Easing) MarshalYAML() (any, error) {
	return e.String(), nil
}

// UnmarshalYAML reads the easing by name.
func (e *Easing) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseEasing(name)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Keyframe is one control point of a Curve.
type Keyframe struct {
	Time       float64 `yaml:"time"`
	Value      float64 `yaml:"value"`
	InTangent  float64 `yaml:"inTangent,omitempty"`
	OutTangent float64 `yaml:"outTangent,omitempty"`
}

// Curve is a keyframed function evaluated with cubic Hermite interpolation.
// Outside the key range the first or last value is held.
type Curve struct {
	Keys []Keyframe `yaml:"keys"`
}

// NewCurve returns a curve with the given keys sorted by time.
func NewCurve(keys ...Keyframe) *Curve {
	c := &Curve{Keys: append([]Keyframe(nil), keys...)}
	sort.SliceStable(c.Keys, func(i, j int) bool { return c.Keys[i].Time < c.Keys[j].Time })
	return c
}

// DefaultCurve rises to 1 and falls back to 0: (0,0) (0.4,1) (0.6,1) (1,0).
func DefaultCurve() *Curve {
	return NewCurve(
		Keyframe{Time: 0, Value: 0},
		Keyframe{Time: 0.4, Value: 1},
		Keyframe{Time: 0.6, Value: 1},
		Keyframe{Time: 1, Value: 0},
	)
}

// DefaultCurve01 goes from (0,0) to (1,1).
func DefaultCurve01() *Curve {
	return NewCurve(Keyframe{Time: 0, Value: 0}, Keyframe{Time: 1, Value: 1})
}

// Clone returns a deep copy. A nil curve clones to nil.
func (c *Curve) Clone() *Curve {
	if c == nil {
		return nil
	}
	return &Curve{Keys: append([]Keyframe(nil), c.Keys...)}
}

// Evaluate samples the curve at t.
func (c *Curve) Evaluate(t float64) float64 {
	if c == nil || len(c.Keys) == 0 {
		return 0
	}
	keys := c.Keys
	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Value
	}
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Time > t }) - 1
	k0, k1 := keys[i], keys[i+1]
	dt := k1.Time - k0.Time
	if dt <= 0 {
		return k1.Value
	}
	s := (t - k0.Time) / dt
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return h00*k0.Value + h10*dt*k0.OutTangent + h01*k1.Value + h11*dt*k1.InTangent
}

// UnmarshalYAML decodes the keys and sorts them by time.
func (c *Curve) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Keys []Keyframe `yaml:"keys"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*c = *NewCurve(raw.Keys...)
	return nil
}
