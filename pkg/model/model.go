package model

// Sex is the patient's sex as offered by the intake form.
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
	SexOther  Sex = "Other"
)

// Sexes returns the selectable values in display order.
func Sexes() []Sex {
	return []Sex{SexMale, SexFemale, SexOther}
}

// Numeric holds the raw text of a numeric input. It is sent unchecked.
type Numeric string

const (
	DefaultAge    Numeric = "45"
	DefaultHeight Numeric = "175"
	DefaultWeight Numeric = "85"
)

// FormFields is the intake record. One named field per input.
type FormFields struct {
	Age                   Numeric `json:"age" yaml:"age"`
	Sex                   Sex     `json:"sex" yaml:"sex"`
	Height                Numeric `json:"height" yaml:"height"`
	Weight                Numeric `json:"weight" yaml:"weight"`
	Allergies             string  `json:"allergies" yaml:"allergies"`
	PreexistingConditions string  `json:"preexisting_conditions" yaml:"preexisting_conditions"`
	Medications           string  `json:"medications" yaml:"medications"`
	FamilyHistory         string  `json:"family_history" yaml:"family_history"`
	Question              string  `json:"question" yaml:"question"`
}

// DefaultFields returns the record a fresh form starts with.
func DefaultFields() FormFields {
	return FormFields{
		Age:    DefaultAge,
		Sex:    SexMale,
		Height: DefaultHeight,
		Weight: DefaultWeight,
	}
}

// WithDefaults fills empty numeric and enum fields with their initial literals.
func (f FormFields) WithDefaults() FormFields {
	if f.Age == "" {
		f.Age = DefaultAge
	}
	if f.Sex == "" {
		f.Sex = SexMale
	}
	if f.Height == "" {
		f.Height = DefaultHeight
	}
	if f.Weight == "" {
		f.Weight = DefaultWeight
	}
	return f
}

// Pair is one wire key with its text value.
type Pair struct {
	Key   string
	Value string
}

// Pairs returns every field in wire order.
func (f FormFields) Pairs() []Pair {
	return []Pair{
		{"age", string(f.Age)},
		{"sex", string(f.Sex)},
		{"height", string(f.Height)},
		{"weight", string(f.Weight)},
		{"allergies", f.Allergies},
		{"preexisting_conditions", f.PreexistingConditions},
		{"medications", f.Medications},
		{"family_history", f.FamilyHistory},
		{"question", f.Question},
	}
}

// AttachedFile is a selected document. Content is never rendered.
type AttachedFile struct {
	Name        string `json:"name" yaml:"name"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Size        int64  `json:"size" yaml:"size"`
	Content     []byte `json:"-" yaml:"-"`
}

// OutcomeState enumerates the submission states.
type OutcomeState int

const (
	StateIdle OutcomeState = iota
	StateLoading
	StateSuccess
	StateFailure
)

func (s OutcomeState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return "idle"
	}
}

// MarshalText lets json and yaml output use the state name.
func (s OutcomeState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome is the single submission result visible to the view.
// Insight is set only on success, Message only on failure.
type Outcome struct {
	State   OutcomeState `json:"state" yaml:"state"`
	Insight string       `json:"insight,omitempty" yaml:"insight,omitempty"`
	Message string       `json:"message,omitempty" yaml:"message,omitempty"`
}

func Idle() Outcome                    { return Outcome{State: StateIdle} }
func Loading() Outcome                 { return Outcome{State: StateLoading} }
func Succeeded(insight string) Outcome { return Outcome{State: StateSuccess, Insight: insight} }
func Failed(message string) Outcome    { return Outcome{State: StateFailure, Message: message} }

// Settled reports whether the outcome is Success or Failure.
func (o Outcome) Settled() bool {
	return o.State == StateSuccess || o.State == StateFailure
}
