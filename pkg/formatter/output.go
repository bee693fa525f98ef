package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/helmcode/patient-assistant/pkg/intake"
	"github.com/helmcode/patient-assistant/pkg/model"
	"gopkg.in/yaml.v3"
)

const (
	Title         = "Patient Health Assistant"
	InsightsTitle = "Health Insights"
	FilesLabel    = "Upload Files:"
	SubmitLabel   = "Submit"
	LoadingLabel  = "Processing..."
	ErrorLabel    = "Error:"
)

// View is everything the screen depends on.
type View struct {
	Fields  model.FormFields     `json:"fields" yaml:"fields"`
	Files   []model.AttachedFile `json:"files" yaml:"files"`
	Loading bool                 `json:"loading" yaml:"loading"`
	Outcome model.Outcome        `json:"outcome" yaml:"outcome"`
}

// Render writes the view in the requested format. Identical views produce
// identical output.
func Render(w io.Writer, v View, format string) error {
	switch format {
	case "json":
		return renderJSON(w, v)
	case "yaml":
		return renderYAML(w, v)
	case "human", "":
		renderHuman(w, v)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json, yaml)", format)
	}
}

// RenderOutcome writes only the result panel, if any.
func RenderOutcome(w io.Writer, o model.Outcome) {
	switch o.State {
	case model.StateSuccess:
		renderInsights(w, o.Insight)
	case model.StateFailure:
		renderError(w, o.Message)
	}
}

func renderJSON(w io.Writer, v View) error {
	output, err := json.MarshalIndent(normalize(v), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func renderYAML(w io.Writer, v View) error {
	output, err := yaml.Marshal(normalize(v))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(output))
	return err
}

// normalize keeps machine output stable: an empty file list is [] not null.
func normalize(v View) View {
	if v.Files == nil {
		v.Files = []model.AttachedFile{}
	}
	return v
}

func renderHuman(w io.Writer, v View) {
	cyan := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgWhite, color.Bold)

	cyan.Fprintln(w, Title)
	fmt.Fprintln(w)

	for _, f := range intake.AllFields() {
		value := f.Get(v.Fields)
		if f.IsText() {
			if value == "" {
				fmt.Fprintf(w, "%s %s\n", label.Sprint(f.Label()+":"), color.HiBlackString("-"))
				continue
			}
			fmt.Fprintf(w, "%s\n%s\n", label.Sprint(f.Label()+":"), indent(value, "   "))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", label.Sprint(f.Label()+":"), value)
	}
	fmt.Fprintln(w)

	label.Fprintln(w, FilesLabel)
	if len(v.Files) == 0 {
		fmt.Fprintf(w, "   %s\n", color.HiBlackString("none"))
	}
	for _, f := range v.Files {
		fmt.Fprintf(w, "   • %s %s\n", f.Name, color.HiBlackString("(%s)", humanize.Bytes(uint64(f.Size))))
	}
	fmt.Fprintln(w)

	if v.Loading {
		fmt.Fprintf(w, "[ %s ] %s\n", LoadingLabel, color.HiBlackString("(disabled)"))
		return
	}
	fmt.Fprintf(w, "[ %s ]\n", SubmitLabel)

	RenderOutcome(w, v.Outcome)
}

func renderInsights(w io.Writer, insight string) {
	blue := color.New(color.FgBlue, color.Bold)
	fmt.Fprintln(w)
	blue.Fprintln(w, InsightsTitle)
	fmt.Fprintln(w, insight)
}

func renderError(w io.Writer, message string) {
	red := color.New(color.FgRed, color.Bold)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", red.Sprint(ErrorLabel), color.RedString("%s", message))
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
