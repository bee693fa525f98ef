package formatter

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/helmcode/patient-assistant/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func render(t *testing.T, v View, format string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, v, format))
	return buf.String()
}

func baseView() View {
	fields := model.DefaultFields()
	fields.Question = "Am I drinking enough?"
	return View{
		Fields: fields,
		Files: []model.AttachedFile{
			{Name: "labs.pdf", Size: 2048},
			{Name: "history.docx", Size: 10},
		},
	}
}

func TestRenderHumanSuccess(t *testing.T) {
	v := baseView()
	v.Outcome = model.Succeeded("Drink more water.")

	out := render(t, v, "human")

	assert.True(t, strings.HasPrefix(out, Title+"\n"))
	assert.Contains(t, out, "Age: 45\n")
	assert.Contains(t, out, "Sex: Male\n")
	assert.Contains(t, out, "Height (cm): 175\n")
	assert.Contains(t, out, "Weight (kg): 85\n")
	assert.Contains(t, out, "Allergies: -\n")
	assert.Contains(t, out, "Question:\n   Am I drinking enough?\n")
	assert.Contains(t, out, "   • labs.pdf (2.0 kB)\n")
	assert.Contains(t, out, "   • history.docx (10 B)\n")
	assert.Contains(t, out, "[ Submit ]\n")
	assert.True(t, strings.HasSuffix(out, "\n"+InsightsTitle+"\nDrink more water.\n"))
	assert.NotContains(t, out, ErrorLabel)
}

func TestRenderHumanFailure(t *testing.T) {
	v := baseView()
	v.Outcome = model.Failed("Invalid age value")

	out := render(t, v, "human")

	assert.True(t, strings.HasSuffix(out, "\nError: Invalid age value\n"))
	assert.NotContains(t, out, InsightsTitle)
}

func TestRenderHumanLoadingHidesPanels(t *testing.T) {
	v := baseView()
	v.Loading = true
	v.Outcome = model.Loading()

	out := render(t, v, "human")

	assert.Contains(t, out, "[ "+LoadingLabel+" ] (disabled)\n")
	assert.NotContains(t, out, "[ "+SubmitLabel+" ]")
	assert.NotContains(t, out, InsightsTitle)
	assert.NotContains(t, out, ErrorLabel)
}

func TestRenderHumanIdle(t *testing.T) {
	v := baseView()
	v.Files = nil

	out := render(t, v, "human")

	assert.Contains(t, out, FilesLabel+"\n   none\n")
	assert.True(t, strings.HasSuffix(out, "[ Submit ]\n"))
}

func TestRenderPreservesInsightLineBreaks(t *testing.T) {
	insight := "Recommendations:\n\n1. Sleep 8h\n   - keep a schedule\n2. Hydrate"
	v := baseView()
	v.Outcome = model.Succeeded(insight)

	out := render(t, v, "human")

	assert.Contains(t, out, "\n"+insight+"\n")
}

func TestRenderIsIdempotent(t *testing.T) {
	for _, format := range []string{"human", "json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			v := baseView()
			v.Outcome = model.Succeeded("Drink more water.")

			first := render(t, v, format)
			second := render(t, v, format)

			assert.Equal(t, first, second)
			assert.Equal(t, baseView().Files, v.Files)
		})
	}
}

func TestRenderJSON(t *testing.T) {
	v := baseView()
	v.Files = nil
	v.Outcome = model.Failed("Invalid age value")

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(render(t, v, "json")), &got))

	assert.Equal(t, false, got["loading"])
	assert.Equal(t, []any{}, got["files"])
	assert.Equal(t, map[string]any{"state": "failure", "message": "Invalid age value"}, got["outcome"])
	fields := got["fields"].(map[string]any)
	assert.Equal(t, "45", fields["age"])
	assert.Equal(t, "Am I drinking enough?", fields["question"])
}

func TestRenderYAML(t *testing.T) {
	v := baseView()
	v.Outcome = model.Succeeded("line one\nline two")

	var got struct {
		Outcome struct {
			State   string `yaml:"state"`
			Insight string `yaml:"insight"`
		} `yaml:"outcome"`
		Files []struct {
			Name string `yaml:"name"`
		} `yaml:"files"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(render(t, v, "yaml")), &got))

	assert.Equal(t, "success", got.Outcome.State)
	assert.Equal(t, "line one\nline two", got.Outcome.Insight)
	require.Len(t, got.Files, 2)
	assert.Equal(t, "labs.pdf", got.Files[0].Name)
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, baseView(), "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestRenderOutcome(t *testing.T) {
	var buf bytes.Buffer
	RenderOutcome(&buf, model.Idle())
	RenderOutcome(&buf, model.Loading())
	assert.Empty(t, buf.String())

	RenderOutcome(&buf, model.Failed("Something went wrong."))
	assert.Equal(t, "\nError: Something went wrong.\n", buf.String())
}
