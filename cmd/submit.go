package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/helmcode/patient-assistant/pkg/attach"
	"github.com/helmcode/patient-assistant/pkg/formatter"
	"github.com/helmcode/patient-assistant/pkg/intake"
	"github.com/helmcode/patient-assistant/pkg/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	submitFiles        []string
	submitFrom         string
	submitOutputFormat string
	submitValues       map[intake.Field]*string
)

func NewSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit [flags]",
		Short: "Send patient data to the analysis service",
		Long: `Send patient information and documents to the analysis service and show the health insights.

Unset numeric fields keep their defaults (age 45, height 175 cm, weight 85 kg).

Examples:
  # Submit with a question
  patient-assistant submit --age 52 --sex Female --question "Is my blood pressure a concern?"

  # Attach documents
  patient-assistant submit --allergies penicillin --file labs.pdf --file referral.docx

  # Start from an intake file and override one field
  patient-assistant submit --from intake.yaml --weight 80

  # Machine-readable output
  patient-assistant submit --from intake.yaml -o json`,
		Args: cobra.NoArgs,
		RunE: runSubmit,
	}

	submitValues = make(map[intake.Field]*string, len(intake.AllFields()))
	for _, f := range intake.AllFields() {
		submitValues[f] = cmd.Flags().String(flagName(f), "", f.Label())
	}

	cmd.Flags().StringSliceVarP(&submitFiles, "file", "f", []string{}, "Documents to attach (.pdf, .docx), repeatable")
	cmd.Flags().StringVar(&submitFrom, "from", "", "Load fields and files from a YAML intake file")
	cmd.Flags().StringVarP(&submitOutputFormat, "output", "o", "human", "Output format (human, json, yaml)")

	return cmd
}

func flagName(f intake.Field) string {
	return strings.ReplaceAll(f.Key(), "_", "-")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	switch submitOutputFormat {
	case "human", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json, yaml)", submitOutputFormat)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store := intake.NewStore()
	paths, err := loadIntake(store, submitFrom, submitFiles)
	if err != nil {
		return err
	}
	for _, f := range intake.AllFields() {
		if cmd.Flags().Changed(flagName(f)) {
			store.SetField(f, *submitValues[f])
		}
	}

	warnUnaccepted(cmd.ErrOrStderr(), paths)
	files, err := attach.Load(cmd.Context(), paths, logger)
	if err != nil {
		return err
	}
	store.SetFiles(files)

	an := newAnalyzer(cfg, store)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " " + formatter.LoadingLabel
	if submitOutputFormat == "human" {
		s.Start()
	}
	out := an.Submit(cmd.Context())
	s.Stop()

	logger.Debug("Submission settled", zap.Stringer("state", out.State))

	view := formatter.View{
		Fields:  store.Fields(),
		Files:   store.Files(),
		Loading: an.Loading(),
		Outcome: out,
	}
	if err := formatter.Render(cmd.OutOrStdout(), view, submitOutputFormat); err != nil {
		return err
	}

	if out.State == model.StateFailure {
		return ErrSubmissionFailed
	}
	return nil
}
