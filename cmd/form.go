package cmd

import (
	"github.com/helmcode/patient-assistant/pkg/formatter"
	"github.com/helmcode/patient-assistant/pkg/intake"
	"github.com/helmcode/patient-assistant/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	formFiles []string
	formFrom  string
)

func NewFormCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form [flags]",
		Short: "Fill in patient data interactively",
		Long: `Open an interactive form for the patient's details, attach documents and submit them
to the analysis service. The form can be edited and resubmitted until you quit.

With --verbose, logs go to patient-assistant.log unless --log-file is set.

Examples:
  # Start from the defaults
  patient-assistant form

  # Pre-fill from an intake file
  patient-assistant form --from intake.yaml`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationLogFile: "patient-assistant.log"},
		RunE:        runForm,
	}

	cmd.Flags().StringSliceVarP(&formFiles, "file", "f", []string{}, "Documents to pre-fill the attachment input with")
	cmd.Flags().StringVar(&formFrom, "from", "", "Pre-fill fields and files from a YAML intake file")

	return cmd
}

func runForm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store := intake.NewStore()
	paths, err := loadIntake(store, formFrom, formFiles)
	if err != nil {
		return err
	}

	out, err := tui.Run(cmd.Context(), store, newAnalyzer(cfg, store), paths, logger)
	if err != nil {
		return err
	}

	formatter.RenderOutcome(cmd.OutOrStdout(), out)
	return nil
}
