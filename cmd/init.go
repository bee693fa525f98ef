package cmd

import (
	"fmt"
	"os"

	"github.com/helmcode/patient-assistant/pkg/intake"
	"github.com/spf13/cobra"
)

const defaultIntakePath = "intake.yaml"

var initForce bool

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write an intake file template",
		Long: `Write a YAML intake file with the default values, ready to edit and pass to --from.

Examples:
  patient-assistant init
  patient-assistant init visits/2024-05.yaml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}

	cmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	path := defaultIntakePath
	if len(args) == 1 {
		path = args[0]
	}

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}

	if err := intake.SaveFile(path, intake.Template()); err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Wrote intake template to %s", path))
	return nil
}
