package cmd

import (
	"fmt"

	"github.com/corby-engine/setup/requirement"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the required tooling without changing anything",
	Long:  `Runs the Python, Premake and Vulkan SDK checks and prints one status line for each. Fails if Python or the Vulkan SDK is missing.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}

		runtime, buildTool, sdk := env.checkers()
		checks := []struct {
			checker   requirement.Checker
			mandatory bool
		}{
			{checker: runtime, mandatory: true},
			{checker: buildTool, mandatory: false},
			{checker: sdk, mandatory: true},
		}

		var firstFatal error
		for _, c := range checks {
			ok, err := c.checker.Validate(cmd.Context())
			if err != nil {
				logger.Warn("check failed", zap.String("requirement", c.checker.Name()), zap.Error(err))
			}

			status := "ok"
			switch {
			case ok:
			case c.mandatory:
				status = "missing"
				if firstFatal == nil {
					firstFatal = requirement.Fatal(c.checker.Name(), err)
				}
			default:
				status = "missing (optional)"
			}
			fmt.Fprintf(env.out, "  %-12s %s\n", c.checker.Name(), status)
		}

		return firstFatal
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
