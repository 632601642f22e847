package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"go.trai.ch/vellum/internal/app"
	"go.trai.ch/vellum/internal/core/domain"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [main-file]",
		Short: "Compile the main document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var main string
			if len(args) == 1 {
				main = args[0]
			}

			rawInputs, _ := cmd.Flags().GetStringArray("input")
			inputs, err := parseInputs(rawInputs)
			if err != nil {
				return err
			}

			out, err := c.app.Compile(cmd.Context(), app.CompileOptions{
				Dir:    configDir(cmd),
				Main:   main,
				Inputs: inputs,
			})
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			return os.WriteFile(output, out, domain.FilePerm)
		},
	}
	cmd.Flags().StringArrayP("input", "i", nil, "Input value as key=value, repeatable")
	cmd.Flags().StringP("output", "o", "", "Write the compiled document to this file instead of stdout")
	return cmd
}

func parseInputs(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	inputs := make(map[string]string, len(raw))
	for _, pair := range raw {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, zerr.With(domain.ErrInvalidInput, "input", pair)
		}
		inputs[key] = value
	}
	return inputs, nil
}
