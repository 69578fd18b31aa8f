package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrInvalidPayload is returned by validate when the payload fails at least
// one rule. The result has already been printed.
var ErrInvalidPayload = errors.New("payload failed validation")

func newValidateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <entity> [file|-]",
		Short: "Validate a JSON payload as the named entity",
		Long: `Validate a JSON object as one of the entity kinds listed by "entities".

The validation result is printed as JSON. The command exits non-zero when the
payload is invalid.

Examples:
  heritagectl validate user_registration signup.json
  echo '{"email":"a@b.co"}' | heritagectl validate user_registration`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[1:])
			if err != nil {
				return err
			}
			var raw map[string]any
			if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
				return fmt.Errorf("payload must be a JSON object")
			}
			if err := e.services(); err != nil {
				return err
			}
			res, err := e.validation.Validate(cmd.Context(), args[0], raw)
			if err != nil {
				return err
			}
			if err := printJSON(cmd, res); err != nil {
				return err
			}
			if !res.IsValid {
				return ErrInvalidPayload
			}
			return nil
		},
	}
}

func newSanitizeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize [file|-]",
		Short: "Strip markup and SQL fragments from a JSON value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var value any
			if err := json.Unmarshal(data, &value); err != nil {
				return fmt.Errorf("input is not JSON: %w", err)
			}
			if err := e.services(); err != nil {
				return err
			}
			return printJSON(cmd, e.validation.Sanitize(cmd.Context(), value))
		},
	}
}

func newEntitiesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List the entity kinds validate accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.services(); err != nil {
				return err
			}
			for _, kind := range e.validation.Entities() {
				fmt.Fprintln(cmd.OutOrStdout(), kind)
			}
			return nil
		},
	}
}
