package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-feedback/internal/schemas"
)

// errValidationFailed makes the command exit non-zero after printing the
// field errors.
var errValidationFailed = errors.New("document does not match the schema")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON document against a schema",
	Long: `Validates a JSON file against one of the embedded schemas (--kind) or against
a schema file on disk (--schema).`,
	RunE: runValidate,
}

var (
	validateJSON   string
	validateKind   string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "Path to the JSON file (required)")
	validateCmd.Flags().StringVarP(&validateKind, "kind", "k", "", "Embedded schema: analysis, ordered or snapshot")
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Path to a JSON Schema file")

	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}
	validateCmd.MarkFlagsMutuallyExclusive("kind", "schema")
	validateCmd.MarkFlagsOneRequired("kind", "schema")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if validateSchema != "" {
		err = schemas.ValidateJSON(validateSchema, validateJSON)
	} else {
		kind, kerr := schemas.ParseKind(validateKind)
		if kerr != nil {
			return kerr
		}
		data, rerr := os.ReadFile(validateJSON)
		if rerr != nil {
			return fmt.Errorf("failed to read %s: %w", validateJSON, rerr)
		}
		err = schemas.Validate(kind, data)
	}

	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Validation failed\n%s", verr.Error())
		return errValidationFailed
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
	return nil
}
