// Package cli implements heritagectl, the operator command line for the
// validation engine and the geo utility.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/samirrijal/heritagepass/internal/core/geo"
	"github.com/samirrijal/heritagepass/internal/core/usecases"
	"github.com/samirrijal/heritagepass/internal/core/validation"
	"github.com/samirrijal/heritagepass/internal/pkg/config"
	"github.com/samirrijal/heritagepass/internal/pkg/logging"
)

// env is shared by every subcommand of one root. Services are built on
// first use so that --help never reads configuration.
type env struct {
	configPath string
	cfg        *config.Config
	validation *usecases.ValidationService
	geo        *usecases.GeoService
}

func (e *env) config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := config.LoadFile("heritagectl", e.configPath)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	e.cfg = cfg
	return cfg, nil
}

// services builds the validation and geo services from the configured
// geography. The CLI never touches Postgres, Valkey or NATS here.
func (e *env) services() error {
	if e.validation != nil {
		return nil
	}
	cfg, err := e.config()
	if err != nil {
		return err
	}
	locator := geo.NewLocator(cfg.Geography.ServiceArea, cfg.Geography.ReferenceData())
	v := validation.New(validation.Options{
		Area:        locator,
		BufferKm:    &cfg.Validation.ServiceAreaBufferKm,
		PhoneRegion: cfg.Validation.PhoneRegion,
		AreaName:    cfg.Geography.ServiceArea.City,
	})
	e.validation = usecases.NewValidationService(v, nil, "cli")
	e.geo = usecases.NewGeoService(locator, nil, cfg.Valkey.TTLSeconds)
	return nil
}

// NewRootCmd returns a fresh command tree.
func NewRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:   "heritagectl",
		Short: "Validate booking payloads and query the service-area geography",
		Long: `heritagectl validates tourism-booking payloads and answers geography
questions about the configured service area without running the API.

Payloads are read from a file argument, or from stdin when the argument is
omitted or "-". Results are printed as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", "", "config file (default: ./config.yaml or ./configs/config.yaml)")

	root.AddCommand(
		newValidateCmd(e),
		newSanitizeCmd(e),
		newEntitiesCmd(e),
		newGeoCmd(e),
		newEventsCmd(e),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// readInput reads the named file, or the command's stdin for "" and "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printJSONLine(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
