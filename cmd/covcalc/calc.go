package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RMahshie/radiocov/internal/coverage"
	"github.com/RMahshie/radiocov/internal/export"
	"github.com/RMahshie/radiocov/pkg/models"
)

type calcOptions struct {
	file           string
	geoJSON        bool
	pretty         bool
	model          string
	maxPoints      int
	maxEvaluations int64
	workers        int
	verbose        bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "covcalc",
		Short:        "Estimate radio coverage around a set of base stations",
		SilenceUsage: true,
	}
	root.AddCommand(newCalcCmd())
	return root
}

func newCalcCmd() *cobra.Command {
	opts := &calcOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run a coverage calculation",
		Long: `Reads a coverage request (JSON, or YAML for .yaml/.yml files) and prints
the response. Use "-f -" to read JSON from stdin.`,
		Example: `  covcalc calc -f request.json
  covcalc calc -f sites.yaml --geojson > coverage.geojson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalc(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "request file, or - for stdin")
	flags.BoolVar(&opts.geoJSON, "geojson", false, "write a GeoJSON FeatureCollection")
	flags.BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	flags.StringVar(&opts.model, "model", "", "override the request's propagation model (hata, longley_rice)")
	flags.IntVar(&opts.maxPoints, "max-points", 0, "grid point limit; 0 uses the default, negative disables")
	flags.Int64Var(&opts.maxEvaluations, "max-evaluations", 0, "site-point evaluation limit; 0 disables")
	flags.IntVar(&opts.workers, "workers", 0, "parallel workers; 0 uses GOMAXPROCS")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log calculation progress to stderr (warnings are always logged)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runCalc(cmd *cobra.Command, opts *calcOptions) error {
	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	cmd.SetContext(log.Logger.Level(level).WithContext(cmd.Context()))

	req, err := readRequest(cmd.InOrStdin(), opts.file)
	if err != nil {
		return err
	}
	if opts.model != "" {
		if req.Model, err = models.ParsePropagationModel(opts.model); err != nil {
			return err
		}
	}

	svc := coverage.NewCoverageService(coverage.Config{
		MaxGridPoints:  opts.maxPoints,
		MaxEvaluations: opts.maxEvaluations,
		Workers:        opts.workers,
	}, nil)

	resp, err := svc.Calculate(cmd.Context(), *req)
	if err != nil {
		return err
	}

	return writeResponse(cmd.OutOrStdout(), resp, opts)
}

// readRequest decodes path as JSON, or as YAML when the extension says so.
// Both go through CoverageRequest.UnmarshalJSON so defaults apply equally.
func readRequest(stdin io.Reader, path string) (*models.CoverageRequest, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse YAML request %s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("convert YAML request %s: %w", path, err)
		}
	}

	var req models.CoverageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request %s: %w", path, err)
	}
	return &req, nil
}

func writeResponse(w io.Writer, resp *models.CoverageResponse, opts *calcOptions) error {
	if opts.geoJSON {
		body, err := export.MarshalGeoJSON(resp)
		if err != nil {
			return fmt.Errorf("encode GeoJSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(body))
		return err
	}

	enc := json.NewEncoder(w)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}
