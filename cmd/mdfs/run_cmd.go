package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/redis.v5"

	"github.com/pbanos/mdfs"
	"github.com/pbanos/mdfs/pkg/bio"
	"github.com/pbanos/mdfs/pkg/bio/mongo"
	"github.com/pbanos/mdfs/pkg/bio/rediscache"
	mdfssql "github.com/pbanos/mdfs/pkg/bio/sql"
	"github.com/pbanos/mdfs/pkg/bio/sql/pgadapter"
	"github.com/pbanos/mdfs/pkg/bio/sql/sqlite3adapter"
)

type runCmdConfig struct {
	*rootCmdConfig
	dataInput      string
	configInput    string
	output         string
	format         string
	table          string
	decisionColumn string
	vars           string
	univariate     bool
	redisAddr      string
	cacheKey       string
}

func runCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &runCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute MDFS information gains over a set of data",
		Long:  `Discretise a feature matrix and rank its k-subsets by joint information gain about a decision column.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.Validate(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			runConfig, err := bio.ReadRunConfigFromFile(config.configInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			raw, names, err := config.rawInput()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			spec, err := runConfig.Spec(names)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			discSpec := runConfig.DiscretisationSpec()
			if config.univariate {
				config.Logf("Running univariate MDFS over %d objects and %d variables ...", len(raw.Decision), len(raw.Columns))
				igs, err := mdfs.Univariate(raw, discSpec, spec)
				if err != nil {
					fmt.Fprintf(os.Stderr, "running univariate mdfs: %v\n", err)
					os.Exit(5)
				}
				config.Logf("Done")
				if err := writeUnivariate(config.output, igs); err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(6)
				}
				return
			}

			var cache *rediscache.Cache
			if config.redisAddr != "" {
				cache = rediscache.New(redis.NewClient(&redis.Options{Addr: config.redisAddr}), "mdfs")
				cached, err := cache.Get(config.cacheKey)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(7)
				}
				if cached != "" {
					config.Logf("Cache hit for key %s, skipping computation", config.cacheKey)
					if err := writeCached(config.output, cached); err != nil {
						fmt.Fprintln(os.Stderr, err)
						os.Exit(6)
					}
					return
				}
			}

			config.Logf("Running MDFS over %d objects and %d variables, k=%d, mode=%s ...", len(raw.Decision), len(raw.Columns), spec.K, spec.OutputMode)
			out, err := mdfs.Run(raw, discSpec, spec)
			if err != nil {
				fmt.Fprintf(os.Stderr, "running mdfs: %v\n", err)
				os.Exit(5)
			}
			config.Logf("Done")
			if cache != nil {
				if err := cache.Store(config.cacheKey, out); err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(7)
				}
			}
			if err := writeOutput(config.output, config.format, out); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, a PostgreSQL/MongoDB connection URL, with data to run mdfs on (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.configInput), "config", "c", "", "path to a YAML file with the run configuration (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the result will be written (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.table), "table", "t", "samples", "table/collection name to read from, for SQL/Mongo inputs")
	cmd.PersistentFlags().StringVar(&(config.decisionColumn), "decision-column", "decision", "name of the decision column, for SQL/Mongo inputs")
	cmd.PersistentFlags().StringVar(&(config.vars), "vars", "", "comma-separated ordered list of variable column names, required for SQL/Mongo inputs")
	cmd.PersistentFlags().StringVarP(&(config.format), "format", "f", "json", "result format: json or csv")
	cmd.PersistentFlags().BoolVar(&(config.univariate), "univariate", false, "report each variable's standalone information quantity instead of running k-subset MDFS")
	cmd.PersistentFlags().StringVar(&(config.redisAddr), "redis-addr", "", "redis server address (host:port) used to cache/retrieve a prior run's result by --cache-key; empty disables caching")
	cmd.PersistentFlags().StringVar(&(config.cacheKey), "cache-key", "", "cache key identifying this run's (data, spec) pair, required when --redis-addr is set")
	return cmd
}

func (rc *runCmdConfig) Validate() error {
	if rc.configInput == "" {
		return fmt.Errorf("required config flag was not set")
	}
	if rc.redisAddr != "" && rc.cacheKey == "" {
		return fmt.Errorf("--cache-key is required when --redis-addr is set")
	}
	return nil
}

func (rc *runCmdConfig) rawInput() (mdfs.RawInput, []string, error) {
	if rc.dataInput == "" {
		rc.Logf("Reading training data from STDIN...")
		raw, names, err := bio.ReadCSVFromFilePath("")
		return raw, names, err
	}
	if strings.HasPrefix(rc.dataInput, "postgresql://") {
		return rc.postgresInput()
	}
	if strings.HasPrefix(rc.dataInput, "mongodb://") {
		return rc.mongoInput()
	}
	if strings.HasSuffix(rc.dataInput, ".db") {
		return rc.sqlite3Input()
	}
	rc.Logf("Opening %s to read training data...", rc.dataInput)
	return bio.ReadCSVFromFilePath(rc.dataInput)
}

func (rc *runCmdConfig) postgresInput() (mdfs.RawInput, []string, error) {
	vars := rc.variableNames()
	if len(vars) == 0 {
		return mdfs.RawInput{}, nil, fmt.Errorf("--vars is required for a PostgreSQL input")
	}
	rc.Logf("Connecting to PostgreSQL at %s to read training data...", rc.dataInput)
	db, err := pgadapter.New(rc.dataInput)
	if err != nil {
		return mdfs.RawInput{}, nil, err
	}
	defer db.Close()
	raw, err := mdfssql.ReadTable(db, rc.table, vars, rc.decisionColumn)
	return raw, vars, err
}

func (rc *runCmdConfig) mongoInput() (mdfs.RawInput, []string, error) {
	vars := rc.variableNames()
	if len(vars) == 0 {
		return mdfs.RawInput{}, nil, fmt.Errorf("--vars is required for a MongoDB input")
	}
	rc.Logf("Connecting to MongoDB at %s to read training data...", rc.dataInput)
	session, err := mongo.New(rc.dataInput)
	if err != nil {
		return mdfs.RawInput{}, nil, err
	}
	defer session.Close()
	raw, err := mongo.ReadRawInput(context.Background(), session, rc.table, vars, rc.decisionColumn)
	return raw, vars, err
}

func (rc *runCmdConfig) sqlite3Input() (mdfs.RawInput, []string, error) {
	vars := rc.variableNames()
	if len(vars) == 0 {
		return mdfs.RawInput{}, nil, fmt.Errorf("--vars is required for a SQLite3 input")
	}
	rc.Logf("Opening SQLite3 file %s to read training data...", rc.dataInput)
	db, err := sqlite3adapter.New(rc.dataInput)
	if err != nil {
		return mdfs.RawInput{}, nil, err
	}
	defer db.Close()
	raw, err := mdfssql.ReadTable(db, rc.table, vars, rc.decisionColumn)
	return raw, vars, err
}

func (rc *runCmdConfig) variableNames() []string {
	if rc.vars == "" {
		return nil
	}
	return strings.Split(rc.vars, ",")
}

func writeOutput(outputPath, format string, out *mdfs.Output) error {
	f, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	switch format {
	case "", "json":
		return bio.WriteJSON(f, out)
	case "csv":
		return bio.WriteCSV(f, out)
	}
	return fmt.Errorf("unknown --format %q: want json or csv", format)
}

// writeCached writes a previously-cached JSON output document verbatim,
// bypassing bio.WriteJSON since the bytes are already the encoded result.
func writeCached(outputPath, cached string) error {
	f, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.WriteString(f, cached)
	return err
}

func writeUnivariate(outputPath string, igs []float64) error {
	f, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	for v, ig := range igs {
		if _, err := fmt.Fprintf(f, "%d,%g\n", v, ig); err != nil {
			return err
		}
	}
	return nil
}

func openOutput(outputPath string) (*os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil
	}
	return os.Create(outputPath)
}
