package bio

import (
	"fmt"
	"io/ioutil"
	"sort"

	yaml "gopkg.in/yaml.v2"

	"github.com/pbanos/mdfs"
	"github.com/pbanos/mdfs/dataset"
)

// RunConfig is the YAML-decodable shape of a CLI run configuration
// (SPEC_FULL.md §A.3), mirroring the flag set a direct cobra invocation
// would otherwise require one-by-one.
type RunConfig struct {
	K               int      `yaml:"k"`
	Divisions       int      `yaml:"divisions"`
	Replicates      int      `yaml:"replicates"`
	Seed            uint32   `yaml:"seed"`
	Range           float64  `yaml:"range"`
	Pseudo          float64  `yaml:"pseudo"`
	IGThreshold     float64  `yaml:"ig_threshold"`
	OutputMode      string   `yaml:"output_mode"`
	InterestingVars []string `yaml:"interesting_vars"`
	RequireAllVars  bool     `yaml:"require_all_vars"`
	RecordTuples    bool     `yaml:"record_tuples"`
}

// ReadRunConfig parses a RunConfig from a YAML document. Grounded on
// feature/yaml/yaml.go's ReadFeatures: a single yaml.Unmarshal into a plain
// struct, errors wrapped with the parsing context.
func ReadRunConfig(doc []byte) (*RunConfig, error) {
	cfg := &RunConfig{}
	if err := yaml.Unmarshal(doc, cfg); err != nil {
		return nil, fmt.Errorf("bio: parsing run config yaml: %v", err)
	}
	return cfg, nil
}

// ReadRunConfigFromFile reads and parses a RunConfig from filepath.
func ReadRunConfigFromFile(filepath string) (*RunConfig, error) {
	doc, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("bio: reading run config file %s: %v", filepath, err)
	}
	cfg, err := ReadRunConfig(doc)
	if err != nil {
		err = fmt.Errorf("bio: parsing run config file %s: %v", filepath, err)
	}
	return cfg, err
}

// outputMode resolves the configured output mode string to a mdfs.OutputMode.
func (c *RunConfig) outputMode() (mdfs.OutputMode, error) {
	switch c.OutputMode {
	case "", "max_ig":
		return mdfs.MaxIG, nil
	case "min_ig":
		return mdfs.MinIG, nil
	case "matching_tuples":
		return mdfs.MatchingTuples, nil
	case "all_pairs":
		return mdfs.AllPairs, nil
	}
	return 0, fmt.Errorf("bio: unknown output_mode %q", c.OutputMode)
}

// ResolveVars maps the configured interesting_vars (variable names) to
// column indices using names (the CSV header order returned by ReadCSV).
func (c *RunConfig) ResolveVars(names []string) ([]int, error) {
	if len(c.InterestingVars) == 0 {
		return nil, nil
	}
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	vars := make([]int, 0, len(c.InterestingVars))
	for _, name := range c.InterestingVars {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("bio: interesting_vars references unknown variable %q", name)
		}
		vars = append(vars, i)
	}
	sort.Ints(vars)
	return vars, nil
}

// DiscretisationSpec builds a dataset.DiscretisationSpec from the config.
func (c *RunConfig) DiscretisationSpec() dataset.DiscretisationSpec {
	return dataset.DiscretisationSpec{
		Seed:       c.Seed,
		Replicates: c.Replicates,
		Divisions:  c.Divisions,
		Range:      c.Range,
	}
}

// Spec builds a mdfs.Spec from the config, resolving interesting_vars
// against names (see ResolveVars).
func (c *RunConfig) Spec(names []string) (mdfs.Spec, error) {
	mode, err := c.outputMode()
	if err != nil {
		return mdfs.Spec{}, err
	}
	vars, err := c.ResolveVars(names)
	if err != nil {
		return mdfs.Spec{}, err
	}
	return mdfs.Spec{
		K:               c.K,
		Pseudo:          c.Pseudo,
		IGThreshold:     c.IGThreshold,
		InterestingVars: vars,
		RequireAllVars:  c.RequireAllVars,
		OutputMode:      mode,
		RecordTuples:    c.RecordTuples,
	}, nil
}
