package bio_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pbanos/mdfs"
	"github.com/pbanos/mdfs/pkg/bio"
)

func TestReadRunConfigParsesFields(t *testing.T) {
	doc := []byte(`
k: 2
divisions: 5
replicates: 10
seed: 123
range: 0.5
pseudo: 0.001
ig_threshold: 0.2
output_mode: matching_tuples
interesting_vars: ["x1", "x2"]
require_all_vars: true
record_tuples: true
`)
	cfg, err := bio.ReadRunConfig(doc)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.K)
	require.Equal(t, 5, cfg.Divisions)
	require.Equal(t, uint32(123), cfg.Seed)
	require.Equal(t, []string{"x1", "x2"}, cfg.InterestingVars)

	discSpec := cfg.DiscretisationSpec()
	require.Equal(t, uint32(123), discSpec.Seed)
	require.Equal(t, 5, discSpec.Divisions)
	require.Equal(t, 10, discSpec.Replicates)
	require.Equal(t, 0.5, discSpec.Range)

	spec, err := cfg.Spec([]string{"x0", "x1", "x2"})
	require.NoError(t, err)
	require.Equal(t, mdfs.MatchingTuples, spec.OutputMode)
	require.Equal(t, []int{1, 2}, spec.InterestingVars)
	require.True(t, spec.RequireAllVars)
}

func TestReadRunConfigDefaultsOutputModeToMaxIG(t *testing.T) {
	cfg, err := bio.ReadRunConfig([]byte("k: 1\n"))
	require.NoError(t, err)
	spec, err := cfg.Spec(nil)
	require.NoError(t, err)
	require.Equal(t, mdfs.MaxIG, spec.OutputMode)
}

func TestReadRunConfigRejectsUnknownOutputMode(t *testing.T) {
	cfg, err := bio.ReadRunConfig([]byte("output_mode: bogus\n"))
	require.NoError(t, err)
	_, err = cfg.Spec(nil)
	require.Error(t, err)
}

func TestResolveVarsRejectsUnknownName(t *testing.T) {
	cfg, err := bio.ReadRunConfig([]byte(`interesting_vars: ["nope"]` + "\n"))
	require.NoError(t, err)
	_, err = cfg.ResolveVars([]string{"x0", "x1"})
	require.Error(t, err)
}
