package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"accountd/internal/account/models"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHasYAMLExt(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"acct.yaml", true},
		{"acct.YML", true},
		{"acct.json", false},
		{"acct", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, hasYAMLExt(c.input), c.input)
	}
}

func TestDecodeFromStdin(t *testing.T) {
	out, err := run(t, `{"status":"Verified","name":"Ada","address":null}`, "decode")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Verified","name":"Ada","address":null}`, out)
}

func TestDecodeYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acct.yaml")
	require.NoError(t, os.WriteFile(path, []byte("status: Deleted\nname: Ada\n"), 0o644))

	out, err := run(t, "", "decode", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Deleted","name":"Ada"}`, out)
}

func TestDecodeReportsPath(t *testing.T) {
	_, err := run(t, `{"status":"Created","name":"Ada","address":"x"}`, "decode")
	require.Error(t, err)

	var de *models.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "address", de.Path)
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := run(t, "", "decode", filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "read document")
}

func TestSampleJSON(t *testing.T) {
	out, err := run(t, "", "sample", "--n", "4", "--small-names", "--seed", "3")
	require.NoError(t, err)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 4)
	for _, doc := range docs {
		acct, err := models.Decode(doc)
		require.NoError(t, err)
		assert.Regexp(t, `^[a-zA-Z]{3}$`, acct.Name().String())
	}
}

func TestSampleYAMLIsDecodable(t *testing.T) {
	out, err := run(t, "", "sample", "-n", "3", "--format", "yaml")
	require.NoError(t, err)

	var docs []any
	require.NoError(t, yaml.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 3)
	for _, doc := range docs {
		_, err := models.Decode(doc)
		assert.NoError(t, err)
	}
}

func TestSampleSeedIsReproducible(t *testing.T) {
	first, err := run(t, "", "sample", "--seed", "11")
	require.NoError(t, err)
	second, err := run(t, "", "sample", "--seed", "11")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSampleRejectsBadFlags(t *testing.T) {
	_, err := run(t, "", "sample", "--format", "xml")
	assert.ErrorContains(t, err, "unknown --format")

	_, err = run(t, "", "sample", "--n", "-1")
	assert.ErrorContains(t, err, "must not be negative")
}

func TestLifecycle(t *testing.T) {
	out, err := run(t, "", "lifecycle", "Ada", "--address", "1 Main St")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"status":"Created","name":"Ada"}`, lines[0])
	assert.JSONEq(t, `{"status":"Verified","name":"Ada","address":"1 Main St"}`, lines[1])
	assert.JSONEq(t, `{"status":"Deleted","name":"Ada"}`, lines[2])
}

func TestLifecycleWithoutAddress(t *testing.T) {
	out, err := run(t, "", "lifecycle", "Ada")
	require.NoError(t, err)
	assert.Contains(t, out, `"address":null`)
}
