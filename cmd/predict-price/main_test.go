package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sandbox runs the command against an empty directory so the only data
// available is whatever the test writes there.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("MARKETMIND_SOURCE_BASE_DIR", dir)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MARKETMIND_SOURCE_DATABASE_URL", "")
	return dir
}

func run(t *testing.T, args ...string) (map[string]any, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)

	out := stdout.String()
	require.True(t, strings.HasSuffix(out, "\n"), "stdout must end with a newline: %q", out)
	require.Equal(t, 1, strings.Count(out, "\n"), "stdout must hold exactly one line: %q", out)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result), "stdout must be JSON: %q", out)
	return result, stderr.String(), code
}

func TestExecute_NotEnoughInputs(t *testing.T) {
	sandbox(t)

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"USB Cable", "Accessories", "4.0"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, `{"predicted_price":0,"message":"Not enough inputs"}`+"\n", stdout.String())
}

func TestExecute_FallbackEndToEnd(t *testing.T) {
	sandbox(t)

	result, stderr, code := run(t, "USB Cable", "Accessories", "4.0", "80")

	assert.Equal(t, 0, code, "stderr: %s", stderr)
	price, ok := result["predicted_price"].(float64)
	require.True(t, ok, "result: %v", result)
	assert.Greater(t, price, 0.0)
	assert.LessOrEqual(t, price, 999.0)
	assert.NotContains(t, result, "diagnostics")
}

func TestExecute_Deterministic(t *testing.T) {
	sandbox(t)

	first, _, code := run(t, "Gaming Laptop", "Electronics", "4.5", "1000")
	require.Equal(t, 0, code)
	second, _, code := run(t, "Gaming Laptop", "Electronics", "4.5", "1000")
	require.Equal(t, 0, code)

	assert.Equal(t, first["predicted_price"], second["predicted_price"])
}

func TestExecute_Diagnostics(t *testing.T) {
	t.Run("fallback provenance", func(t *testing.T) {
		sandbox(t)

		result, _, code := run(t, "--diagnostics", "Office Mouse", "Accessories", "4", "500")
		require.Equal(t, 0, code)

		diag, ok := result["diagnostics"].(map[string]any)
		require.True(t, ok, "result: %v", result)
		source := diag["data_source"].(map[string]any)
		assert.Equal(t, "fallback", source["source"])
		assert.NotEmpty(t, source["reason"])
		assert.Equal(t, 5.0, diag["training_rows"])
	})

	t.Run("csv provenance", func(t *testing.T) {
		dir := sandbox(t)
		csv := "product_name,category,discounted_price,rating,rating_count\n" +
			"Acme Phone,Electronics|Mobiles,\"₹12,000\",4.1,\"1,200\"\n" +
			"Acme Charger,Electronics|Accessories,₹499,4.3,800\n" +
			"Zen Lamp,Home & Kitchen|Lighting,₹899,3.9,150\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "amazon.csv"), []byte(csv), 0o644))

		result, _, code := run(t, "--diagnostics", "Acme Phone", "Electronics", "4.1", "1200")
		require.Equal(t, 0, code)

		diag := result["diagnostics"].(map[string]any)
		source := diag["data_source"].(map[string]any)
		assert.Equal(t, "csv", source["source"])
		assert.Equal(t, 3.0, diag["training_rows"])
	})
}

func TestExecute_NegativeRatingIsNotAFlag(t *testing.T) {
	sandbox(t)

	result, _, code := run(t, "Headphones", "Accessories", "-1", "50")
	assert.Equal(t, 0, code)
	assert.Contains(t, result, "predicted_price")
}

func TestExecute_DashedInputsAreNotFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "name with a leading dash", args: []string{"-Pro Case", "Accessories", "4.0", "80"}},
		{name: "name that looks like a long flag", args: []string{"--bogus", "Accessories", "4.0", "80"}},
		{name: "category with a leading dash", args: []string{"USB Cable", "-Accessories", "4.0", "80"}},
		{name: "flag name after the first input", args: []string{"USB Cable", "--diagnostics", "4.0", "80"}},
		{name: "explicit separator", args: []string{"--diagnostics", "--", "--help", "Accessories", "4.0", "80"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sandbox(t)

			result, stderr, code := run(t, tt.args...)
			assert.Equal(t, 0, code, "stderr: %s", stderr)
			assert.NotContains(t, result, "error")
			price, ok := result["predicted_price"].(float64)
			require.True(t, ok, "result: %v", result)
			assert.Greater(t, price, 0.0)
		})
	}
}

func TestExecute_HelpAndVersionStillWriteOneLine(t *testing.T) {
	for _, flag := range []string{"--help", "--version"} {
		t.Run(flag, func(t *testing.T) {
			sandbox(t)

			result, stderr, code := run(t, flag)
			assert.Equal(t, 0, code)
			assert.Equal(t, "Not enough inputs", result["message"])
			assert.Contains(t, stderr, "predict-price")
		})
	}
}

func TestLeadingFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no flags", args: []string{"a", "b"}, want: 0},
		{name: "diagnostics", args: []string{"--diagnostics", "a"}, want: 1},
		{name: "config with separate value", args: []string{"--config", "c.yaml", "--diagnostics", "a"}, want: 3},
		{name: "config with inline value", args: []string{"--config=c.yaml", "a"}, want: 1},
		{name: "separator", args: []string{"--", "--diagnostics"}, want: 1},
		{name: "short flag is an input", args: []string{"-h", "a"}, want: 0},
		{name: "unknown long flag is an input", args: []string{"--bogus", "a"}, want: 0},
		{name: "dangling config", args: []string{"--config"}, want: 1},
		{name: "empty", args: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, leadingFlags(tt.args))
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantPrefix string
	}{
		{
			name:       "malformed rating",
			args:       []string{"USB Cable", "Accessories", "great", "80"},
			wantPrefix: "Prediction error:",
		},
		{
			name:       "malformed rating count",
			args:       []string{"USB Cable", "Accessories", "4.0", "eighty"},
			wantPrefix: "Prediction error:",
		},
		{
			name:       "bad flag value",
			args:       []string{"--diagnostics=maybe", "USB Cable", "Accessories", "4.0", "80"},
			wantPrefix: "invalid argument",
		},
		{
			name:       "config flag without a value",
			args:       []string{"--config"},
			wantPrefix: "flag needs an argument",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sandbox(t)

			result, _, code := run(t, tt.args...)
			assert.Equal(t, 1, code)
			msg, ok := result["error"].(string)
			require.True(t, ok, "result: %v", result)
			assert.True(t, strings.HasPrefix(msg, tt.wantPrefix), "error %q", msg)
			assert.NotContains(t, result, "predicted_price")
		})
	}
}

func TestExecute_BadConfigIsAnError(t *testing.T) {
	sandbox(t)
	t.Setenv("MARKETMIND_MODEL_TREES", "0")

	result, _, code := run(t, "USB Cable", "Accessories", "4.0", "80")
	assert.Equal(t, 1, code)
	assert.Contains(t, result["error"], "Configuration error")
}
