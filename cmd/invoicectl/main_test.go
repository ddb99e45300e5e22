package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payloadJSON = `{
  "company": {"name": "Acme"},
  "client": {"name": "Globex"},
  "invoice_date": "2024-03-01",
  "due_date": "2024-03-31",
  "invoice_items": [
    {"id": 1, "name": "Dinesh", "address": "Madurai", "given_to": [
      {"id": 2, "name": "Mid", "address": "Chennai", "given_to": [
        {"id": 3, "name": "Leaf", "address": "Bangalore",
         "project": {"rate_mode": "Daily", "rate_amount": 30000, "currency": "INR"}}
      ]}
    ]}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestPreview(t *testing.T) {
	payload := writeFile(t, "payload.json", payloadJSON)

	type testCase struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{
			name: "DurationFlag",
			args: []string{"preview", payload, "--duration", "3=5"},
			want: "Total: 165000.00 INR",
		},
		{
			name: "TaxFlag",
			args: []string{"preview", payload, "-d", "3=5", "--tax", "20"},
			want: "Total: 180000.00 INR",
		},
		{
			name: "Timesheet",
			args: []string{"preview", payload, "--timesheet", writeFile(t, "hours.csv", "ID;Duração\n3;2,5\n")},
			want: "Subtotal: 75000.00 INR",
		},
		{
			name:    "BadDuration",
			args:    []string{"preview", payload, "-d", "three"},
			wantErr: true,
		},
		{
			name:    "MissingFile",
			args:    []string{"preview", filepath.Join(t.TempDir(), "nope.json")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestPreview_WritesSummary(t *testing.T) {
	payload := writeFile(t, "payload.json", payloadJSON)
	dir := t.TempDir()

	_, err := run(t, "preview", payload, "-d", "3=5", "--out", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "20240301_Globex.txt"))
	assert.NoError(t, err)
}

func TestTree(t *testing.T) {
	script := writeFile(t, "tree.mmd", "flowchart TD\nA[Root] --> B[Child]\n")

	out, err := run(t, "tree", script)
	require.NoError(t, err)
	assert.Contains(t, out, "depth=1 col=0 x=0 y=120  Child")
	assert.Contains(t, out, "A --> B")

	out, err = run(t, "tree", "--payload", writeFile(t, "payload.json", payloadJSON))
	require.NoError(t, err)
	assert.Contains(t, out, "n1 --> n2")

	_, err = run(t, "tree", writeFile(t, "cycle.mmd", "A --> B\nB --> A\n"))
	assert.Error(t, err)
}
