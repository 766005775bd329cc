package cli

import (
	"bytes"
	"context"
	"flag"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/repository/file"
)

func TestParseLineSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    lineSpec
		wantErr bool
	}{
		{in: "p1:5", want: lineSpec{ProductID: "p1", Quantity: 5}},
		{in: "p1:5@12.50", want: lineSpec{ProductID: "p1", Quantity: 5, Price: "12.50"}},
		{in: " p2 : 3 @ 9 ", want: lineSpec{ProductID: "p2", Quantity: 3, Price: "9"}},
		{in: "p1:-2", want: lineSpec{ProductID: "p1", Quantity: -2}},
		{in: "p1", wantErr: true},
		{in: ":4", wantErr: true},
		{in: "p1:two", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLineSpec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLineListFlag(t *testing.T) {
	var lines lineList
	fs := flag.NewFlagSet("outward", flag.ContinueOnError)
	fs.Var(&lines, "line", "")

	require.NoError(t, fs.Parse([]string{"-line", "p1:2", "-line", "p4:10@8"}))
	require.Len(t, lines, 2)
	assert.Equal(t, "p1:2,p4:10@8", lines.String())
	assert.Error(t, fs.Parse([]string{"-line", "bad"}))
}

// useTempStorage points the commands at a fresh file store and captures their output.
func useTempStorage(t *testing.T) (string, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_DIR", dir)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("WHATSAPP_TOKEN", "")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "")
	t.Setenv("LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	oldOut, oldErr, oldPlain := stdout, stderr, *plain
	stdout, stderr, *plain = &out, &errOut, true
	t.Cleanup(func() { stdout, stderr, *plain = oldOut, oldErr, oldPlain })
	return dir, &out, &errOut
}

func execute(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return cmd.Execute(context.Background(), fs)
}

func storedStock(t *testing.T, dir, productID string) int {
	t.Helper()
	store, err := file.NewStore(dir)
	require.NoError(t, err)
	data, err := store.Load(context.Background())
	require.NoError(t, err)
	p, ok := data.Product(productID)
	require.True(t, ok)
	return p.CurrentStock
}

func TestPurchaseCommand(t *testing.T) {
	dir, out, _ := useTempStorage(t)

	status := execute(t, &txCmd{direction: models.Inward}, "-contact", "c1", "-line", "p1:10@12.50", "-notes", "restock")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "# Purchase")
	assert.Contains(t, out.String(), "$125.00")
	assert.Equal(t, 130, storedStock(t, dir, "p1"))
}

func TestSaleCommandRejectsOverselling(t *testing.T) {
	_, _, errOut := useTempStorage(t)

	status := execute(t, &txCmd{direction: models.Outward}, "-contact", "c3", "-line", "p3:130")
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, errOut.String(), "insufficient stock")
}

func TestSaleCommandWrongRole(t *testing.T) {
	_, _, errOut := useTempStorage(t)

	status := execute(t, &txCmd{direction: models.Outward}, "-contact", "c1", "-line", "p1:1")
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, errOut.String(), "valid contacts: c3 (Alice Smith), c4 (Bob Jones)")
}

func TestTxCommandUsage(t *testing.T) {
	useTempStorage(t)
	status := execute(t, &txCmd{direction: models.Inward}, "-contact", "c1")
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestAddProductAndList(t *testing.T) {
	_, out, _ := useTempStorage(t)

	status := execute(t, &addProductCmd{}, "-name", "Monitor", "-sku", "TECH-003", "-buy", "100", "-sell", "180")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "| TECH-003 | Monitor | - | $100.00 | $180.00 | 0 |")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, &productsCmd{}))
	assert.Contains(t, out.String(), "Monitor")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, &productsCmd{}, "-direction", "outward"))
	assert.NotContains(t, out.String(), "Monitor")

	assert.Equal(t, subcommands.ExitUsageError, execute(t, &addProductCmd{}, "-name", "X", "-sku", "Y", "-buy", "cheap"))
}

func TestContactsCommands(t *testing.T) {
	_, out, _ := useTempStorage(t)

	require.Equal(t, subcommands.ExitSuccess, execute(t, &addContactCmd{}, "-name", "Carol", "-role", "buyer"))
	out.Reset()

	require.Equal(t, subcommands.ExitSuccess, execute(t, &contactsCmd{}, "-role", "buyer"))
	assert.Contains(t, out.String(), "Carol")
	assert.NotContains(t, out.String(), "TechSuppliers")

	assert.Equal(t, subcommands.ExitUsageError, execute(t, &addContactCmd{}, "-name", "Dan", "-role", "broker"))
}

func TestReportCommands(t *testing.T) {
	_, out, _ := useTempStorage(t)

	require.Equal(t, subcommands.ExitSuccess, execute(t, &dashboardCmd{}))
	assert.Contains(t, out.String(), "# Dashboard")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, &historyCmd{}))
	assert.Contains(t, out.String(), "Alice Smith")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, &insightsCmd{}))
	assert.Contains(t, out.String(), "# Business summary")
}
