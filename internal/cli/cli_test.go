package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/repsboard/payroll-backend/internal/app"
	"github.com/repsboard/payroll-backend/internal/domain/batch"
	"github.com/repsboard/payroll-backend/internal/domain/candidate"
	"github.com/repsboard/payroll-backend/internal/domain/user"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/jwt"
	"github.com/repsboard/payroll-backend/internal/pkg/sse"
	"github.com/repsboard/payroll-backend/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, open ServicesFunc, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func noStore(ctx context.Context) (app.Services, func(), error) {
	panic("store opened by a command that does not need it")
}

// memoryStore shares one in-memory database across commands of a test.
func memoryStore(t *testing.T) (app.Services, ServicesFunc) {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	repos := app.SQLiteRepositories(db)
	t.Cleanup(repos.Close)

	services := app.NewServices(repos, jwt.NewJWTService("cli-test", "1h"), sse.NewHub(), "pass")
	return services, func(ctx context.Context) (app.Services, func(), error) {
		return services, func() {}, nil
	}
}

func TestDurationCommands(t *testing.T) {
	out, err := run(t, noStore, "duration", "parse", "01:30:15")
	require.NoError(t, err)
	assert.Equal(t, "5415\n", out)

	out, err = run(t, noStore, "duration", "format", "5415.9")
	require.NoError(t, err)
	assert.Equal(t, "01:30:15\n", out)

	_, err = run(t, noStore, "duration", "format", "soon")
	assert.Error(t, err)
}

func TestPayPreview(t *testing.T) {
	out, err := run(t, noStore, "pay", "preview", "--talk", "01:00:00", "--rate", "10", "--sets", "1")
	require.NoError(t, err)

	var preview workrecord.PreviewResponse
	require.NoError(t, json.Unmarshal([]byte(out), &preview))
	assert.True(t, decimal.NewFromInt(30).Equal(preview.BasePayment), "base %s", preview.BasePayment)
	assert.True(t, decimal.NewFromInt(7).Equal(preview.RepsBonus), "bonus %s", preview.RepsBonus)
	assert.Equal(t, "01:00:00", preview.ActiveTime)

	out, err = run(t, noStore, "pay", "preview", "--talk", "01:00:00", "--rate", "10", "--sets", "1", "--training")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &preview))
	assert.True(t, preview.RepsBonus.IsZero())
	assert.True(t, preview.Training)
}

func TestBatchCommands(t *testing.T) {
	ctx := context.Background()
	services, open := memoryStore(t)
	admin := user.System()

	rep, err := services.Candidates.Create(ctx, admin, candidate.CreateCandidateRequest{Name: "Jane Doe"})
	require.NoError(t, err)
	rate := decimal.NewFromInt(10)
	_, err = services.WorkRecords.Save(ctx, admin, workrecord.SaveWorkRecordRequest{
		EmployeeID: rep.ID, Date: "2024-05-06", TalkTime: "01:00:00", WaitTime: "00:00:00", RatePerHour: &rate, SetsAdded: 1,
	})
	require.NoError(t, err)

	out, err := run(t, open, "batch", "generate", "--from", "2024-05-01", "--to", "2024-05-31")
	require.NoError(t, err)
	var generated batch.GenerateBatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &generated))
	assert.Equal(t, 1, generated.RecordCount)
	assert.True(t, decimal.NewFromInt(37).Equal(generated.TotalAmount), "total %s", generated.TotalAmount)

	out, err = run(t, open, "batch", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "BATCH"))
	assert.Contains(t, lines[1], generated.BatchID)
	assert.Contains(t, lines[1], "37.00")

	path := filepath.Join(t.TempDir(), "batch.csv")
	_, err = run(t, open, "batch", "export", generated.BatchID, "--out", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "employee_name")
	assert.Contains(t, string(data), "Jane Doe")

	_, err = run(t, open, "batch", "export", generated.BatchID, "--format", "pdf")
	assert.ErrorIs(t, err, batch.ErrUnsupportedFormat)

	out, err = run(t, open, "batch", "paid", generated.BatchID)
	require.NoError(t, err)
	var paid batch.TransitionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &paid))
	assert.Equal(t, int64(1), paid.Affected)

	_, err = run(t, open, "batch", "revert", "BATCH-20240101000000-nope00")
	assert.Error(t, err)
}

func TestPerformanceImport(t *testing.T) {
	services, open := memoryStore(t)

	path := filepath.Join(t.TempDir(), "agents.csv")
	csv := "full_name,breaks,zoom_meetings,rate_per_hour,zoom_scheduled\n" +
		"Amy Agent,2,3,12.5,4\n" +
		"Bob Agent,0,1,,0\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	out, err := run(t, open, "performance", "import", path)
	require.NoError(t, err)
	assert.Equal(t, "imported 2 rows\n", out)

	names, err := services.Performance.ListAgentNames(context.Background(), user.System())
	require.NoError(t, err)
	assert.Equal(t, []string{"Amy Agent", "Bob Agent"}, names)

	_, err = run(t, open, "performance", "import", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
