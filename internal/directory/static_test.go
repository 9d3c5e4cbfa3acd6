package directory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/pkg/util/errorutil"
)

func TestLookupEmployee(t *testing.T) {
	dir := NewStatic()
	ctx := context.Background()

	tests := []struct {
		name       string
		identifier string
		wantID     string
	}{
		{"id", "EMP004", "EMP004"},
		{"lowercase id", "emp004", "EMP004"},
		{"email", "Alice.Brown@Company.com", "EMP004"},
		{"partial name", "miller", "EMP006"},
		{"partial email", "robert.chen@", "EMP010"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp, err := dir.LookupEmployee(ctx, tt.identifier)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, emp.ID)
		})
	}

	for _, missing := range []string{"", "   ", "nobody"} {
		_, err := dir.LookupEmployee(ctx, missing)
		assert.True(t, errorutil.IsNotFound(err), "identifier %q", missing)
	}
}

func TestSearchAndDepartment(t *testing.T) {
	dir := NewStatic()

	assert.Len(t, dir.ByDepartment("information technology"), 3)
	assert.Empty(t, dir.ByDepartment("Legal"))

	managers := dir.Search("manager")
	require.Len(t, managers, 4)
	assert.Equal(t, "EMP002", managers[0].ID)
}

func TestManagerAndValidate(t *testing.T) {
	dir := NewStatic()
	ctx := context.Background()

	mgr, err := dir.Manager(ctx, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", mgr.Name)

	_, err = dir.Manager(ctx, "EMP003")
	assert.True(t, errorutil.IsNotFound(err))

	assert.True(t, dir.Validate("emp010"))
	assert.False(t, dir.Validate("EMP011"))
}

func TestLoadFileAndWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`employees:
  - employee_id: X1
    name: Ada Lovelace
    email: ada@company.com
    department: Research
`), 0o644))

	dir := NewStatic()
	require.NoError(t, dir.LoadFile(path))
	require.Len(t, dir.All(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, Watch(ctx, dir, path, zap.NewNop()))

	require.NoError(t, os.WriteFile(path, []byte(`employees:
  - employee_id: X1
    name: Ada Lovelace
  - employee_id: X2
    name: Grace Hopper
`), 0o644))

	assert.Eventually(t, func() bool { return len(dir.All()) == 2 }, 2*time.Second, 20*time.Millisecond)
}

func TestLoadFileRejectsEmptyDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.yaml")
	require.NoError(t, os.WriteFile(path, []byte("employees: []\n"), 0o644))

	dir := NewStatic()
	require.Error(t, dir.LoadFile(path))
	assert.Len(t, dir.All(), 10)
}
