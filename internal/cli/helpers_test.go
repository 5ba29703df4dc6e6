package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harun/jsonstudio/pkg/persistence"
	"github.com/harun/jsonstudio/pkg/session"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// testEnv is a config file in a temp dir with console logging off.
type testEnv struct {
	dir        string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "jsonstudio.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"logging":{"level":"debug","console":false,"redaction":true}}`), 0644))
	return &testEnv{dir: dir, configPath: configPath}
}

// resetFlags restores every flag to its default; the command tree is global.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the root command with args and returns stdout and stderr.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := GetRootCmd()
	resetFlags(cmd)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := e.run(t, "", args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return out
}

// state reads the persisted session.
func (e *testEnv) state(t *testing.T) session.State {
	t.Helper()
	kv, err := persistence.NewFileStore(filepath.Join(e.dir, "state.json"))
	require.NoError(t, err)
	defer kv.Close()
	return persistence.NewAdapter(kv).Load()
}

// seed replaces the persisted session with st.
func (e *testEnv) seed(t *testing.T, st session.State) {
	t.Helper()
	kv, err := persistence.NewFileStore(filepath.Join(e.dir, "state.json"))
	require.NoError(t, err)
	defer kv.Close()
	require.NoError(t, persistence.NewAdapter(kv).Save(st))
}
