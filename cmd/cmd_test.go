package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/todolist/internal/clierr"
	"github.com/twiced-technology-gmbh/todolist/internal/config"
	"github.com/twiced-technology-gmbh/todolist/internal/persist"
)

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var cliErr *clierr.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, code, cliErr.Code)
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs(" a1, b2,,a1 ,c3")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2", "c3"}, ids)

	_, err = parseIDs(" , ")
	requireCode(t, err, clierr.InvalidInput)
}

func newAddCommand(t *testing.T, text string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{}
	c.Flags().String("text", "", "")
	if text != "" {
		require.NoError(t, c.Flags().Set("text", text))
	}
	return c
}

func TestResolveAddText(t *testing.T) {
	got, err := resolveAddText(newAddCommand(t, ""), []string{"Buy", "milk"})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got)

	got, err = resolveAddText(newAddCommand(t, "Call mom"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Call mom", got)

	_, err = resolveAddText(newAddCommand(t, "Call mom"), []string{"Buy"})
	requireCode(t, err, clierr.InvalidInput)

	_, err = resolveAddText(newAddCommand(t, "   "), nil)
	requireCode(t, err, clierr.InvalidInput)
}

func TestConfigKeysHaveAccessors(t *testing.T) {
	accessors := configAccessors()
	assert.Len(t, accessors, len(allConfigKeys()))
	for _, key := range allConfigKeys() {
		acc, ok := accessors[key]
		require.True(t, ok, key)
		assert.Equal(t, acc.writable, acc.set != nil, key)
	}
}

func TestConfigSetRejectsBadValues(t *testing.T) {
	cfg := config.NewDefault()
	acc := configAccessors()

	requireCode(t, acc["storage.debounce"].set(cfg, "soon"), clierr.InvalidInput)
	requireCode(t, acc["tasks.due_soon_days"].set(cfg, "three"), clierr.InvalidInput)
	requireCode(t, acc["tasks.default_category"].set(cfg, "  "), clierr.InvalidInput)

	require.NoError(t, acc["tasks.due_soon_days"].set(cfg, "5"))
	assert.Equal(t, 5, cfg.DueSoonDays())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewDefault()
	cfg.SetDir(t.TempDir())
	cfg.Theme = config.ThemeDark
	return cfg
}

func TestWriteSessionFlushesOnClose(t *testing.T) {
	cfg := testConfig(t)

	sess, err := newSession(cfg, writeLock)
	require.NoError(t, err)
	_, ok := sess.store.AddTask("Buy milk", "Errands", nil)
	require.True(t, ok)
	sess.close()

	_, err = os.Stat(filepath.Join(cfg.Dir(), "tasks.json"))
	require.NoError(t, err)

	reader, err := newSession(cfg, readLock)
	require.NoError(t, err)
	defer reader.close()
	require.Equal(t, 1, reader.store.Len())
	assert.Equal(t, "Buy milk", reader.store.Tasks()[0].Text)
	assert.Equal(t, "Errands", reader.store.Tasks()[0].Category)
}

func corruptTasks(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.json"), []byte("{not json"), 0o600))
}

func TestWriteSessionRefusesUnreadableData(t *testing.T) {
	cfg := testConfig(t)
	corruptTasks(t, cfg.Dir())

	_, err := newSession(cfg, writeLock)
	requireCode(t, err, clierr.InternalError)
	assert.Equal(t, 1, strings.Count(err.Error(), "invalid character"), "cause appears once: %s", err)

	reader, err := newSession(cfg, readLock)
	require.NoError(t, err)
	defer reader.close()
	assert.Equal(t, 0, reader.store.Len())
}

func TestMemoryBackendDoesNotWriteTasks(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = config.BackendMemory

	sess, err := newSession(cfg, writeLock)
	require.NoError(t, err)
	_, ok := sess.store.AddTask("Ephemeral", "", nil)
	require.True(t, ok)
	sess.close()

	_, err = os.Stat(filepath.Join(cfg.Dir(), "tasks.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestSessionUsesConfiguredTheme(t *testing.T) {
	cfg := testConfig(t)
	cfg.Theme = config.ThemeLight

	sess, err := newSession(cfg, readLock)
	require.NoError(t, err)
	defer sess.close()
	assert.False(t, sess.store.View().ThemeDark)
}

// useDataDir points the CLI at a fresh initialized data directory.
func useDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.Init(dir, config.FormatYAML)
	require.NoError(t, err)
	cfg.Theme = config.ThemeDark
	require.NoError(t, cfg.Save())

	prev := flagDir
	flagDir = dir
	t.Cleanup(func() { flagDir = prev })
	return dir
}

func loadSaved(t *testing.T, dir string) persist.State {
	t.Helper()
	st, err := persist.NewDir(dir, 0).Load(context.Background())
	require.NoError(t, err)
	return st
}

func TestImportRecoversFromUnreadableData(t *testing.T) {
	dir := useDataDir(t)
	corruptTasks(t, dir)

	backup := filepath.Join(t.TempDir(), "backup.json")
	doc := `{"tasks":[{"id":"b1","text":"Restored task","completed":false,"priority":"high","category":"Work"}]}`
	require.NoError(t, os.WriteFile(backup, []byte(doc), 0o600))

	require.NoError(t, runImport(nil, []string{backup}))

	st := loadSaved(t, dir)
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, "Restored task", st.Tasks[0].Text)
	assert.Equal(t, "b1", string(st.Tasks[0].ID))
}

func TestClearRecoversFromUnreadableData(t *testing.T) {
	dir := useDataDir(t)
	corruptTasks(t, dir)

	require.NoError(t, clearCmd.Flags().Set("yes", "true"))
	t.Cleanup(func() { _ = clearCmd.Flags().Set("yes", "false") })

	require.NoError(t, runClear(clearCmd, nil))

	st := loadSaved(t, dir)
	require.NotNil(t, st.Tasks)
	assert.Empty(t, st.Tasks)
}

func TestEditStillRefusesUnreadableData(t *testing.T) {
	dir := useDataDir(t)
	corruptTasks(t, dir)

	err := runEdit(nil, []string{"b1", "new text"})
	requireCode(t, err, clierr.InternalError)

	data, readErr := os.ReadFile(filepath.Join(dir, "tasks.json"))
	require.NoError(t, readErr)
	assert.Equal(t, "{not json", string(data))
}

func TestInitRefusesExistingDir(t *testing.T) {
	useDataDir(t)

	err := runInit(initCmd, nil)
	requireCode(t, err, clierr.AlreadyInitialized)

	var cerr *clierr.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "ALREADY_INITIALIZED", cerr.Code)
}
