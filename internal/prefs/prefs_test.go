package prefs

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSettingsRoundTrip(t *testing.T) {
	store := testStore(t)

	assert.Empty(t, store.ReadSetting(KeyLastAccount))

	require.NoError(t, store.WriteSetting(KeyLastAccount, "acc_1"))
	assert.Equal(t, "acc_1", store.ReadSetting(KeyLastAccount))

	require.NoError(t, store.WriteSetting(KeyLastAccount, "acc_2"))
	assert.Equal(t, "acc_2", store.ReadSetting(KeyLastAccount))
}

func TestRequestHistoryRoundTrip(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.AppendRequest("acc_1", "designDoc", "build a login flow"))

	entries, err := store.ReadRequests()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "acc_1", entries[0].AccountID)
	assert.Equal(t, "designDoc", entries[0].FunctionName)
	assert.Equal(t, "build a login flow", entries[0].Text)
	assert.NotEmpty(t, entries[0].ID)
}

func TestRequestHistoryIsCapped(t *testing.T) {
	store := testStore(t)

	for i := 0; i < maxRequestHistory+10; i++ {
		require.NoError(t, store.AppendRequest("acc_1", "designDoc", fmt.Sprintf("request %d", i)))
	}

	entries, err := store.ReadRequests()
	require.NoError(t, err)
	assert.Len(t, entries, maxRequestHistory)
}
