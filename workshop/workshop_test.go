package workshop

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	items []Item
	err   error
	gotID uint32
}

func (f *fakeFetcher) PublishedFileDetails(_ context.Context, appID uint32, ids []string) ([]Item, error) {
	f.gotID = appID
	if f.err != nil {
		return nil, f.err
	}
	var out []Item
	for _, it := range f.items {
		for _, id := range ids {
			if it.SteamID() == id {
				out = append(out, it)
			}
		}
	}
	return out, nil
}

func TestRequestAsync(t *testing.T) {
	f := &fakeFetcher{items: []Item{{PublishedFileID: 12345, Title: "Cool mod"}, {PublishedFileID: 9}}}
	ids := []string{"12345"}

	ch := RequestAsync(context.Background(), f, 1142710, ids)
	ids[0] = "mutated"

	select {
	case resp := <-ch:
		require.NoError(t, resp.Err)
		assert.Equal(t, []string{"12345"}, resp.IDs)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Cool mod", resp.Items[0].Title)
	case <-time.After(5 * time.Second):
		t.Fatal("no response")
	}
	assert.Equal(t, uint32(1142710), f.gotID)

	_, open := <-ch
	assert.False(t, open)
}

func TestRequestAsyncError(t *testing.T) {
	boom := errors.New("boom")
	resp := <-RequestAsync(context.Background(), &fakeFetcher{err: boom}, 1, []string{"1"})
	assert.ErrorIs(t, resp.Err, boom)
}

func TestItemIDs(t *testing.T) {
	it := Item{PublishedFileID: 2789857593, Owner: 76561198000000000}
	assert.Equal(t, "2789857593", it.SteamID())
	assert.Equal(t, "76561198000000000", it.OwnerID())
	assert.Empty(t, Item{}.OwnerID())
}

func TestCommandFetcher(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as helper")
	}

	_, err := NewCommandFetcher("", zap.NewNop().Sugar())
	assert.ErrorIs(t, err, ErrNoHelper)

	dir := t.TempDir()
	script := filepath.Join(dir, "workshopper")
	body := "#!/bin/sh\n" +
		"[ \"$1\" = get-published-file-details ] || exit 3\n" +
		"echo '[{\"published_file_id\": 12345, \"title\": \"Cool mod\", \"owner\": 7, \"file_size\": 10, \"time_updated\": 99}]'\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0755))

	f, err := NewCommandFetcher(script, zap.NewNop().Sugar())
	require.NoError(t, err)

	items, err := f.PublishedFileDetails(context.Background(), 1142710, []string{"12345"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "12345", items[0].SteamID())
	assert.Equal(t, uint32(99), items[0].TimeUpdated)

	items, err = f.PublishedFileDetails(context.Background(), 1142710, nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	failing := filepath.Join(dir, "broken")
	require.NoError(t, os.WriteFile(failing, []byte("#!/bin/sh\necho nope >&2\nexit 1\n"), 0755))
	f.Path = failing
	_, err = f.PublishedFileDetails(context.Background(), 1142710, []string{"1"})
	assert.ErrorContains(t, err, "nope")
}
