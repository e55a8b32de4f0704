package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/dosasset/internal/inventory"
	"github.com/crucial707/dosasset/internal/models"
	"github.com/crucial707/dosasset/internal/repo"
)

type download struct {
	name    string
	content string
	mime    string
}

type fakeDownloader struct {
	got []download
	err error
}

func (f *fakeDownloader) Download(name string, content []byte, mime string) error {
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, download{name, string(content), mime})
	return nil
}

type failingStore struct {
	*repo.InventoryRepo
	fail bool
}

func (s *failingStore) Save(ctx context.Context, a []models.Asset, h []models.HistoryEntry) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.InventoryRepo.Save(ctx, a, h)
}

type harness struct {
	d       *Dispatcher
	inv     *inventory.Inventory
	store   *failingStore
	dl      *fakeDownloader
	confirm bool
	asked   []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{dl: &fakeDownloader{}}
	h.store = &failingStore{InventoryRepo: repo.NewInventoryRepo(repo.NewMemoryStore(), nil)}
	n := 0
	h.inv = inventory.New(h.store, inventory.WithIDs(func() string { n++; return fmt.Sprintf("id-%d", n) }))
	require.NoError(t, h.inv.Load(context.Background()))
	h.d = New(h.inv, h.dl, func(msg string) bool {
		h.asked = append(h.asked, msg)
		return h.confirm
	}, nil)
	return h
}

func (h *harness) run(line string) []string {
	var out []string
	h.d.Execute(context.Background(), line, func(s string) { out = append(out, s) })
	return out
}

func TestHelp(t *testing.T) {
	h := newHarness(t)
	out := h.run("help")
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "Commands:\n"))
	assert.Contains(t, out[0], "export csv|json")
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, []string{"Unknown command: frobnicate"}, h.run("frobnicate now"))
}

func TestBlankLineIgnored(t *testing.T) {
	h := newHarness(t)
	assert.Empty(t, h.run("   "))
	assert.Empty(t, h.d.Recall().Lines())
}

func TestAddCommand(t *testing.T) {
	h := newHarness(t)
	out := h.run(`add tag=PC-100 type=laptop model=X1 serial=S1 status=active owner=alice notes="spare unit"`)
	assert.Equal(t, []string{"Added PC-100"}, out)

	assets := h.inv.Assets()
	require.Len(t, assets, 1)
	a := assets[0]
	assert.Equal(t, "id-1", a.ID)
	assert.Equal(t, "alice", a.Owner)
	assert.Equal(t, "spare unit", a.Notes)
	assert.Equal(t, "", a.Location)
	assert.NotNil(t, a.Audit)

	hist := h.inv.History()
	require.Len(t, hist, 1)
	assert.Equal(t, "add", hist[0].Action)
	assert.Equal(t, "tag=PC-100", hist[0].Details)
	assert.Equal(t, models.DefaultActor, hist[0].Actor)
}

func TestAddMissingField(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, []string{"Missing serial"}, h.run("add tag=PC-1 type=laptop model=X1 status=active"))
	assert.Equal(t, []string{"Missing tag"}, h.run("add"))
	assert.Equal(t, []string{"Missing status"}, h.run("add tag=PC-1 type=laptop model=X1 serial=S1"))
	assert.Empty(t, h.inv.Assets())
	assert.Empty(t, h.inv.History())
}

func TestAddInvalidStatus(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, []string{"Invalid status broken"}, h.run("add tag=PC-1 type=laptop model=X1 serial=S1 status=broken"))
	assert.Empty(t, h.inv.Assets())
}

func TestListAndSearch(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, []string{"No assets found."}, h.run("list"))

	h.run("add tag=PC-1 type=laptop model=X1 serial=S1 status=active owner=alice")
	h.run("add tag=PC-2 type=desktop model=Z2 serial=S2 status=repair")

	assert.Equal(t, []string{
		"PC-1 laptop X1 S1 owner=alice status=active",
		"PC-2 desktop Z2 S2 owner= status=repair",
	}, h.run("list"))
	assert.Equal(t, []string{"PC-2 desktop Z2 S2 owner= status=repair"}, h.run("search status=rep"))
	assert.Equal(t, []string{"PC-1 laptop X1 S1 owner=alice status=active"}, h.run("list owner=ALI type=lap"))
	assert.Equal(t, []string{"No assets found."}, h.run("list owner=bob"))
}

func TestEditCommand(t *testing.T) {
	h := newHarness(t)
	h.run("add tag=PC-1 type=laptop model=X1 serial=S1 status=active owner=alice")
	before := h.inv.Assets()[0]

	assert.Equal(t, []string{"Edited PC-1"}, h.run("edit tag=PC-1 status=repair type=server"))

	after := h.inv.Assets()[0]
	assert.Equal(t, models.StatusRepair, after.Status)
	before.Status = models.StatusRepair
	assert.Equal(t, before, after, "only status changes; type is not editable")

	hist := h.inv.History()
	assert.Equal(t, "edit", hist[len(hist)-1].Action)
	assert.Equal(t, "tag=PC-1", hist[len(hist)-1].Details)
}

func TestEditAndRetireErrors(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, []string{"Specify tag=..."}, h.run("edit owner=bob"))
	assert.Equal(t, []string{"Specify tag=..."}, h.run("retire"))
	assert.Equal(t, []string{"Not found."}, h.run("edit tag=NOPE owner=bob"))
	assert.Equal(t, []string{"Not found."}, h.run("retire tag=NOPE"))
	assert.Empty(t, h.inv.History())
}

func TestRetireCommand(t *testing.T) {
	h := newHarness(t)
	h.run("add tag=PC-1 type=laptop model=X1 serial=S1 status=active")
	assert.Equal(t, []string{"Retired PC-1"}, h.run("retire tag=PC-1"))
	assert.Equal(t, models.StatusRetired, h.inv.Assets()[0].Status)
	assert.Len(t, h.inv.Assets(), 1)
}

func TestExportCommand(t *testing.T) {
	h := newHarness(t)
	h.run("add tag=PC-1 type=laptop model=X1 serial=S1 status=active")

	assert.Equal(t, []string{"Export complete."}, h.run("export csv"))
	assert.Equal(t, []string{"Export complete."}, h.run("export"))
	assert.Equal(t, []string{"Export complete."}, h.run("export CSV"))

	require.Len(t, h.dl.got, 3)
	assert.Equal(t, "assets.csv", h.dl.got[0].name)
	assert.Equal(t, "text/csv", h.dl.got[0].mime)
	assert.True(t, strings.HasPrefix(h.dl.got[0].content, `"id","tag"`))
	assert.Equal(t, "assets.json", h.dl.got[1].name)
	assert.Equal(t, "assets.json", h.dl.got[2].name)
}

func TestExportFailureStillCompletes(t *testing.T) {
	h := newHarness(t)
	h.dl.err = errors.New("read-only")
	assert.Equal(t, []string{"Export complete."}, h.run("export json"))
}

func TestWipeCommand(t *testing.T) {
	h := newHarness(t)
	h.run("add tag=PC-1 type=laptop model=X1 serial=S1 status=active")

	assert.Empty(t, h.run("wipe"), "declined wipe prints nothing")
	assert.Len(t, h.inv.Assets(), 1)

	h.confirm = true
	assert.Equal(t, []string{"Data wiped."}, h.run("wipe"))
	assert.Empty(t, h.inv.Assets())
	assert.Empty(t, h.inv.History())
	assert.Equal(t, []string{WipePrompt, WipePrompt}, h.asked)
}

func TestSaveFailure(t *testing.T) {
	h := newHarness(t)
	h.store.fail = true
	out := h.run("add tag=PC-1 type=laptop model=X1 serial=S1 status=active")
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "Save failed: "))
	assert.Contains(t, out[0], "disk full")
	assert.Empty(t, h.inv.Assets())
}

func TestExecuteRecordsRecall(t *testing.T) {
	h := newHarness(t)
	h.run("help")
	h.run("bogus")
	h.d.Run(context.Background(), "list", func(string) {})

	assert.Equal(t, []string{"help", "bogus"}, h.d.Recall().Lines())
}

func TestActorFromContext(t *testing.T) {
	h := newHarness(t)
	ctx := inventory.WithActor(context.Background(), "carol")
	h.d.Execute(ctx, "add tag=PC-1 type=laptop model=X1 serial=S1 status=active", func(string) {})
	assert.Equal(t, "carol", h.inv.History()[0].Actor)
}

func TestNames(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, []string{"add", "edit", "export", "help", "list", "retire", "search", "wipe"}, h.d.Names())
}
