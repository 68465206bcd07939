package editor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/roomcraft/roomcraft/internal/models"
	"gotest.tools/v3/assert"
)

type stubDesigner struct {
	items []models.CatalogItem
}

func (d *stubDesigner) Design(ctx context.Context, prompt string) ([]models.CatalogItem, models.Theme, error) {
	return d.items, models.ThemeGothic, nil
}

func TestShellSession(t *testing.T) {
	pusher := &recordingPusher{}
	ed := New(models.NewGrid(7), pusher)
	designer := &stubDesigner{items: []models.CatalogItem{
		{ID: "14612445102452", Title: "Chloe Throne Chair", Category: "Queen Throne"},
		{ID: "7407366602827", Title: "Emberdale Floor Lamp", Category: "Lighting"},
	}}
	var out bytes.Buffer
	sh := NewShell(ed, designer, &out)

	input := strings.Join([]string{
		"design dark library",
		"place 14612445102452 0 0",
		"place 7407366602827 3 3",
		"move 0 0 6 6",
		"remove 6 6",
		"bogus",
		"quit",
		"place 7407366602827 1 1",
	}, "\n")
	assert.NilError(t, sh.Run(context.Background(), strings.NewReader(input)))

	output := out.String()
	assert.Assert(t, strings.Contains(output, "theme gothic, 2 items in inventory"))
	assert.Assert(t, strings.Contains(output, "reserved"))
	assert.Assert(t, strings.Contains(output, "unknown command"))

	// design, place, move, remove; the rejected drop and everything after quit push nothing
	assert.Equal(t, len(pusher.pushes), 4)
	assert.Equal(t, len(ed.Layout()), 0)
	assert.Equal(t, len(ed.Inventory()), 2)
}

func TestShellShow(t *testing.T) {
	ed, _ := newEditor(t, "101")
	var out bytes.Buffer
	sh := NewShell(ed, nil, &out)

	assert.NilError(t, sh.Exec(context.Background(), "place 101 0 0"))
	assert.NilError(t, sh.Exec(context.Background(), "show"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, len(lines), 7)
	assert.Assert(t, strings.HasPrefix(lines[0], "101"))
	assert.Assert(t, strings.Contains(lines[3], "[you]"))
}

func TestShellReset(t *testing.T) {
	ed, _ := newEditor(t, "101", "205")
	sh := NewShell(ed, nil, &bytes.Buffer{})
	ctx := context.Background()

	assert.NilError(t, sh.Exec(ctx, "place 101 0 0"))
	assert.NilError(t, sh.Exec(ctx, "reset"))
	assert.Equal(t, len(ed.Layout()), 0)
	assert.Equal(t, len(ed.Inventory()), 2)
}

func TestShellUsageErrors(t *testing.T) {
	ed, _ := newEditor(t, "101")
	sh := NewShell(ed, nil, &bytes.Buffer{})
	ctx := context.Background()

	for _, line := range []string{"place 101", "place 101 a 1", "move 1 2", "remove x y", "design"} {
		assert.Assert(t, sh.Exec(ctx, line) != nil, line)
	}
	assert.Assert(t, errors.Is(sh.Exec(ctx, "quit"), ErrQuit))
	assert.Assert(t, sh.Exec(ctx, "design a room") != nil)
}
