package editor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roomcraft/roomcraft/internal/models"
)

// ErrQuit is returned by Exec for the quit command
var ErrQuit = errors.New("quit")

// Designer starts a design cycle and returns the new inventory
type Designer interface {
	Design(ctx context.Context, prompt string) ([]models.CatalogItem, models.Theme, error)
}

// Shell is a line-oriented front end for an Editor
type Shell struct {
	ed       *Editor
	designer Designer
	out      io.Writer
}

func NewShell(ed *Editor, designer Designer, out io.Writer) *Shell {
	return &Shell{ed: ed, designer: designer, out: out}
}

const help = `commands:
  design <prompt>          start a new cycle from a prompt
  place <id> <x> <y>       drop an inventory item onto a cell
  move <x> <y> <x2> <y2>   move the item at a cell to another cell
  remove <x> <y>           return the item at a cell to the inventory
  show                     print the grid
  inventory                list unplaced items
  reset                    return every placed item to the inventory
  quit`

// Run reads commands from in until EOF or quit. Command errors are printed
// and do not stop the loop.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(s.out, "> ")
	for scanner.Scan() {
		err := s.Exec(ctx, scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(s.out, "> ")
	}
	return scanner.Err()
}

// Exec runs a single command line
func (s *Shell) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "help":
		fmt.Fprintln(s.out, help)
		return nil
	case "quit", "exit":
		return ErrQuit
	case "design":
		if len(args) == 0 {
			return fmt.Errorf("usage: design <prompt>")
		}
		if s.designer == nil {
			return fmt.Errorf("no design backend configured")
		}
		items, theme, err := s.designer.Design(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if err := s.ed.Reset(ctx, items); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "theme %s, %d items in inventory\n", theme, len(items))
		return nil
	case "place":
		if len(args) != 3 {
			return fmt.Errorf("usage: place <id> <x> <y>")
		}
		coords, err := parseInts(args[1:], 2)
		if err != nil {
			return fmt.Errorf("usage: place <id> <x> <y>")
		}
		return s.ed.Drop(ctx, args[0], models.Cell{X: coords[0], Y: coords[1]})
	case "move":
		coords, err := parseInts(args, 4)
		if err != nil {
			return fmt.Errorf("usage: move <x> <y> <x2> <y2>")
		}
		from := models.Cell{X: coords[0], Y: coords[1]}
		id, ok := s.ed.Layout().Lookup(from)
		if !ok {
			return fmt.Errorf("cell %s is empty: %w", from, ErrItemNotFound)
		}
		return s.ed.Drop(ctx, id, models.Cell{X: coords[2], Y: coords[3]})
	case "remove":
		coords, err := parseInts(args, 2)
		if err != nil {
			return fmt.Errorf("usage: remove <x> <y>")
		}
		return s.ed.ReturnToInventory(ctx, models.Cell{X: coords[0], Y: coords[1]})
	case "show":
		s.printGrid()
		return nil
	case "inventory":
		for _, item := range s.ed.Inventory() {
			fmt.Fprintf(s.out, "%s\t%s\t%s\n", item.ID, item.Category, item.Title)
		}
		return nil
	case "reset":
		items := s.ed.Inventory()
		for _, entry := range s.ed.Layout() {
			if item, ok := s.ed.Item(entry.ID); ok {
				items = append(items, item)
			}
		}
		return s.ed.Reset(ctx, items)
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func (s *Shell) printGrid() {
	grid := s.ed.Grid()
	layout := s.ed.Layout()
	for y := 0; y < grid.Size; y++ {
		row := make([]string, grid.Size)
		for x := 0; x < grid.Size; x++ {
			c := models.Cell{X: x, Y: y}
			switch id, ok := layout.Lookup(c); {
			case grid.IsReserved(c):
				row[x] = fmt.Sprintf("%-8s", "[you]")
			case ok:
				row[x] = fmt.Sprintf("%-8s", truncate(id, 8))
			default:
				row[x] = fmt.Sprintf("%-8s", ".")
			}
		}
		fmt.Fprintln(s.out, strings.TrimRight(strings.Join(row, " "), " "))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func parseInts(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
