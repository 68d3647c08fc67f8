package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/todos"
	"github.com/idilsaglam/tada/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool // list grouped by pending/done
}

// App is what the subcommands operate on.
type App struct {
	// Todos is initialized on first use, so help and usage errors never
	// touch the store. It may be nil when NeedsList(args) is false.
	Todos   *todos.Manager
	Printer ui.Printer
	Options Options
	// Interactive runs the full-screen list. Used by `tui` and by a bare
	// invocation.
	Interactive func(*todos.Manager, ui.Theme) error

	loaded bool
}

// NeedsList reports whether args name a subcommand that reads or changes
// the list.
func NeedsList(args []string) bool {
	if len(args) == 0 {
		return true
	}
	switch args[0] {
	case "tui", "ls", "add", "toggle", "done":
		return true
	}
	return false
}

func (a *App) list() model.Collection {
	if !a.loaded {
		a.Todos.Initialize()
		a.loaded = true
	}
	return a.Todos.Snapshot()
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func (a *App) Run(args []string) int {
	if len(args) == 0 {
		return a.doInteractive()
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		a.PrintHelp()
		return 0

	case "tui":
		return a.doInteractive()

	case "ls":
		return a.doList()

	case "add":
		if len(rest) == 0 {
			a.Printer.Fail("usage: todo add <label...>")
			return 2
		}
		return a.doAdd(strings.Join(rest, " "))

	case "toggle", "done":
		if len(rest) != 1 {
			a.Printer.Fail("usage: todo toggle <index>")
			return 2
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			a.Printer.Fail(cmd + ": not a number: " + rest[0])
			return 2
		}
		return a.doToggle(n)
	}

	a.Printer.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(a.Printer.Err)
	a.PrintHelp()
	return 2
}

func (a *App) PrintHelp() {
	fmt.Fprint(a.Printer.Out, `todo - a tiny persistent todo list

Usage:
  todo [flags] [subcommand] [args]

Subcommands:
  (none), tui        Interactive list (space toggles, a adds, q quits)
  add <label...>     Add a new item at the top (label can be multiple words)
  ls                 Print the list
  toggle <index>     Check or uncheck the item at 1-based index

Flags:
  --store file|sqlite|memory   Storage backend (default file)
  --data <path>                Data file (default ./todos.json or ./todos.db)
  --theme classic|neon|mono    Color theme
  --group                      Group ls output by pending/done
  --log-level <level>          debug, info, warn, error
  --log-file <path>            Append logs to a file

Examples:
  todo add "Buy milk"
  todo ls
  todo toggle 2
`)
}

// -------------- subcommand impls ----------------

func (a *App) doInteractive() int {
	if a.Interactive == nil {
		a.Printer.Fail("interactive mode unavailable")
		return 1
	}
	a.list()
	if err := a.Interactive(a.Todos, a.Printer.Theme); err != nil {
		a.Printer.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func (a *App) doList() int {
	items := a.list()
	th := a.Printer.Theme

	d, p := items.Stats()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		th.Title.Render("Todos"),
		th.Success.Render(th.SymDone), d,
		th.Pending.Render(th.SymPending), p,
		th.Accent.Render("Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, th.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if a.Options.Group {
		lines = append(lines, a.groupLines(items)...)
	} else {
		lines = append(lines, a.flatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, th.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	a.Printer.Panel(lines)
	return 0
}

func (a *App) doAdd(label string) int {
	label = strings.TrimSpace(label)
	if label == "" {
		a.Printer.Fail("add: empty label")
		return 2
	}
	a.list()
	if _, err := a.Todos.Add(label); err != nil {
		a.Printer.Fail(saveMessage(err))
		return 1
	}
	a.Printer.OK("added")
	return 0
}

func (a *App) doToggle(userIndex int) int {
	items := a.list()
	if userIndex < 1 || userIndex > len(items) {
		a.Printer.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(items), userIndex))
		a.Printer.Hint("Hint: run `todo ls` to see valid indexes")
		return 2
	}
	it := items[userIndex-1]
	if _, err := a.Todos.Toggle(it.ID, !it.Checked); err != nil {
		a.Printer.Fail(saveMessage(err))
		return 1
	}
	if it.Checked {
		a.Printer.OK("unchecked " + strconv.Quote(it.Label))
	} else {
		a.Printer.OK("checked " + strconv.Quote(it.Label))
	}
	return 0
}

func saveMessage(err error) string {
	if errors.Is(err, todos.ErrPersist) {
		return "save: " + err.Error()
	}
	return err.Error()
}

// -------------- rendering helpers --------------

// entry is a todo with its 1-based position in the full list, so grouped
// output still shows indexes `todo toggle` accepts.
type entry struct {
	n    int
	todo model.Todo
}

func (a *App) flatLines(items model.Collection) []string {
	entries := make([]entry, 0, len(items))
	for i, it := range items {
		entries = append(entries, entry{n: i + 1, todo: it})
	}
	return a.entryLines(entries)
}

func (a *App) entryLines(entries []entry) []string {
	th := a.Printer.Theme
	if len(entries) == 0 {
		return []string{th.Muted.Render("no items")}
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		idx := fmt.Sprintf("%2d.", e.n)
		box := th.Muted.Render(th.Box(false))
		label := e.todo.Label
		if r := []rune(label); len(r) > 80 {
			label = string(r[:77]) + "..."
		}
		if e.todo.Checked {
			box = th.Success.Render(th.Box(true))
			label = th.Done.Render(label)
		}
		out = append(out, fmt.Sprintf("%s %s %s", th.Muted.Render(idx), box, label))
	}
	return out
}

func (a *App) groupLines(items model.Collection) []string {
	var pend, done []entry
	for i, it := range items {
		e := entry{n: i + 1, todo: it}
		if it.Checked {
			done = append(done, e)
		} else {
			pend = append(pend, e)
		}
	}
	th := a.Printer.Theme
	var lines []string
	lines = append(lines, th.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, th.Muted.Render("(none)"))
	} else {
		lines = append(lines, a.entryLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, th.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, th.Muted.Render("(none)"))
	} else {
		lines = append(lines, a.entryLines(done)...)
	}
	return lines
}
