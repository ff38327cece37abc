// Package terminal implements the stdin command reader spec.md §6.2
// describes: a background goroutine reads newline-delimited commands into a
// bounded channel, and a Core.OnTick hook drains it once per outer loop
// iteration and translates recognized tokens into bus events.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"

	"github.com/latticevm/latticevm/internal/chem"
)

// cmdSeparators are the characters that split a command from its argument,
// per spec.md §6.2: "q run" / "q=run" / "q:run" are all equivalent splits.
const cmdSeparators = " =:"

const helpText = `Supported commands:
    q, quit       Quit the system
    r, run        Run or stop the system
    h, help       Show this message
    l, load file  Load atoms and VMs from a file
    s, save file  Save atoms and VMs to a file`

// Reader owns the background stdin-reading goroutine and the bounded
// channel it feeds. Cancellation is a stop flag the reader goroutine
// observes between reads, mirroring spec.md §5's terminal-input sketch.
type Reader struct {
	lines   chan string
	stopped chan struct{}
}

// Start launches the reader goroutine over r (os.Stdin in production,
// anything satisfying io.Reader in tests) and returns a Reader ready to be
// wired into a Core via Attach. capacity bounds the backlog of unconsumed
// lines; a full channel blocks the reader goroutine, not the core thread.
func Start(r io.Reader, capacity int) *Reader {
	t := &Reader{
		lines:   make(chan string, capacity),
		stopped: make(chan struct{}),
	}
	go t.run(bufio.NewScanner(r))
	return t
}

func (t *Reader) run(scanner *bufio.Scanner) {
	for scanner.Scan() {
		select {
		case <-t.stopped:
			return
		case t.lines <- scanner.Text():
		}
	}
}

// Stop signals the reader goroutine to exit at its next opportunity. It
// does not unblock an in-progress Scan() call on a blocking reader (os.Stdin
// in particular); the process exiting is what actually reclaims it.
func (t *Reader) Stop() { close(t.stopped) }

// Attach registers an OnTick hook on core that drains any command lines
// queued since the last tick and dispatches them, per spec.md §4.12's "call
// each external tick subscriber" contract.
func (t *Reader) Attach(core *chem.Core) {
	core.OnTick(func(c *chem.Core) {
		for {
			select {
			case line := <-t.lines:
				runCommand(line, c)
			default:
				return
			}
		}
	})
}

func runCommand(line string, core *chem.Core) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.FieldsFunc(line, func(r rune) bool { return strings.ContainsRune(cmdSeparators, r) })
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "q", "quit":
		core.FireQuit()
	case "r", "run":
		core.FireRun()
	case "h", "help":
		fmt.Println(helpText)
	case "l", "load":
		loadOrSave(fields, core.FireLoadDump, "load")
	case "s", "save":
		loadOrSave(fields, core.FireSaveDump, "save")
	default:
		glog.Errorf("terminal: unknown command %q, type \"help\" for details", fields[0])
	}
}

func loadOrSave(fields []string, fire func(string), verb string) {
	if len(fields) < 2 {
		glog.Errorf("terminal: file for %s wasn't specified, type \"help\" for details", verb)
		return
	}
	fire(fields[1])
}
