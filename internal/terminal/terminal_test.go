package terminal

import (
	"strings"
	"testing"
	"time"

	"github.com/latticevm/latticevm/internal/chem"
)

func newTestCore() *chem.Core {
	cfg := chem.DefaultConfig()
	cfg.W, cfg.H = 4, 4
	cfg.MaxVMs, cfg.MoveBufSize = 2, 8
	return chem.NewCore(cfg)
}

func drain(t *testing.T, core *chem.Core, input string) {
	t.Helper()
	r := Start(strings.NewReader(input), 8)
	r.Attach(core)
	// Give the reader goroutine a chance to push lines onto the channel
	// before the tick drains it.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(r.lines) > 0 || input == "" {
			break
		}
		time.Sleep(time.Millisecond)
	}
	core.Step()
	r.Stop()
}

func TestRunCommandQuit(t *testing.T) {
	core := newTestCore()
	drain(t, core, "quit\n")
	if !core.Config().Stopped {
		t.Fatal("quit command did not set Stopped")
	}
}

func TestRunCommandShortRun(t *testing.T) {
	core := newTestCore()
	drain(t, core, "r\n")
	if !core.Config().IsRunning {
		t.Fatal("r command did not toggle IsRunning")
	}
}

func TestRunCommandUnknownIsIgnored(t *testing.T) {
	core := newTestCore()
	drain(t, core, "bogus\n")
	cfg := core.Config()
	if cfg.Stopped || cfg.IsRunning {
		t.Fatalf("unknown command mutated state: %+v", cfg)
	}
}

func TestCommandSeparatorVariants(t *testing.T) {
	for _, line := range []string{"q\n", "q \n", "q=\n", "q:\n"} {
		core := newTestCore()
		drain(t, core, strings.TrimSuffix(line, "\n")+"\n")
		if !core.Config().Stopped {
			t.Fatalf("line %q did not quit", line)
		}
	}
}

func TestLoadWithoutFileLogsAndDoesNotPanic(t *testing.T) {
	core := newTestCore()
	drain(t, core, "load\n")
}
