package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestLoggerFiltersBelowMinimum(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.Debug("hidden %d", 1)
	l.Info("shown %d", 2)
	l.Error("failure %s", "x")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug message leaked through info filter: %q", out)
	}
	if !strings.Contains(out, "[INFO] shown 2") {
		t.Fatalf("expected info line, got %q", out)
	}
	if !strings.Contains(out, "[ERROR] failure x") {
		t.Fatalf("expected error line, got %q", out)
	}
}

func TestHelpersAreSafeWithoutInit(t *testing.T) {
	SetGlobal(nil)
	Debug("nothing %d", 1)
	Info("nothing")
	Warn("nothing")
	Error("nothing")
}

func TestGlobalHelpersUseInstalledLogger(t *testing.T) {
	var buf bytes.Buffer
	SetGlobal(New(&buf, LevelDebug))
	defer SetGlobal(nil)

	Warn("slot %d on cooldown", 3)
	if !strings.Contains(buf.String(), "[WARN] slot 3 on cooldown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestCloseWhileLogging(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug)
	SetGlobal(l)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				Debug("worker %d line %d", i, j)
			}
		}()
	}
	Close()
	wg.Wait()

	if global.Load() != nil {
		t.Fatal("global logger still installed after Close")
	}
	l.Info("after close")
	if out := buf.String(); strings.Contains(out, "after close") || !strings.Contains(out, "Logger closing") {
		t.Fatalf("unexpected output %q", out)
	}
}
