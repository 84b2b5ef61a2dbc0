package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fakeGPIO(t *testing.T, pins ...int) string {
	t.Helper()
	root := t.TempDir()
	for _, pin := range pins {
		dir := filepath.Join(root, fmt.Sprintf("gpio%d", pin))
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		setPin(t, root, pin, "1")
	}
	return root
}

func setPin(t *testing.T, root string, pin int, value string) {
	t.Helper()
	path := filepath.Join(root, fmt.Sprintf("gpio%d", pin), "value")
	if err := os.WriteFile(path, []byte(value+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGPIOPressOnFallingEdge(t *testing.T) {
	root := fakeGPIO(t, GPIO_BTN_DEMO, GPIO_BTN_SNAPSHOT)

	var pressed []Action
	g := NewGPIOController(root, func(a Action) { pressed = append(pressed, a) })
	g.AddButton(GPIO_BTN_DEMO, "DEMO", ActionToggleDemo)
	g.AddButton(GPIO_BTN_SNAPSHOT, "SNAP", ActionSnapshot)

	now := time.UnixMilli(10_000)
	g.now = func() time.Time { return now }
	step := func(d time.Duration) {
		now = now.Add(d)
		g.pollButtons()
	}

	step(0)
	if len(pressed) != 0 {
		t.Fatalf("idle pins pressed: %v", pressed)
	}

	setPin(t, root, GPIO_BTN_DEMO, "0")
	step(100 * time.Millisecond)
	if len(pressed) != 1 || pressed[0] != ActionToggleDemo {
		t.Fatalf("pressed = %v, want [demo]", pressed)
	}

	// Held down: no repeat.
	step(100 * time.Millisecond)
	if len(pressed) != 1 {
		t.Fatalf("held button repeated: %v", pressed)
	}

	// The release registers; a bounce straight after it does not.
	setPin(t, root, GPIO_BTN_DEMO, "1")
	step(100 * time.Millisecond)
	setPin(t, root, GPIO_BTN_DEMO, "0")
	step(20 * time.Millisecond)
	if len(pressed) != 1 {
		t.Fatalf("bounce triggered a press: %v", pressed)
	}
	setPin(t, root, GPIO_BTN_DEMO, "1")

	setPin(t, root, GPIO_BTN_SNAPSHOT, "0")
	step(100 * time.Millisecond)
	if len(pressed) != 2 || pressed[1] != ActionSnapshot {
		t.Fatalf("pressed = %v, want [demo snapshot]", pressed)
	}
}

func TestGPIOUnavailable(t *testing.T) {
	g := NewGPIOController(filepath.Join(t.TempDir(), "missing"), nil)
	g.SetupDefaultButtons()
	if g.IsAvailable() {
		t.Fatal("IsAvailable() = true for a missing tree")
	}
	if err := g.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	g.Stop()
}

func TestGPIOStartStop(t *testing.T) {
	root := fakeGPIO(t, GPIO_BTN_DEMO, GPIO_BTN_ZERO, GPIO_BTN_SNAPSHOT, GPIO_BTN_FPS)
	presses := make(chan Action, 4)
	g := NewGPIOController(root, func(a Action) { presses <- a })
	g.SetupDefaultButtons()

	if err := g.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, fmt.Sprintf("gpio%d", GPIO_BTN_ZERO), "direction"))
	if err != nil || string(data) != "in" {
		t.Errorf("direction = %q, %v; want in", data, err)
	}

	setPin(t, root, GPIO_BTN_ZERO, "0")
	select {
	case a := <-presses:
		if a != ActionToggleTrim {
			t.Errorf("action = %v, want ActionToggleTrim", a)
		}
	case <-time.After(2 * time.Second):
		t.Error("press not detected")
	}
	g.Stop()
	g.Stop()
}
