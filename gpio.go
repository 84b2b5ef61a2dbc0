package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// GPIO button assignments (BCM numbering)
const (
	GPIO_BTN_DEMO     = 17 // Pin 11
	GPIO_BTN_ZERO     = 27 // Pin 13
	GPIO_BTN_SNAPSHOT = 22 // Pin 15
	GPIO_BTN_FPS      = 23 // Pin 16
)

// GPIOButton represents a single GPIO button
type GPIOButton struct {
	pin        int
	name       string
	action     Action
	lastState  bool
	debounceMs int64
	lastChange int64
}

// GPIOController polls sysfs GPIO pins and reports button presses.
type GPIOController struct {
	root    string
	onPress func(Action)
	now     func() time.Time

	buttons  []*GPIOButton
	enabled  bool
	mu       sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
}

// NewGPIOController creates a controller for the sysfs tree at root
// (normally /sys/class/gpio).
func NewGPIOController(root string, onPress func(Action)) *GPIOController {
	return &GPIOController{
		root:    root,
		onPress: onPress,
		now:     time.Now,
	}
}

// AddButton adds a GPIO button
func (g *GPIOController) AddButton(pin int, name string, action Action) {
	g.buttons = append(g.buttons, &GPIOButton{
		pin:        pin,
		name:       name,
		action:     action,
		debounceMs: 50,
	})
}

// SetupDefaultButtons configures standard button mappings
func (g *GPIOController) SetupDefaultButtons() {
	g.AddButton(GPIO_BTN_DEMO, "DEMO", ActionToggleDemo)
	g.AddButton(GPIO_BTN_ZERO, "ZERO", ActionToggleTrim)
	g.AddButton(GPIO_BTN_SNAPSHOT, "SNAP", ActionSnapshot)
	g.AddButton(GPIO_BTN_FPS, "FPS", ActionToggleFPSLog)
}

// IsAvailable returns true if the GPIO sysfs tree exists
func (g *GPIOController) IsAvailable() bool {
	_, err := os.Stat(g.root)
	return err == nil
}

// Start exports the pins and begins polling. Without a GPIO tree it logs
// and returns nil.
func (g *GPIOController) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.enabled {
		return nil
	}
	if !g.IsAvailable() {
		log.Println("GPIO not available (not running on Pi?) - GPIO buttons disabled")
		return nil
	}

	for _, btn := range g.buttons {
		if err := g.exportPin(btn.pin); err != nil {
			log.Printf("Warning: Could not export GPIO %d: %v", btn.pin, err)
			continue
		}
		if err := g.setDirection(btn.pin, "in"); err != nil {
			log.Printf("Warning: Could not set GPIO %d direction: %v", btn.pin, err)
		}
	}

	g.enabled = true
	g.stopChan = make(chan struct{})
	g.done = make(chan struct{})
	go g.pollLoop(g.stopChan, g.done)
	log.Println("GPIO controller started")
	return nil
}

// Stop stops polling and unexports the pins
func (g *GPIOController) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.enabled {
		return
	}
	close(g.stopChan)
	<-g.done
	g.enabled = false

	for _, btn := range g.buttons {
		if err := g.unexportPin(btn.pin); err != nil {
			log.Printf("Warning: Could not unexport GPIO %d: %v", btn.pin, err)
		}
	}
}

func (g *GPIOController) pollLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			g.pollButtons()
		}
	}
}

func (g *GPIOController) pollButtons() {
	now := g.now().UnixMilli()

	for _, btn := range g.buttons {
		value, err := g.readPin(btn.pin)
		if err != nil {
			continue
		}

		// Active low: pressed when value is 0
		pressed := value == 0

		if pressed == btn.lastState || now-btn.lastChange <= btn.debounceMs {
			continue
		}
		btn.lastState = pressed
		btn.lastChange = now

		// Trigger on press, not release
		if pressed && g.onPress != nil {
			g.onPress(btn.action)
		}
	}
}

// GPIO sysfs helpers

func (g *GPIOController) pinPath(pin int, file string) string {
	return filepath.Join(g.root, fmt.Sprintf("gpio%d", pin), file)
}

func (g *GPIOController) exportPin(pin int) error {
	if _, err := os.Stat(filepath.Join(g.root, fmt.Sprintf("gpio%d", pin))); err == nil {
		return nil // Already exported
	}

	if err := writeSysfs(filepath.Join(g.root, "export"), strconv.Itoa(pin)); err != nil {
		return err
	}

	// Wait for sysfs to create the pin directory
	time.Sleep(100 * time.Millisecond)
	return nil
}

func (g *GPIOController) unexportPin(pin int) error {
	return writeSysfs(filepath.Join(g.root, "unexport"), strconv.Itoa(pin))
}

// writeSysfs writes to an existing control file; sysfs files are never
// created.
func writeSysfs(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(value)
	return err
}

func (g *GPIOController) setDirection(pin int, direction string) error {
	return os.WriteFile(g.pinPath(pin, "direction"), []byte(direction), 0644)
}

func (g *GPIOController) readPin(pin int) (int, error) {
	f, err := os.Open(g.pinPath(pin, "value"))
	if err != nil {
		return -1, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		if scanner.Text() == "0" {
			return 0, nil
		}
		return 1, nil
	}
	return -1, fmt.Errorf("gpio%d: could not read pin value", pin)
}
