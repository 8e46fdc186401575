// Package ui renders the heads-up display and its controls.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/polyp/sim"
)

// HUDData holds everything the HUD needs for one frame.
type HUDData struct {
	Stats  sim.Stats
	Tick   int64
	FPS    int32
	Paused bool
	Debug  bool
	Speed  float32

	ScreenWidth  int32
	ScreenHeight int32
}

// HUDResult carries control changes back to the game loop.
type HUDResult struct {
	Speed float32
	Debug bool
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD and returns the state of its controls.
func (h *HUD) Draw(data HUDData) HUDResult {
	rl.DrawText("Polyp", 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Pop: %d | Births: %d | Deaths: %d", data.Stats.Population, data.Stats.Births, data.Stats.Deaths),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Sim: %.0fs | Avg energy: %.2f | FPS: %d", data.Tick, data.Stats.SimTime, data.Stats.AvgEnergy, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	res := HUDResult{Speed: data.Speed, Debug: data.Debug}

	rl.DrawText("Speed", 10, 100, 14, rl.Gray)
	res.Speed = gui.SliderBar(
		rl.Rectangle{X: 60, Y: 98, Width: 140, Height: 18},
		"1x", "10x",
		data.Speed, 1, 10,
	)

	res.Debug = gui.CheckBox(
		rl.Rectangle{X: 10, Y: 124, Width: 16, Height: 16},
		"Debug overlay", data.Debug,
	)

	return res
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32) {
	rl.DrawText("SPACE pause | TAB debug | </> speed | ESC quit", 10, screenHeight-25, 14, rl.Gray)
}
