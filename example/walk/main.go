package main

import (
	"fmt"
	"os"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/pathing"
	"github.com/oomph-ac/pathing/bedsim"
	"github.com/oomph-ac/pathing/event"
	"github.com/oomph-ac/pathing/goal"
	"github.com/oomph-ac/pathing/settings"
	"github.com/oomph-ac/pathing/world"
	"github.com/sirupsen/logrus"
)

const settingsPath = "settings.toml"

// The following program walks a simulated player over a small obstacle course, ticking 20 times per
// second like a game server would.
func main() {
	conf := readSettings()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	if lvl, err := logrus.ParseLevel(conf.Debug.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	if conf.Debug.StatsView {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(conf.Debug.StatsViewAddr))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	w := world.New(log)
	buildCourse(w)

	pl := bedsim.NewPlayer(w, mgl64.Vec3{0.5, 64, 0.5}, bedsim.DefaultOptions())
	p := pathing.New(pathing.Config{World: w, Settings: conf, Log: log})
	defer p.Close()

	completed := make(chan event.PathCompleted, 1)
	p.Handle(event.HandlerFunc(func(ev event.Event) {
		switch ev := ev.(type) {
		case event.PathCalculated:
			log.WithFields(logrus.Fields{
				"length":   ev.Length,
				"reaches":  ev.ReachesGoal,
				"expanded": ev.Expanded,
				"duration": ev.Duration,
			}).Info("path calculated")
		case event.PathEvent:
			log.WithField("tick", ev.Tick()).Debug(ev.Kind)
		case event.PathCompleted:
			select {
			case completed <- ev:
			default:
			}
		}
	}))

	g := goal.Block{Pos: cube.Pos{26, 65, 0}}
	if !p.SetGoalAndPath(g, pl) {
		log.Fatalf("unable to start pathing to %v", g)
	}
	log.Infof("pathing to %v", g)

	ticker := time.NewTicker(time.Second / 20)
	defer ticker.Stop()
	timeout := time.After(time.Minute)
	for {
		select {
		case <-ticker.C:
			p.Tick(pl)
			pl.Tick()
		case c := <-completed:
			log.WithFields(logrus.Fields{
				"success": c.Success,
				"reason":  c.Reason,
				"pos":     pl.State().Pos,
				"ticks":   pl.Ticks(),
				"blocks":  pl.Throwaways(),
			}).Info("pathing completed")
			return
		case <-timeout:
			p.Cancel(pl)
			log.Warn("gave up after a minute")
			return
		}
	}
}

// buildCourse builds a floor with a gap to jump, a step up, a wall to dig through and a hole that has to
// be bridged.
func buildCourse(w *world.World) {
	w.LoadArea(cube.Pos{-16, 0, -16}, cube.Pos{47, 0, 15})
	w.Fill(cube.Pos{-4, 63, -4}, cube.Pos{30, 63, 4}, world.Grass)
	w.Fill(cube.Pos{-4, 62, -4}, cube.Pos{30, 60, 4}, world.Dirt)

	// A two block gap across the whole floor.
	w.Fill(cube.Pos{5, 60, -4}, cube.Pos{6, 63, 4}, world.Air)
	// A step up onto a raised platform.
	w.Fill(cube.Pos{10, 64, -4}, cube.Pos{30, 64, 4}, world.Stone)
	// A wall across the platform.
	w.Fill(cube.Pos{15, 65, -4}, cube.Pos{15, 67, 4}, world.Cobblestone)
	// A hole too wide to jump.
	w.Fill(cube.Pos{19, 60, -4}, cube.Pos{23, 64, 4}, world.Air)
}

// readSettings loads the settings file, creating it with the defaults if it does not exist yet.
func readSettings() settings.Settings {
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := settings.SaveDefault(settingsPath); err != nil {
			fmt.Printf("unable to save default settings: %v\n", err)
			return settings.DefaultSettings()
		}
	}
	conf, err := settings.Load(settingsPath)
	if err != nil {
		fmt.Printf("unable to load settings, using defaults: %v\n", err)
		return settings.DefaultSettings()
	}
	return conf
}
