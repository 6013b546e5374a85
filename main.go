/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/anima-rb/engine"
	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/testbed"
)

func main() {
	configPath := flag.String("config", "anima.toml", "path to the TOML configuration")
	flag.Parse()

	cfg, err := engine.LoadApplicationConfig(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogInfo("%s not found, using defaults", *configPath)
		cfg = engine.DefaultApplicationConfig()
	} else if err != nil {
		core.LogFatal(err.Error())
	}

	tb := testbed.NewTestGame(cfg)

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// the window and the context belong to this thread, so the handler only
	// stops the loop and shutdown happens below
	go func() {
		<-sigCh
		e.Stop()
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		core.LogFatal(runErr.Error())
	}
}
