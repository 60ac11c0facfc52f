// Command skirtgo is the simulation driver: it loads a TOML
// configuration and runs the MeshGrid/WorkerPool/FluxRecorder pipeline to
// completion. Structure mirrors photons4d's cmd/photons4d/main.go: env-var
// debug toggles, optional CPU profiling, a config path taken from the
// first positional argument, and a single error-to-exit-code translation
// at the top level.
package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/AislingA/SKIRT9/internal/simulation"
	"github.com/AislingA/SKIRT9/internal/skirterr"
	"github.com/AislingA/SKIRT9/internal/skirtlog"
)

func main() {
	if os.Getenv("DEBUG") != "" {
		skirtlog.SetMode(skirtlog.DebugMode)
	}

	if os.Getenv("PROFILE") != "" {
		f, err := os.Create("cpu.out")
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfgPath := "config.toml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	if err := simulation.Run(cfgPath); err != nil {
		if skirterr.IsFatal(err) {
			skirtlog.Criticalf("%v", err)
		} else {
			fmt.Printf("Error: %v\n", err)
		}
		os.Exit(1)
	}
}
