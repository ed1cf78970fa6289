// Package profilers sets up profiling for the programs: a CPU profile written to a file
// (-cpu_profile) and the HTTP pprof handlers (-prof).
//
// If linked, it installs the profiler flags.
package profilers

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagProfiler   = flag.Int("prof", -1, "If set, serves the HTTP pprof handlers on the given port.")
	flagCPUProfile = flag.String("cpu_profile", "", "write cpu profile to `file`")
)

// Profiler holds the profilers started by Setup.
type Profiler struct {
	ctx      context.Context
	cpuFile  *os.File
	httpAddr string
}

// Setup starts the HTTP (flag -prof) and CPU profilers (flag -cpu_profile), if they were configured.
// Follow it with a deferred call to Profiler.OnQuit.
func Setup(ctx context.Context) (*Profiler, error) {
	p := &Profiler{ctx: ctx}
	if *flagCPUProfile != "" {
		f, err := os.Create(*flagCPUProfile)
		if err != nil {
			return nil, errors.Wrapf(err, "could not create CPU profile %q", *flagCPUProfile)
		}
		if err = pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "could not start CPU profile")
		}
		p.cpuFile = f
	}
	if *flagProfiler >= 0 {
		p.httpAddr = fmt.Sprintf("localhost:%d", *flagProfiler)
		fmt.Printf("Starting profiler on %s/debug/pprof\n", p.httpAddr)
		fmt.Printf("- You can access it with: $ go tool pprof %s/debug/pprof/heap\n", p.httpAddr)
		go func() {
			klog.Fatal(http.ListenAndServe(p.httpAddr, nil))
		}()
	}
	return p, nil
}

// OnQuit stops the CPU profile. If the HTTP profiler is running, it keeps the program alive
// until the context given to Setup is done, so the profile can still be read.
func (p *Profiler) OnQuit() {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			klog.Errorf("Failed to close CPU profile: %v", err)
		}
		p.cpuFile = nil
	}
	if p.httpAddr == "" || p.ctx.Err() != nil {
		return
	}
	// Garbage collect, to see if there is anything leaking.
	for range 10 {
		runtime.GC()
	}
	fmt.Printf("- Program finished: kept alive with profiler opened at %s/debug/pprof\n", p.httpAddr)
	fmt.Printf("- Interrupt (Ctrl+C) to exit\n")
	<-p.ctx.Done()
}
