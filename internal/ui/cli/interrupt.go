package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"k8s.io/klog/v2"
)

// SafeInterrupt captures SIGINT (Ctrl+C) and SIGTERM and calls onInterrupt.
// If the program hasn't exited after gracePeriod, it resets the terminal and exits.
//
// It returns a function that stops capturing the signals.
func SafeInterrupt(onInterrupt func(), gracePeriod time.Duration) (stop func()) {
	sigChan := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		var s os.Signal
		select {
		case s = <-sigChan:
		case <-done:
			return
		}
		fmt.Println()
		klog.Errorf("Got interrupted (signal %q), shutting down... (%s)", s, gracePeriod)
		if onInterrupt != nil {
			go onInterrupt()
		}
		time.Sleep(gracePeriod)
		ResetTerminal()
		klog.Fatalf("Graceful shutting down %s period expired, exiting.", gracePeriod)
	}()
	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

// ResetTerminal makes the cursor visible and restores the default terminal colors.
func ResetTerminal() {
	fmt.Print("\033[?25h\033[39;49;0m\n")
}
