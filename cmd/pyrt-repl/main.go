// Command pyrt-repl is a line-at-a-time evaluator over Runtime.EvalCached:
// each line typed at the prompt is compiled (on first use) and executed,
// with the result or error printed back.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/pyrt-dev/pyrt"
	"github.com/pyrt-dev/pyrt/internal/logging"
)

func main() {
	var verbose = flag.Bool("v", false, "Verbose output")
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	cfg := pyrt.DefaultConfig()
	cfg.Logger = logger
	rt, err := pyrt.New(cfg)
	if err != nil {
		logger.Error("failed to start runtime", "error", err)
		os.Exit(1)
	}
	defer func() {
		rt.Shutdown()
		if err := rt.Close(); err != nil {
			logger.Error("error closing runtime", "error", err)
		}
	}()

	fmt.Println("pyrt-repl — one expression per line, Ctrl-D to quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		result, err := rt.EvalCached(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		s, err := pyrt.ReprOf(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else if s != "None" {
			fmt.Println(s)
		}
		pyrt.Decref(result, pyrt.DefaultAllocator())
	}

	if err := scanner.Err(); err != nil {
		logger.Error("input error", "error", err)
		os.Exit(1)
	}
	fmt.Println()
}
