// ai8xize generates register initialization streams for the AI8X family of
// CNN accelerators. It reads a register script and emits either inline C
// statements (for embedding in firmware loaders) or a raw memory image
// (for RTL simulation).
//
// Usage:
//
//	ai8xize -input network.reg [options]
//
// Options:
//
//	-input string          Register script file (required, "-" for stdin)
//	-output string         Output file (default: stdout)
//	-device string         Target part: AI84 or AI85 (default "AI85")
//	-device-config string  Device profile override file
//	-block                 Emit a raw memory image instead of C statements
//	-base string           Override the APB base address (hex accepted)
//	-verify                Guard every write with a read-back check
//	-no-error-stop         Continue after overwrite errors
//	-trace                 Enable debug tracing
//
// Examples:
//
//	# Generate a firmware loader body
//	ai8xize -input mnist.reg -output cnn_load.c
//
//	# Generate a .mem image for simulation
//	ai8xize -input mnist.reg -block -base 0 -output cnn_load.mem
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jerren9312/ai8x-synthesis/pkg/apb"
	"github.com/jerren9312/ai8x-synthesis/pkg/config"
	"github.com/jerren9312/ai8x-synthesis/pkg/device"
	"github.com/jerren9312/ai8x-synthesis/pkg/errors"
	"github.com/jerren9312/ai8x-synthesis/pkg/log"
	"github.com/jerren9312/ai8x-synthesis/pkg/script"
)

func main() {
	// Command line flags
	inputFile := flag.String("input", "", "Register script file (required, \"-\" for stdin)")
	outputFile := flag.String("output", "", "Output file (default: stdout)")
	deviceName := flag.String("device", "AI85", "Target part: AI84 or AI85")
	deviceConfig := flag.String("device-config", "", "Device profile override file")
	blockMode := flag.Bool("block", false, "Emit a raw memory image instead of C statements")
	baseStr := flag.String("base", "", "Override the APB base address (hex accepted)")
	verify := flag.Bool("verify", false, "Guard every write with a read-back check")
	noErrorStop := flag.Bool("no-error-stop", false, "Continue after overwrite errors")
	trace := flag.Bool("trace", false, "Enable debug tracing")

	flag.Parse()

	// Validate required flags
	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -input is required\n")
		flag.Usage()
		os.Exit(1)
	}

	if *trace {
		dl := log.New("ai8x")
		dl.SetLevel(log.DEBUG)
		log.SetDefaultLogger(dl)
	}
	logger := log.GetLogger("ai8xize")

	if err := run(*inputFile, *outputFile, *deviceName, *deviceConfig,
		*baseStr, *blockMode, *verify, *noErrorStop); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(inputFile, outputFile, deviceName, deviceConfig, baseStr string,
	blockMode, verify, noErrorStop bool) (err error) {
	// Contract violations inside the write scheduler panic; surface them
	// as errors rather than a crash with a stack trace.
	defer errors.RecoverPanic(&err)

	dev, err := device.Lookup(deviceName)
	if err != nil {
		return err
	}
	if deviceConfig != "" {
		cfg, err := config.Load(deviceConfig)
		if err != nil {
			return err
		}
		if dev, err = device.ApplyOverrides(dev, cfg); err != nil {
			return err
		}
		if err := cfg.CheckUnusedOptions(); err != nil {
			return err
		}
	}

	base := dev.APBBase
	if baseStr != "" {
		b, err := strconv.ParseUint(baseStr, 0, 32)
		if err != nil {
			return errors.RuntimeError(fmt.Sprintf("bad base address %q: %v", baseStr, err))
		}
		base = uint32(b)
	}

	var in io.Reader
	if inputFile == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(inputFile)
		if err != nil {
			return errors.RuntimeErrorInit("input", err.Error())
		}
		defer f.Close()
		in = f
	}
	cmds, err := script.Parse(in)
	if err != nil {
		if serr, ok := err.(*errors.SynthError); ok {
			errors.WithInputPath(serr, inputFile)
		}
		return err
	}

	out := io.Writer(os.Stdout)
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return errors.RuntimeErrorInit("output", err.Error())
		}
		defer f.Close()
		out = f
	}
	bw := bufio.NewWriter(out)

	w := apb.NewWriter(bw, dev, apb.Options{
		Base:         base,
		BlockMode:    blockMode,
		VerifyWrites: verify,
		NoErrorStop:  noErrorStop,
	})

	// The C encoding is bracketed by a loader function that returns 0 on
	// a failed read-back and 1 on success; the memory image is raw.
	if !blockMode {
		fmt.Fprintf(bw, "// %s initialization stream generated by ai8xize\n", dev.Name)
		fmt.Fprintf(bw, "#include <stdint.h>\n\n")
		fmt.Fprintf(bw, "int cnn_load(void)\n{\n")
	}
	if err := script.Exec(w, cmds); err != nil {
		return err
	}
	if !blockMode {
		fmt.Fprintf(bw, "  return 1;\n}\n")
	}

	if err := bw.Flush(); err != nil {
		return errors.EmitError(err)
	}
	return nil
}
