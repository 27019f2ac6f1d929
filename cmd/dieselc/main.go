/*
Dieselc starts an interactive session against the bundled demo grammar.

It reads lines of input, parses each one as an arithmetic expression, and
prints the resulting value along with any markers attached to the parse. A
line ending in "?N" (N an integer offset into the line) instead requests
completions at that offset rather than a full parse.

Usage:

	dieselc [flags]

The flags are:

	-version
		Give the current version of dieselc and then exit.

	-d/-direct
	    Force reading directly from the console as opposed to using GNU
		readline based routines for reading input even if launched in a tty.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/scala-steward/diesel-core/internal/diesel"
	"github.com/scala-steward/diesel-core/internal/diesel/demo"
	"github.com/scala-steward/diesel-core/internal/input"
	"github.com/scala-steward/diesel-core/internal/version"
)

const (
	ExitSuccess = iota
	ExitSessionError
	ExitInitError
)

var (
	returnCode  = ExitSuccess
	flagVersion = flag.Bool("version", false, "Gives the version info")
	forceDirect bool
)

func init() {
	const forceDirectUsage = "force reading directly from stdin instead of going through GNU readline where possible"
	flag.BoolVar(&forceDirect, "direct", false, forceDirectUsage)
	flag.BoolVar(&forceDirect, "d", false, forceDirectUsage+" (shorthand)")
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic("unrecoverable panic occured")
		} else {
			os.Exit(returnCode)
		}
	}()

	flag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	reader, err := newReader(forceDirect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer reader.Close()

	eng := demo.NewEngine()

	fmt.Println(rosed.Edit(
		"Type an arithmetic expression (e.g. \"1 + 2 * 3\") to parse it, or "+
			"end a line with \"?N\" to request completions at offset N. "+
			"Type QUIT to exit.").Wrap(72).String())

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			if err == io.EOF {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitSessionError
			return
		}

		trimmed := strings.TrimSpace(line)
		if strings.EqualFold(trimmed, "QUIT") {
			return
		}

		if idx := strings.LastIndex(trimmed, "?"); idx >= 0 {
			if offset, convErr := strconv.Atoi(trimmed[idx+1:]); convErr == nil {
				runPredict(eng, trimmed[:idx], offset)
				continue
			}
		}

		runParse(eng, trimmed)
	}
}

func runParse(eng *diesel.Engine, text string) {
	res, err := eng.Parse(text, "")
	if err != nil {
		fmt.Printf("ERROR: %s\n", err.Error())
		return
	}

	if !res.Success {
		fmt.Println("no parse")
	} else {
		fmt.Printf("= %v\n", res.Value)
	}

	for _, m := range res.Markers {
		fmt.Printf("  %s: %s\n", m.Severity, m.Message("en-US"))
	}
}

func runPredict(eng *diesel.Engine, text string, offset int) {
	res, err := eng.Predict(text, offset, "")
	if err != nil {
		fmt.Printf("ERROR: %s\n", err.Error())
		return
	}

	if len(res.Proposals) == 0 {
		fmt.Println("no completions")
		return
	}

	for _, p := range res.Proposals {
		fmt.Printf("  %s\n", p.Text)
	}
}

// newReader picks between an interactive readline-backed reader and a
// direct stdin reader the way tqi did, based on forceDirect and whether
// stdin/stdout are attached to a TTY.
func newReader(forceDirect bool) (commandReader, error) {
	if forceDirect {
		return input.NewDirectReader(os.Stdin), nil
	}

	rdr, err := input.NewInteractiveReader()
	if err != nil {
		return input.NewDirectReader(os.Stdin), nil
	}
	return rdr, nil
}

// commandReader is the minimal surface main needs from either reader
// implementation in internal/input.
type commandReader interface {
	ReadCommand() (string, error)
	Close() error
}
