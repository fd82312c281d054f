package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/zarko-visaurum/nand2tetris/compiler"
)

var outputDir string
var noOptimize bool
var noColor bool

func main() {
	app := cli.NewApp()
	app.Name = "jackc"
	app.Usage = "compile Jack source files to VM code"
	app.ArgsUsage = "<file.jack | directory>"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "output, o",
			Usage:       "directory to write .vm files into (default: next to the source)",
			Destination: &outputDir,
		},
		cli.BoolFlag{
			Name:        "no-optimize",
			Usage:       "disable constant folding, strength reduction and peephole passes",
			Destination: &noOptimize,
		},
		cli.BoolFlag{
			Name:        "no-color",
			Usage:       "hide colors in error messages",
			Destination: &noColor,
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: jackc [options] <file.jack | directory>", 2)
	}
	target := c.Args().First()

	info, err := os.Stat(target)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	opts := compiler.Options{Optimize: !noOptimize}

	var results []*compiler.Result
	if info.IsDir() {
		results, err = compiler.CompileDirectory(target, opts)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		if len(results) == 0 {
			return cli.NewExitError(fmt.Sprintf("no .jack files in %s", target), 1)
		}
	} else {
		results = []*compiler.Result{compiler.CompileFile(target, opts)}
	}

	failed := 0
	for _, result := range results {
		if !result.OK() {
			failed++
			fmt.Fprint(os.Stderr, compiler.FormatErrors(result, !noColor))
			continue
		}
		if err := writeResult(result, target, info.IsDir()); err != nil {
			failed++
			fmt.Fprintln(os.Stderr, err)
		}
	}

	if failed > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d files failed", failed, len(results)), 1)
	}
	return nil
}

func writeResult(result *compiler.Result, target string, isDir bool) *compiler.Error {
	dir := outputDir
	if dir == "" {
		if isDir {
			dir = target
		} else {
			dir = filepath.Dir(target)
		}
	}
	return compiler.WriteResult(result, dir)
}
