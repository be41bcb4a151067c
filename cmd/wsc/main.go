package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/wsclang/wsc/internal/asm/arm64"
	"github.com/wsclang/wsc/internal/bf"
	"github.com/wsclang/wsc/internal/compile"
	"github.com/wsclang/wsc/internal/interp"
	"github.com/wsclang/wsc/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "wsc: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	lang := flag.String("lang", "ws", "Source language (ws, b)")
	output := flag.String("o", "", "Write generated assembly to this file (default: stdout)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <run|compile> <file>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Interpret a W program, or compile W or B to ARM64 assembly.\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s run prog.ws\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -o prog.s compile prog.ws\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -lang b compile prog.b\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		return fmt.Errorf("expected a command and a source file")
	}
	command, path := args[0], args[1]

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch command {
	case "run":
		if *lang != "ws" {
			return fmt.Errorf("only W programs can be interpreted")
		}
		prog, err := loadW(src)
		if err != nil {
			return err
		}
		return interp.Exec(prog, interp.NewStdio())

	case "compile":
		var code []arm64.Instr
		switch *lang {
		case "ws":
			prog, err := loadW(src)
			if err != nil {
				return err
			}
			code, err = compile.W(prog)
			if err != nil {
				return err
			}
		case "b":
			prog, err := bf.Parse(src)
			if err != nil {
				return err
			}
			code, err = compile.B(prog)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown language %q", *lang)
		}
		slog.Debug("compiled", "lang", *lang, "instrs", len(code))
		text := arm64.RenderProgram(code)
		if *output == "" {
			fmt.Print(text)
			return nil
		}
		return os.WriteFile(*output, []byte(text), 0o644)

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func loadW(src []byte) (*ws.Program, error) {
	instrs, err := ws.Parse(src)
	if err != nil {
		return nil, err
	}
	return ws.NewProgram(instrs)
}
