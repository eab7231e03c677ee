package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/brylang/bryc/internal/config"
	"github.com/brylang/bryc/internal/driver"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/lexer"
	"github.com/brylang/bryc/internal/parser"
	"github.com/brylang/bryc/internal/target"
)

var (
	// Version info, set by ldflags during release builds.
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		jsonFlag    = flag.Bool("json", false, "emit diagnostics as JSON")
		versionFlag = flag.Bool("version", false, "print version information")
		helpFlag    = flag.Bool("help", false, "show help")
		configFlag  = flag.String("config", "", "path to bryc.yaml (defaults omitted)")
		interactive = flag.Bool("i", false, "read snippets from an interactive prompt instead of a file")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	cmd := flag.Arg(0)
	switch cmd {
	case "build", "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing module argument\n", red("Error"))
			fmt.Printf("Usage: brycc %s <import-path>\n", cmd)
			os.Exit(1)
		}
		runBuild(flag.Arg(1), *configFlag, *jsonFlag, cmd == "check")
	case "tokens":
		if *interactive {
			runInteractive(dumpTokens)
			return
		}
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			os.Exit(1)
		}
		runOnFile(flag.Arg(1), dumpTokens)
	case "ast":
		if *interactive {
			runInteractive(dumpAST)
			return
		}
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			os.Exit(1)
		}
		runOnFile(flag.Arg(1), dumpAST)
	case "version":
		printVersion()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), cmd)
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("brycc %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("built:  %s\n", BuildTime)
	}
}

func printHelp() {
	fmt.Println(bold("brycc — the berry compiler frontend"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  brycc <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <import-path>   Load, resolve, and check a module graph\n", cyan("build"))
	fmt.Printf("  %s <import-path>   Like build, but exits nonzero on any diagnostic\n", cyan("check"))
	fmt.Printf("  %s <file>          Dump the token stream for a file\n", cyan("tokens"))
	fmt.Printf("  %s <file>          Dump the parsed AST for a file\n", cyan("ast"))
	fmt.Printf("  %s                 Print version information\n", cyan("version"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -config <path>   bryc.yaml to load (defaults to cwd/roots)")
	fmt.Println("  -json            emit diagnostics as JSON instead of colorized text")
	fmt.Println("  -i               tokens/ast: read snippets from an interactive prompt")
}

func loadConfig(path string) *config.BuildConfig {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	return cfg
}

func runBuild(importPath, configPath string, asJSON, failOnDiagnostic bool) {
	cfg := loadConfig(configPath)
	p := driver.New(cfg)

	results, err := p.Build(importPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	total := 0
	for _, r := range results {
		for _, rep := range r.Errs {
			printReport(rep, asJSON)
			total++
		}
	}
	for _, rep := range p.Errors().Reports() {
		printReport(rep, asJSON)
		total++
	}

	if total == 0 {
		if !asJSON {
			fmt.Printf("%s checked %d module(s), no errors\n", green("✓"), len(results))
		}
		return
	}
	if !asJSON {
		fmt.Fprintf(os.Stderr, "%s %d diagnostic(s)\n", red("✗"), total)
	}
	if failOnDiagnostic {
		os.Exit(1)
	}
}

func printReport(rep *errors.Report, asJSON bool) {
	if asJSON {
		line, err := rep.ToJSON(false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			return
		}
		fmt.Println(line)
		return
	}
	loc := "?"
	if rep.Span != nil {
		loc = rep.Span.String()
	}
	fmt.Fprintf(os.Stderr, "%s %s %s: %s\n", red(loc), yellow(rep.Code), rep.Phase, rep.Message)
}

func runOnFile(filename string, dump func(src, filename string)) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", red("Error"), filename, err)
		os.Exit(1)
	}
	dump(string(content), filename)
}

func dumpTokens(src, filename string) {
	lx := lexer.New(src, filename)
	for {
		tok := lx.Next()
		fmt.Println(tok.String())
		if tok.Kind.String() == "EOF" || lx.Err() != nil {
			break
		}
	}
	if rep := lx.Err(); rep != nil {
		printReport(rep, false)
	}
}

func dumpAST(src, filename string) {
	lx := lexer.New(src, filename)
	p := parser.New(lx, filename).WithTarget(target.Host())
	file := p.ParseFile()
	for _, rep := range p.Errors().Reports() {
		printReport(rep, false)
	}
	fmt.Printf("%s: %d import(s), %d declaration(s)\n", cyan(filename), len(file.Imports), len(file.Decls))
	for _, d := range file.Decls {
		fmt.Printf("  %-20s %T\n", d.DeclName(), d)
	}
}

// runInteractive feeds successive liner prompts to dump, so a snippet
// can be inspected without writing it to a file first — mirroring the
// teacher's REPL use of liner for line editing and history.
func runInteractive(dump func(src, filename string)) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println(bold("brycc"), "interactive mode,", faint("Ctrl-D to exit"))
	for {
		input, err := line.Prompt("brycc> ")
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				fmt.Println()
				return
			}
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			continue
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		dump(input, "<interactive>")
	}
}

func faint(s string) string {
	return color.New(color.Faint).Sprint(s)
}
