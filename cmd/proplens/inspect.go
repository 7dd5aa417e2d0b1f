package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gnana997/proplens/pkg/document"
	"github.com/gnana997/proplens/pkg/editable"
	"github.com/gnana997/proplens/pkg/parser"
	"github.com/gnana997/proplens/pkg/util"
	"github.com/gnana997/proplens/pkg/workspace"
)

// runInspect answers one editable-arguments query from the command line.
func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	line := fs.Int("line", 0, "0-based cursor line")
	character := fs.Int("character", 0, "0-based cursor character")
	workspaceFlag := fs.String("workspace", "", "workspace root for cross-file resolution")
	asJSON := fs.Bool("json", false, "print raw JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: proplens inspect FILE --line N --character M")
	}

	path, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		return err
	}

	logger := util.NewLogger(util.LoggerConfig{
		Level:  util.LevelWarn,
		Format: util.FormatText,
		Output: os.Stderr,
	})

	svcCfg := &document.ServiceConfig{Logger: logger}
	if *workspaceFlag != "" {
		pm := parser.NewParserManager(logger)
		defer pm.Close()

		index := workspace.NewIndex()
		if _, err := workspace.NewScanner(pm, index, logger).Scan(*workspaceFlag, workspace.DefaultScanConfig()); err != nil {
			return err
		}
		svcCfg.Lookup = index
	}

	svc, err := document.NewService(svcCfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	result, err := svc.EditableArguments(context.Background(), "file://"+path, *line, *character)
	if err != nil {
		return err
	}

	if *asJSON {
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}

	if result == nil {
		fmt.Println("no editable invocation at this position")
		return nil
	}
	printResult(result)
	return nil
}

// printResult renders the editable arguments as a table.
func printResult(result *editable.Result) {
	fmt.Printf("%s  [%s:%d]\n", result.Name, result.Document.URI, result.Document.Version)
	fmt.Println()

	if len(result.Arguments) == 0 {
		fmt.Println("Arguments  (none)")
		return
	}
	fmt.Println("Arguments")

	nameW := len("NAME")
	typeW := len("TYPE")
	valueW := len("VALUE")
	for _, arg := range result.Arguments {
		nameW = max(nameW, len(arg.Name))
		typeW = max(typeW, len(string(arg.Type)))
		valueW = max(valueW, len(formatValue(arg)))
	}

	fmt.Printf("  %-*s  %-*s  %-*s  %-8s  %s\n", nameW, "NAME", typeW, "TYPE", valueW, "VALUE", "SOURCE", "FLAGS")
	fmt.Printf("  %s\n", strings.Repeat("─", nameW+typeW+valueW+22))

	for _, arg := range result.Arguments {
		source := "argument"
		if arg.IsDefault {
			source = "default"
		}
		var flags []string
		if arg.IsRequired {
			flags = append(flags, "required")
		}
		if arg.IsNullable {
			flags = append(flags, "nullable")
		}
		fmt.Printf("  %-*s  %-*s  %-*s  %-8s  %s\n",
			nameW, arg.Name, typeW, string(arg.Type), valueW, formatValue(arg),
			source, strings.Join(flags, ","))
	}
}

// formatValue picks the best rendering for one argument: the structured
// value, else the display text, else a dash.
func formatValue(arg editable.EditableArgument) string {
	if arg.Value != nil {
		if s, ok := arg.Value.(string); ok {
			return fmt.Sprintf("%q", s)
		}
		return fmt.Sprintf("%v", arg.Value)
	}
	if arg.DisplayValue != "" {
		return arg.DisplayValue
	}
	return "-"
}

// runScan indexes a workspace and lists the declarations it found.
func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	logger := util.NewLogger(util.LoggerConfig{
		Level:  util.LevelWarn,
		Format: util.FormatText,
		Output: os.Stderr,
	})
	pm := parser.NewParserManager(logger)
	defer pm.Close()

	index := workspace.NewIndex()
	stats, err := workspace.NewScanner(pm, index, logger).Scan(root, workspace.DefaultScanConfig())
	if err != nil {
		return err
	}

	fmt.Printf("Scanned %d files in %s (%d failed)\n",
		stats.FilesIndexed, stats.Duration.Round(time.Millisecond), stats.FilesFailed)
	fmt.Println()

	components := index.ComponentDecls()
	if len(components) == 0 {
		fmt.Println("Components  (none)")
	} else {
		fmt.Println("Components")
		for _, decl := range components {
			fmt.Printf("  %-24s %2d params  %s\n", decl.Name, len(decl.Params), decl.File)
		}
	}

	factories := index.FactoryDecls()
	fmt.Println()
	if len(factories) == 0 {
		fmt.Println("Factories  (none)")
	} else {
		fmt.Println("Factories")
		for _, decl := range factories {
			fmt.Printf("  %-24s %2d params  %s\n", decl.Name, len(decl.Params), decl.File)
		}
	}
	return nil
}
