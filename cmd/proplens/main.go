package main

import (
	"fmt"
	"os"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch command := os.Args[1]; command {
	case "serve":
		err = runServe(os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:])
	case "scan":
		err = runScan(os.Args[2:])
	case "version":
		fmt.Printf("proplens %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: proplens <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve      Start the MCP server on stdio")
	fmt.Println("  inspect    Show the editable arguments at a position in a file")
	fmt.Println("  scan       Scan a workspace and list component declarations")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
}
