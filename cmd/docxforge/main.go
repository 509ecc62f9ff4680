// Command docxforge serves the document tool surface.
// It speaks line-delimited JSON-RPC over stdio, exposes the same tools over
// HTTP, and can run a single tool from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/docxforge/docxforge/internal/api"
	"github.com/docxforge/docxforge/internal/logging"
	"github.com/docxforge/docxforge/internal/rpc"
	"github.com/docxforge/docxforge/internal/session"
	"github.com/docxforge/docxforge/internal/store"
	"github.com/docxforge/docxforge/internal/tools"
)

const version = "0.1.0"

// CLI defines the command-line interface for docxforge.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" default:"text"`
	Library   string `name:"library" help:"Template library directory (empty disables snapshot templates)" type:"path"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve tools over line-delimited JSON-RPC on stdio"`
	API     APICmd     `cmd:"" help:"Serve tools over HTTP with a WebSocket event feed"`
	Tool    ToolCmd    `cmd:"" help:"Run a single tool and print its response"`
	Tools   ToolsCmd   `cmd:"" help:"List the available tools"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// newRegistry builds the tool set shared by every command.
func newRegistry() (*tools.Registry, func(), error) {
	sess := session.New()
	var library *store.Store
	cleanup := func() {}
	if CLI.Library != "" {
		var err error
		library, err = store.Open(CLI.Library)
		if err != nil {
			return nil, nil, fmt.Errorf("open template library: %w", err)
		}
		cleanup = func() { library.Close() }
	}
	return tools.NewRegistry(sess, library), cleanup, nil
}

// ServeCmd runs the stdio JSON-RPC server. Logging goes to stderr; stdout
// carries the protocol.
type ServeCmd struct{}

func (c *ServeCmd) Run() error {
	registry, cleanup, err := newRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	server := rpc.NewServer(os.Stdin, os.Stdout, logging.GetLogger())
	rpc.BindRegistry(server, registry)
	logging.Info("rpc server ready", "tools", len(registry.Names()))
	return server.Serve(context.Background())
}

// APICmd starts the HTTP server.
type APICmd struct {
	Host string `help:"Listen address" default:"127.0.0.1"`
	Port int    `help:"HTTP server port" default:"8081"`
}

func (c *APICmd) Run() error {
	registry, cleanup, err := newRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	server := api.NewServer(api.Config{Host: c.Host, Port: c.Port}, registry)
	return server.Start(context.Background())
}

// ToolCmd runs one tool with JSON arguments and prints the response.
type ToolCmd struct {
	Name string `arg:"" help:"Tool name"`
	Args string `arg:"" optional:"" help:"JSON arguments" default:""`
}

func (c *ToolCmd) Run() error {
	registry, cleanup, err := newRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := registry.Call(context.Background(), c.Name, json.RawMessage(c.Args))
	if err != nil {
		return err
	}
	switch v := result.(type) {
	case string:
		fmt.Println(v)
	case json.RawMessage:
		fmt.Println(string(v))
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}

// ToolsCmd lists the registered tools.
type ToolsCmd struct{}

func (c *ToolsCmd) Run() error {
	registry, cleanup, err := newRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	for _, name := range registry.Names() {
		tool, _ := registry.Get(name)
		fmt.Printf("%-36s %s\n", tool.Name, tool.Description)
	}
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("docxforge version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("docxforge"),
		kong.Description("docxforge - document tool-call server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
