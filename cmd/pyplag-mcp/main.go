package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ludo-technologies/pyplag/internal/config"
	"github.com/ludo-technologies/pyplag/internal/version"
	"github.com/ludo-technologies/pyplag/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const serverName = "pyplag"

// configEnvVar names an explicit configuration file for the server
const configEnvVar = "PYPLAG_CONFIG"

func main() {
	// Set up logging to stderr (MCP uses stdout for JSON-RPC)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, configPath, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if configPath != "" {
		log.Printf("Using configuration %s\n", configPath)
	}

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	mcp.RegisterTools(server, mcp.NewHandlerSet(mcp.NewDependencies(cfg, configPath)))

	log.Printf("Starting %s MCP server v%s\n", serverName, version.Short())
	log.Println("Registered tools:")
	log.Println("  - compare_files: Similarity of two Python files")
	log.Println("  - score_pairs: Batch scoring with plagiarism flags")
	log.Println("  - cross_compare: All pairs under a directory or glob")
	log.Println("")
	log.Println("Server ready - waiting for MCP client connection...")

	// Blocks until the client disconnects
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads $PYPLAG_CONFIG when set and otherwise discovers
// .pyplag.toml or pyproject.toml from the working directory
func loadConfig() (*config.Config, string, error) {
	if path := os.Getenv(configEnvVar); path != "" {
		cfg, err := config.LoadConfigFile(path)
		return cfg, path, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig(), "", nil
	}
	return config.NewTomlConfigLoader().LoadConfigWithSource(cwd)
}
