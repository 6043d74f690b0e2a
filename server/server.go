// Package server exposes headerstamp as an MCP server.
package server

import (
	"github.com/lexandro/headerstamp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// Setup creates and configures the MCP server with all tool registrations.
func Setup(
	reviseHandler *tools.ReviseHandler,
	headersHandler *tools.HeadersHandler,
	searchHandler *tools.SearchHandler,
	statusHandler *tools.StatusHandler,
) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "headerstamp",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server maintains the header tag lines (@file:, @create:, @version:, @update:, @author:) of the source files in one project.

- Use headerstamp_revise to stamp a new version or author into the project, or into one file or directory after editing it
- Use headerstamp_headers to see the current tag values of a file without changing it
- Use headerstamp_search to find revised files by author, version or language
- Revision keeps each file's access and modification times`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "headerstamp_revise",
		Description: `Revise the header tag lines of files under the project root.

Every @file:, @version: and @update: line is rewritten. @create: $create$ and @author: $author$ placeholders are filled once and kept afterwards.
Only files whose extension passes the filter are touched. Filter tokens are literal extensions (".md") or group names ("python", "c", "cpp", "java", "php", "html", "sh", "shell", "bash").`,
	}, reviseHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "headerstamp_headers",
		Description: "Show the current header tag values of one file. Read only.",
	}, headersHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "headerstamp_search",
		Description: `Search the files revised since the server started.

Query examples:
  - author:alice
  - version:"2.0.0"
  - language:Python
  - +language:C -author:bob
  - * (every revised file)`,
	}, searchHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "headerstamp_status",
		Description: "Show the project root, filter, last run counters, revised file count per language, and uptime.",
	}, statusHandler.Handle)

	return mcpServer
}
