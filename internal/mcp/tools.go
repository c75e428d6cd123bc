// ABOUTME: MCP tool definitions and registration for the message vault server
// ABOUTME: Defines JSON schemas for the archive's MCP tools
package mcp

import (
	"github.com/harper/msgvault/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store storage.Store) *Handlers {
	handlers := &Handlers{store: store}

	// 1. post_message - Append a message to a thread
	server.AddTool(mcp.Tool{
		Name:        "post_message",
		Description: "Post a message to a thread in the archive. The thread id may be a unique prefix of the full id, or a thread name.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"thread": map[string]interface{}{
					"type":        "string",
					"description": "Thread id (or unique prefix) or thread name",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Message body",
				},
				"role": map[string]interface{}{
					"type":        "string",
					"description": "Message role: user, assistant, system, or tool (default: user)",
				},
				"sender": map[string]interface{}{
					"type":        "string",
					"description": "Optional sender label",
				},
			},
			Required: []string{"thread", "content"},
		},
	}, handlers.PostMessage)

	// 2. search_messages - Full-text search over the archive
	server.AddTool(mcp.Tool{
		Name:        "search_messages",
		Description: "Search message content across the archive. Matches partial words; results come back best match first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"thread": map[string]interface{}{
					"type":        "string",
					"description": "Optional thread id (or prefix) to scope the search",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results (default: 20)",
					"default":     20,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchMessages)

	// 3. list_threads - List threads in the archive
	server.AddTool(mcp.Tool{
		Name:        "list_threads",
		Description: "List threads, most recently active first. Optionally filter by status (open or closed).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"status": map[string]interface{}{
					"type":        "string",
					"description": "Optional status filter: open or closed",
				},
			},
		},
	}, handlers.ListThreads)

	// 4. read_thread - Read a thread's messages in order
	server.AddTool(mcp.Tool{
		Name:        "read_thread",
		Description: "Read the messages of a thread in posting order.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"thread": map[string]interface{}{
					"type":        "string",
					"description": "Thread id (or unique prefix) or thread name",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of messages (default: all)",
				},
			},
			Required: []string{"thread"},
		},
	}, handlers.ReadThread)

	// 5. create_thread - Start a new thread
	server.AddTool(mcp.Tool{
		Name:        "create_thread",
		Description: "Create a new thread in the archive.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Thread title",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Optional unique short name for the thread",
				},
			},
			Required: []string{"title"},
		},
	}, handlers.CreateThread)

	return handlers
}
