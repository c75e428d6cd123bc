// ABOUTME: MCP tool handler implementations for the message vault server
// ABOUTME: Resolves thread references, calls storage, and shapes JSON results
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harper/msgvault/internal/models"
	"github.com/harper/msgvault/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	store storage.Store
}

// resolveThread accepts a thread name, full id, or unique id prefix
func (h *Handlers) resolveThread(ref string) (string, error) {
	if thread, err := h.store.GetThreadByName(ref); err == nil {
		return thread.ID, nil
	}
	return h.store.ResolveThreadID(ref)
}

// PostMessage handles the post_message tool
func (h *Handlers) PostMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threadRef, err := request.RequireString("thread")
	if err != nil {
		return mcp.NewToolResultError("thread argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	threadID, err := h.resolveThread(threadRef)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown thread %q: %v", threadRef, err)), nil
	}

	role := models.RoleOrDefault(request.GetString("role", ""))
	msg, err := models.NewMessage(threadID, role, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	msg.Sender = request.GetString("sender", "")
	msg.Source = "agent"

	if err := h.store.CreateMessage(msg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to store message: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"message_id": msg.ID,
		"thread_id":  threadID,
	})
}

// SearchMessages handles the search_messages tool
func (h *Handlers) SearchMessages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	opts := storage.SearchOptions{
		Limit: request.GetInt("limit", 20),
	}
	if threadRef := request.GetString("thread", ""); threadRef != "" {
		threadID, err := h.resolveThread(threadRef)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("unknown thread %q: %v", threadRef, err)), nil
		}
		opts.ThreadID = threadID
	}

	msgs, err := h.store.SearchMessages(query, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	results := make([]map[string]interface{}, 0, len(msgs))
	for _, m := range msgs {
		results = append(results, messageJSON(&m))
	}
	return jsonResult(map[string]interface{}{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

// ListThreads handles the list_threads tool
func (h *Handlers) ListThreads(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		threads []models.Thread
		err     error
	)
	if statusStr := request.GetString("status", ""); statusStr != "" {
		status, perr := models.ParseThreadStatus(statusStr)
		if perr != nil {
			return mcp.NewToolResultError(perr.Error()), nil
		}
		threads, err = h.store.ListThreadsByStatus(status)
	} else {
		threads, err = h.store.ListThreads()
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list threads: %v", err)), nil
	}

	results := make([]map[string]interface{}, 0, len(threads))
	for _, t := range threads {
		entry := map[string]interface{}{
			"id":         t.ID,
			"title":      t.Title,
			"status":     string(t.Status),
			"updated_at": t.UpdatedAt,
		}
		if t.Name != "" {
			entry["name"] = t.Name
		}
		results = append(results, entry)
	}
	return jsonResult(map[string]interface{}{
		"count":   len(results),
		"threads": results,
	})
}

// ReadThread handles the read_thread tool
func (h *Handlers) ReadThread(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threadRef, err := request.RequireString("thread")
	if err != nil {
		return mcp.NewToolResultError("thread argument is required and must be a string"), nil
	}
	threadID, err := h.resolveThread(threadRef)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown thread %q: %v", threadRef, err)), nil
	}

	thread, err := h.store.GetThread(threadID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load thread: %v", err)), nil
	}
	msgs, err := h.store.ListMessages(threadID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load messages: %v", err)), nil
	}

	limit := request.GetInt("limit", 0)
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	results := make([]map[string]interface{}, 0, len(msgs))
	for _, m := range msgs {
		results = append(results, messageJSON(&m))
	}
	return jsonResult(map[string]interface{}{
		"thread_id": thread.ID,
		"title":     thread.Title,
		"status":    string(thread.Status),
		"messages":  results,
	})
}

// CreateThread handles the create_thread tool
func (h *Handlers) CreateThread(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title argument is required and must be a string"), nil
	}

	thread, err := models.NewThread(title)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	thread.Name = request.GetString("name", "")

	if err := h.store.CreateThread(thread); err != nil {
		if errors.Is(err, storage.ErrConstraint) {
			return mcp.NewToolResultError(fmt.Sprintf("thread name %q is already taken", thread.Name)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to create thread: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"thread_id": thread.ID,
		"title":     thread.Title,
	})
}

func messageJSON(m *models.Message) map[string]interface{} {
	entry := map[string]interface{}{
		"id":         m.ID,
		"thread_id":  m.ThreadID,
		"role":       string(m.Role),
		"content":    m.Content,
		"created_at": m.CreatedAt,
	}
	if m.Sender != "" {
		entry["sender"] = m.Sender
	}
	return entry
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
