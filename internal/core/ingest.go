// ABOUTME: Hook event ingestion into the message archive
// ABOUTME: Turns agent lifecycle events from stdin JSON into stored messages
package core

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/harper/msgvault/internal/models"
	"github.com/harper/msgvault/internal/storage"
)

// Ingestor converts hook events into archived messages
type Ingestor struct {
	store storage.Store
}

// NewIngestor creates a new Ingestor
func NewIngestor(store storage.Store) *Ingestor {
	return &Ingestor{store: store}
}

// IngestResult reports what an ingest run did
type IngestResult struct {
	// Stored is the number of messages written (0 or 1)
	Stored int
	// ThreadID is the thread the message went to, when one was written
	ThreadID string
	// ThreadClosed is true when the target thread is closed; the
	// message is stored anyway and the caller may warn
	ThreadClosed bool
}

// hookEvent is the stdin payload: common fields plus per-event extras
type hookEvent struct {
	SessionID           string          `json:"session_id"`
	EventName           string          `json:"hook_event_name"`
	Prompt              string          `json:"prompt"`
	ToolName            string          `json:"tool_name"`
	ToolResponse        json.RawMessage `json:"tool_response"`
	TranscriptPath      string          `json:"transcript_path"`
	AgentTranscriptPath string          `json:"agent_transcript_path"`
	AgentType           string          `json:"agent_type"`
}

// IngestEvent stores a hook event as a message. The thread defaults to
// the event's session id unless threadIDOverride is set; the thread is
// created on first use. Events with nothing worth archiving (tool runs
// other than user questions, empty transcripts) store nothing.
func (i *Ingestor) IngestEvent(threadIDOverride string, input []byte) (*IngestResult, error) {
	var event hookEvent
	if err := json.Unmarshal(input, &event); err != nil {
		return nil, fmt.Errorf("invalid hook JSON: %w", err)
	}

	threadID := threadIDOverride
	if threadID == "" {
		threadID = event.SessionID
	}
	if threadID == "" {
		return nil, fmt.Errorf("hook event has no session_id and no thread override")
	}

	role, content, sender, source := classifyEvent(&event)
	if content == "" {
		return &IngestResult{}, nil
	}

	shortID := threadID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	thread, err := models.NewThread("Session " + shortID)
	if err != nil {
		return nil, err
	}
	thread.ID = threadID
	if err := i.store.UpsertThread(thread); err != nil {
		return nil, fmt.Errorf("failed to upsert thread: %w", err)
	}

	result := &IngestResult{ThreadID: threadID}
	if existing, err := i.store.GetThread(threadID); err == nil {
		result.ThreadClosed = existing.Status == models.ThreadStatusClosed
	}

	msg, err := models.NewMessage(threadID, role, content)
	if err != nil {
		return nil, err
	}
	msg.SessionID = event.SessionID
	msg.Sender = sender
	msg.Source = source
	if err := i.store.CreateMessage(msg); err != nil {
		return nil, fmt.Errorf("failed to store hook message: %w", err)
	}
	result.Stored = 1
	return result, nil
}

// classifyEvent maps a hook event onto role, content, sender, and
// source. Empty content means skip.
func classifyEvent(event *hookEvent) (models.Role, string, string, string) {
	switch event.EventName {
	case "UserPromptSubmit":
		return models.RoleUser, event.Prompt, "", "user"

	case "PostToolUse":
		// Only user-facing question tools are archived; everything
		// else would drag large tool outputs into the archive.
		if event.ToolName != "AskUserQuestion" {
			return models.RoleUser, "", "", ""
		}
		return models.RoleUser, parseAskUserQuestion(event.ToolResponse), "", "user"

	case "Stop":
		content := lastAssistantMessage(event.TranscriptPath)
		return models.RoleAssistant, content, "assistant", "agent"

	case "SubagentStop":
		content := lastAssistantMessage(event.AgentTranscriptPath)
		if content == "" {
			// transcript unavailable; record that the subagent finished
			return models.RoleSystem, "[SubagentStop] event received", "", "system"
		}
		agentType := event.AgentType
		if agentType == "" {
			agentType = "unknown"
		}
		return models.RoleAssistant, content, "subagent:" + agentType, "agent"

	default:
		name := event.EventName
		if name == "" {
			name = "Unknown"
		}
		return models.RoleSystem, fmt.Sprintf("[%s] event received", name), "", "system"
	}
}

// lastAssistantMessage extracts the final assistant turn from a JSONL
// transcript file. Missing or unreadable transcripts yield "".
func lastAssistantMessage(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var last string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Role != "assistant" {
			continue
		}
		if text := extractText(entry.Content); text != "" {
			last = text
		}
	}
	return last
}

// extractText handles both transcript content shapes: a plain string,
// or an array of typed blocks where only text blocks carry prose.
func extractText(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return s
	}

	var blocks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(content, &blocks); err != nil {
		return ""
	}
	var texts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			texts = append(texts, b.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// parseAskUserQuestion renders a question tool's answers as
// "Q: ... / A: ..." pairs. The tool_response field arrives either as
// an object or as a JSON string containing one.
func parseAskUserQuestion(response json.RawMessage) string {
	if len(response) == 0 {
		return ""
	}

	raw := response
	var asString string
	if err := json.Unmarshal(response, &asString); err == nil {
		raw = json.RawMessage(asString)
	}

	var payload struct {
		Answers map[string]json.RawMessage `json:"answers"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Answers) == 0 {
		return ""
	}

	questions := make([]string, 0, len(payload.Answers))
	for q := range payload.Answers {
		questions = append(questions, q)
	}
	sort.Strings(questions)

	lines := make([]string, 0, len(questions))
	for _, q := range questions {
		answer := payload.Answers[q]
		var s string
		if err := json.Unmarshal(answer, &s); err != nil {
			s = string(answer)
		}
		lines = append(lines, fmt.Sprintf("Q: %s / A: %s", q, s))
	}
	return "[Decision] " + strings.Join(lines, " | ")
}
