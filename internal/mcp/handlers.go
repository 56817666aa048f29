package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lexziconAI/eco-dairy-bot/internal/lens"
	"github.com/lexziconAI/eco-dairy-bot/internal/response"
)

// handleAnalyzeConversation returns the offline lens for a conversation.
func (s *Server) handleAnalyzeConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conv, errResult := s.conversationArg(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	l, err := s.engine.Lens(*conv)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	var out any = l
	switch request.GetString("section", "") {
	case "":
	case "clues":
		out = l.Clues
	case "matrices":
		out = l.Matrices
	case "flow":
		out = l.Flow
	case "narrative":
		out = l.Narrative
	case "metrics":
		out = l.Metrics
	case "metadata":
		out = l.Metadata
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown section %q", request.GetString("section", ""))), nil
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding analysis: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// handleSuggestReply returns the templated reply for a conversation.
func (s *Server) handleSuggestReply(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conv, errResult := s.conversationArg(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	l, err := s.engine.Lens(*conv)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	switch format := request.GetString("format", "text"); format {
	case "text":
		return mcp.NewToolResultText(l.Reply.Full), nil
	case "json":
		b, err := json.MarshalIndent(l.Reply, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding reply: %v", err)), nil
		}
		return mcp.NewToolResultText(string(b)), nil
	case "html":
		html, err := response.RenderHTML(l.Reply)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("rendering reply: %v", err)), nil
		}
		return mcp.NewToolResultText(html), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}
}

// handleListConversations lists stored conversations.
func (s *Server) handleListConversations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}
	convs, err := s.engine.Store().ListConversations(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing conversations: %v", err)), nil
	}
	if len(convs) == 0 {
		return mcp.NewToolResultText("No conversations stored yet."), nil
	}
	return mcp.NewToolResultText(formatConversations(convs)), nil
}

// conversationArg reads the conversation from the inline JSON argument or,
// failing that, from the store by id.
func (s *Server) conversationArg(ctx context.Context, request mcp.CallToolRequest) (*lens.Conversation, *mcp.CallToolResult) {
	if raw := strings.TrimSpace(request.GetString("conversation", "")); raw != "" {
		conv, err := parseConversation(raw)
		if err != nil {
			return nil, mcp.NewToolResultError(fmt.Sprintf("invalid conversation: %v", err))
		}
		return conv, nil
	}

	id := request.GetString("conversation_id", "")
	if id == "" {
		return nil, mcp.NewToolResultError("one of conversation or conversation_id is required")
	}
	if s.engine.Store() == nil {
		return nil, mcp.NewToolResultError("no conversation store configured")
	}
	conv, err := s.engine.Store().GetConversation(ctx, id)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("loading conversation: %v", err))
	}
	if conv == nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("conversation %q not found", id))
	}
	return conv, nil
}

// parseConversation accepts either a conversation object or a bare turn array.
func parseConversation(raw string) (*lens.Conversation, error) {
	if strings.HasPrefix(raw, "[") {
		var turns []lens.Turn
		if err := json.Unmarshal([]byte(raw), &turns); err != nil {
			return nil, err
		}
		return &lens.Conversation{Turns: turns}, nil
	}
	var conv lens.Conversation
	if err := json.Unmarshal([]byte(raw), &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func formatConversations(convs []lens.Conversation) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d conversation(s):\n", len(convs)))
	for _, c := range convs {
		title := c.Title
		if title == "" {
			title = "(untitled)"
		}
		sb.WriteString(fmt.Sprintf("- %s  %s  updated %s\n", c.ID, title, c.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return sb.String()
}
