package mcp

import "github.com/mark3labs/mcp-go/mcp"

// analyzeConversationTool defines the analyze_conversation MCP tool.
var analyzeConversationTool = mcp.NewTool("analyze_conversation",
	mcp.WithDescription("Run the lens pipeline over a farmer conversation without calling a model. Returns clues, orientation matrices, topic flow, narratives, exchange metrics and the templated reply as JSON."),
	mcp.WithString("conversation",
		mcp.Description(`Conversation JSON: {"turns":[{"role":"user","text":"..."}]} or a bare array of turns`),
	),
	mcp.WithString("conversation_id",
		mcp.Description("ID of a stored conversation, used when conversation is not given"),
	),
	mcp.WithString("section",
		mcp.Description("Return only one part of the lens"),
		mcp.Enum("clues", "matrices", "flow", "narrative", "metrics", "metadata"),
	),
)

// suggestReplyTool defines the suggest_reply MCP tool.
var suggestReplyTool = mcp.NewTool("suggest_reply",
	mcp.WithDescription("Suggest the next assistant reply for a farmer conversation, built from the templated response generator."),
	mcp.WithString("conversation",
		mcp.Description(`Conversation JSON: {"turns":[{"role":"user","text":"..."}]} or a bare array of turns`),
	),
	mcp.WithString("conversation_id",
		mcp.Description("ID of a stored conversation, used when conversation is not given"),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default text)"),
		mcp.Enum("text", "json", "html"),
	),
)

// listConversationsTool defines the list_conversations MCP tool.
var listConversationsTool = mcp.NewTool("list_conversations",
	mcp.WithDescription("List stored conversations, most recently updated first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of conversations to return (default 20)"),
	),
)
