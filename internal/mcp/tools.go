package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listHistoryTool defines the list_history MCP tool.
var listHistoryTool = mcp.NewTool("list_history",
	mcp.WithDescription("List the signed-in user's saved lessons, newest first, with their ids."),
	mcp.WithString("match",
		mcp.Description(`Case-insensitive topic glob, e.g. "*cell*" or "{photo,chloro}*"`),
	),
)

// getLessonTool defines the get_lesson MCP tool.
var getLessonTool = mcp.NewTool("get_lesson",
	mcp.WithDescription("Get a saved lesson: explanation, slides and quiz with answers."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Lesson id from list_history"),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default markdown)"),
		mcp.Enum("markdown", "json"),
	),
)

// generateLessonTool defines the generate_lesson MCP tool.
var generateLessonTool = mcp.NewTool("generate_lesson",
	mcp.WithDescription("Generate a new lesson for school students (grades 7-11) and save it to history when a user is signed in."),
	mcp.WithString("topic",
		mcp.Required(),
		mcp.Description("Lesson topic"),
	),
	mcp.WithString("language",
		mcp.Description("Lesson language (default from configuration)"),
		mcp.Enum("kk", "ru", "en"),
	),
	mcp.WithString("theme",
		mcp.Description("Visual theme for slide images"),
		mcp.Enum("modern", "dark", "playful", "classic"),
	),
)

// searchLessonsTool defines the search_lessons MCP tool.
var searchLessonsTool = mcp.NewTool("search_lessons",
	mcp.WithDescription("Find the signed-in user's saved lessons closest in meaning to a query. Use get_lesson with a returned id to read one."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("What the lesson is about, in any supported language"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of lessons to return (default 5)"),
	),
)
