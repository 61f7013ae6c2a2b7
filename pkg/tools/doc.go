// Package tools exposes client operations to external callers.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/rsacrack/pkg/tools/toolbox]: Tool type and ToolBox registry
//   - [github.com/germanamz/rsacrack/pkg/tools/mcpserver]: MCP server serving a ToolBox over stdio using the official MCP Go SDK
package tools
