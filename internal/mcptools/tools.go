// Package mcptools exposes the converter as MCP tools.
package mcptools

import (
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MeKo-Tech/colorconverter/internal/palette"
)

// Register registers the converter tools with the MCP server. The palette
// tools are only added when store is non-nil.
func Register(server *mcp.Server, store *palette.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_color",
		Description: "Convert a color typed into one field (hex, rgb or hsl) and return the text for all three fields. Invalid input yields an \"Invalid <Format>\" marker in the other fields.",
		Annotations: &mcp.ToolAnnotations{
			Title:          "Convert Color",
			ReadOnlyHint:   true,
			IdempotentHint: true,
			OpenWorldHint:  ptrBool(false),
		},
	}, createConvertHandler())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_color",
		Description: "Check whether text is a valid hex, RGB or HSL color and report which notation it is in.",
		Annotations: &mcp.ToolAnnotations{
			Title:          "Validate Color",
			ReadOnlyHint:   true,
			IdempotentHint: true,
			OpenWorldHint:  ptrBool(false),
		},
	}, createValidateHandler())

	if store == nil {
		return
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_palette",
		Description: "List the saved palette colors in all three notations, sorted by name.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "List Palette",
			ReadOnlyHint:  true,
			OpenWorldHint: ptrBool(false),
		},
	}, createListPaletteHandler(store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_color",
		Description: "Save a color under a name in the palette. The color may be given in any of the three notations.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Save Color",
			DestructiveHint: ptrBool(false),
			IdempotentHint:  true,
			OpenWorldHint:   ptrBool(false),
		},
	}, createSaveColorHandler(store))
}

// NewServer creates an MCP server with the converter tools and request
// logging.
func NewServer(version string, store *palette.Store, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "colorconverter",
		Version: version,
	}, nil)
	if logger != nil {
		server.AddReceivingMiddleware(LoggingMiddleware(logger))
	}
	Register(server, store)
	return server
}

func ptrBool(b bool) *bool { return &b }
