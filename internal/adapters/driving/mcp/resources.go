package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for Artemis resources.
	uriScheme = "artemis://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the supported languages.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "languages",
		Name:        "languages",
		Description: "Languages a detection can run for",
		MIMEType:    "application/json",
	}, s.handleLanguagesResource)

	// Template for catalog records by name.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "frameworks/{name}",
		Name:        "framework",
		Description: "Catalog records with a given name",
		MIMEType:    "application/json",
	}, s.handleFrameworkResource)

	if s.ports.Oracle != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "oracle/status",
			Name:        "oracle-status",
			Description: "Remote oracle connection status",
			MIMEType:    "application/json",
		}, s.handleOracleStatusResource)
	}
}

// handleLanguagesResource lists the supported languages with their candidate types.
func (s *Server) handleLanguagesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type languageInfo struct {
		Name          string   `json:"name"`
		InternalTypes []string `json:"internal_types"`
	}

	names := domain.SupportedLanguages()
	infos := make([]languageInfo, 0, len(names))
	for _, name := range names {
		profile, err := domain.LookupLanguage(name)
		if err != nil {
			continue
		}
		infos = append(infos, languageInfo{Name: name, InternalTypes: profile.InternalTypes})
	}

	return jsonResource(req.Params.URI, infos)
}

// handleFrameworkResource returns the first catalog record with the name in the URI.
func (s *Server) handleFrameworkResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractFrameworkName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	record, err := s.ports.Frameworks.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("finding framework: %w", err)
	}
	if record == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return jsonResource(req.Params.URI, frameworkOutput(*record))
}

// handleOracleStatusResource returns the oracle status.
func (s *Server) handleOracleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.ports.Oracle.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting oracle status: %w", err)
	}

	return jsonResource(req.Params.URI, OracleStatusOutput{
		Enabled:    status.Enabled,
		Reachable:  status.Reachable,
		LastUpdate: formatTime(status.LastUpdate),
		Watermark:  formatTime(status.Watermark),
		Pending:    status.Pending,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractFrameworkName extracts the name from a URI like artemis://frameworks/{name}.
func extractFrameworkName(uri string) string {
	const prefix = uriScheme + "frameworks/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil || strings.Contains(name, "/") {
		return ""
	}
	return name
}
