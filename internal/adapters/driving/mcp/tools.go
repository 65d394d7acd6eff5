package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// LaunchDetectionInput is the input schema for the launch_detection tool.
type LaunchDetectionInput struct {
	Application string `json:"application" jsonschema:"the application to analyse"`
	Language    string `json:"language" jsonschema:"the language detector to use (java, cobol, net)"`
}

// LaunchDetectionOutput is the output schema for the launch_detection tool.
type LaunchDetectionOutput struct {
	RunID          string         `json:"run_id"`
	State          string         `json:"state"`
	Candidates     int            `json:"candidates"`
	Frameworks     []string       `json:"frameworks"`
	Verdicts       map[string]int `json:"verdicts"`
	Failures       int            `json:"failures"`
	ReportLocation string         `json:"report_location,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// TrainModelInput is the input schema for the train_model tool.
type TrainModelInput struct {
	Language string `json:"language" jsonschema:"the language whose model to train"`
	Force    bool   `json:"force,omitempty" jsonschema:"retrain even when a model is available"`
}

// TrainModelOutput is the output schema for the train_model tool.
type TrainModelOutput struct {
	Language     string `json:"language"`
	Milliseconds int64  `json:"milliseconds"`
	Message      string `json:"message"`
}

// FrameworkInput describes a framework record.
type FrameworkInput struct {
	Name                  string  `json:"name" jsonschema:"the framework name"`
	InternalType          string  `json:"internal_type,omitempty" jsonschema:"the internal type tag"`
	DiscoveryDate         string  `json:"discovery_date,omitempty" jsonschema:"discovery date, yyyy-MM-dd HH:mm:ss"`
	Location              string  `json:"location,omitempty" jsonschema:"where the framework can be found"`
	Description           string  `json:"description,omitempty" jsonschema:"free text description"`
	Type                  string  `json:"type,omitempty" jsonschema:"FRAMEWORK, NOT_FRAMEWORK or TO_INVESTIGATE"`
	Category              string  `json:"category,omitempty" jsonschema:"free form grouping"`
	NumberOfDetection     int64   `json:"number_of_detection,omitempty" jsonschema:"detection counter"`
	PercentageOfDetection float64 `json:"percentage_of_detection,omitempty" jsonschema:"share of detection between 0 and 100"`
	DetectionScore        float64 `json:"detection_score,omitempty" jsonschema:"classifier score between 0 and 1"`
}

// FrameworkOutput is a framework record.
type FrameworkOutput struct {
	Name                  string  `json:"name"`
	InternalType          string  `json:"internal_type"`
	DiscoveryDate         string  `json:"discovery_date,omitempty"`
	Location              string  `json:"location,omitempty"`
	Description           string  `json:"description,omitempty"`
	Type                  string  `json:"type,omitempty"`
	Category              string  `json:"category,omitempty"`
	NumberOfDetection     int64   `json:"number_of_detection"`
	PercentageOfDetection float64 `json:"percentage_of_detection"`
	DetectionScore        float64 `json:"detection_score"`
}

// FindFrameworkInput is the input schema for the find_framework tool.
type FindFrameworkInput struct {
	Name         string `json:"name" jsonschema:"the exact framework name"`
	InternalType string `json:"internal_type,omitempty" jsonschema:"restrict the lookup to one internal type"`
}

// FindFrameworkOutput is the output schema for the find_framework tool.
type FindFrameworkOutput struct {
	Found     bool             `json:"found"`
	Framework *FrameworkOutput `json:"framework,omitempty"`
}

// NameContainsInput is the input schema for the find_framework_name_contains tool.
type NameContainsInput struct {
	Substring string `json:"substring" jsonschema:"text the framework name must contain"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of results (default 50)"`
}

// BatchInput is the input schema for the get_framework_batch tool.
type BatchInput struct {
	Start        int    `json:"start" jsonschema:"first position, inclusive"`
	End          int    `json:"end" jsonschema:"last position, exclusive"`
	InternalType string `json:"internal_type,omitempty" jsonschema:"restrict the batch to one internal type"`
}

// FrameworkListOutput is a list of framework records.
type FrameworkListOutput struct {
	Frameworks []FrameworkOutput `json:"frameworks"`
	Count      int               `json:"count"`
}

// CountInput is the input schema for the get_framework_count tool.
type CountInput struct {
	InternalType string `json:"internal_type,omitempty" jsonschema:"count only this internal type"`
}

// CandidateCountInput is the input schema for the get_candidate_count tool.
type CandidateCountInput struct {
	Application string `json:"application" jsonschema:"the application to inspect"`
	Language    string `json:"language" jsonschema:"the language detector whose selection to count"`
}

// CountOutput is a count.
type CountOutput struct {
	Count int64 `json:"count"`
}

// EmptyInput is the input schema of tools without arguments.
type EmptyInput struct{}

// OracleStatusOutput is the output schema for the oracle_status tool.
type OracleStatusOutput struct {
	Enabled    bool   `json:"enabled"`
	Reachable  bool   `json:"reachable"`
	LastUpdate string `json:"last_update,omitempty"`
	Watermark  string `json:"watermark,omitempty"`
	Pending    int64  `json:"pending"`
}

// OraclePullOutput is the output schema for the oracle_pull tool.
type OraclePullOutput struct {
	Pulled     int    `json:"pulled"`
	LastUpdate string `json:"last_update"`
	Pending    int64  `json:"pending"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "launch_detection",
		Description: "Detect the frameworks used by an application",
	}, s.handleLaunchDetection)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "train_model",
		Description: "Train the classifier of a language",
	}, s.handleTrainModel)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_framework",
		Description: "Add a framework to the catalog, counting one more detection if it exists",
	}, s.handleAddFramework)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_framework",
		Description: "Update an existing framework of the catalog",
	}, s.handleUpdateFramework)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_framework",
		Description: "Find a framework by name",
	}, s.handleFindFramework)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_framework_name_contains",
		Description: "Find frameworks whose name contains a substring",
	}, s.handleNameContains)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_framework_batch",
		Description: "List catalog frameworks in positions [start, end)",
	}, s.handleBatch)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_framework_count",
		Description: "Count catalog frameworks",
	}, s.handleCount)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_candidate_count",
		Description: "Count the candidate objects of an application",
	}, s.handleCandidateCount)

	if s.ports.Oracle == nil {
		return
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "oracle_status",
		Description: "Show the remote oracle connection status",
	}, s.handleOracleStatus)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "oracle_pull",
		Description: "Pull remote oracle changes into the catalog",
	}, s.handleOraclePull)
}

func (s *Server) handleLaunchDetection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LaunchDetectionInput,
) (*mcp.CallToolResult, LaunchDetectionOutput, error) {
	run, err := s.ports.Detection.LaunchDetection(ctx, input.Application, input.Language)
	if run == nil {
		return nil, LaunchDetectionOutput{}, err
	}

	output := LaunchDetectionOutput{
		RunID:      run.ID,
		State:      string(run.State),
		Candidates: run.Candidates,
		Frameworks: run.DetectedFrameworks(),
		Verdicts:   make(map[string]int),
		Failures:   len(run.Failures),
	}
	for _, o := range run.Outcomes {
		output.Verdicts[o.Record.Type.String()]++
	}
	if run.Report != nil {
		output.ReportLocation = run.Report.Location
	}
	if err != nil {
		output.Error = err.Error()
	}
	return nil, output, nil
}

func (s *Server) handleTrainModel(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TrainModelInput,
) (*mcp.CallToolResult, TrainModelOutput, error) {
	elapsed, err := s.ports.Detection.TrainModel(ctx, input.Language, input.Force)
	if err != nil {
		return nil, TrainModelOutput{}, err
	}
	ms := elapsed.Milliseconds()
	return nil, TrainModelOutput{
		Language:     input.Language,
		Milliseconds: ms,
		Message:      TrainedMessage(elapsed),
	}, nil
}

func (s *Server) handleAddFramework(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FrameworkInput,
) (*mcp.CallToolResult, FrameworkOutput, error) {
	record, err := input.toDomain()
	if err != nil {
		return nil, FrameworkOutput{}, err
	}
	saved, err := s.ports.Frameworks.Add(ctx, record)
	if err != nil {
		return nil, FrameworkOutput{}, err
	}
	return nil, frameworkOutput(*saved), nil
}

func (s *Server) handleUpdateFramework(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FrameworkInput,
) (*mcp.CallToolResult, FrameworkOutput, error) {
	record, err := input.toDomain()
	if err != nil {
		return nil, FrameworkOutput{}, err
	}
	saved, err := s.ports.Frameworks.Update(ctx, record)
	if err != nil {
		return nil, FrameworkOutput{}, err
	}
	return nil, frameworkOutput(*saved), nil
}

func (s *Server) handleFindFramework(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindFrameworkInput,
) (*mcp.CallToolResult, FindFrameworkOutput, error) {
	var (
		record *domain.FrameworkRecord
		err    error
	)
	if input.InternalType != "" {
		record, err = s.ports.Frameworks.FindByNameAndType(ctx, input.Name, input.InternalType)
	} else {
		record, err = s.ports.Frameworks.FindByName(ctx, input.Name)
	}
	if err != nil {
		return nil, FindFrameworkOutput{}, err
	}
	if record == nil {
		return nil, FindFrameworkOutput{}, nil
	}
	out := frameworkOutput(*record)
	return nil, FindFrameworkOutput{Found: true, Framework: &out}, nil
}

func (s *Server) handleNameContains(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input NameContainsInput,
) (*mcp.CallToolResult, FrameworkListOutput, error) {
	records, err := s.ports.Frameworks.FindNameContains(ctx, input.Substring, input.Limit)
	if err != nil {
		return nil, FrameworkListOutput{}, err
	}
	return nil, frameworkList(records), nil
}

func (s *Server) handleBatch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BatchInput,
) (*mcp.CallToolResult, FrameworkListOutput, error) {
	records, err := s.ports.Frameworks.GetBatch(ctx, input.Start, input.End, input.InternalType)
	if err != nil {
		return nil, FrameworkListOutput{}, err
	}
	return nil, frameworkList(records), nil
}

func (s *Server) handleCount(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CountInput,
) (*mcp.CallToolResult, CountOutput, error) {
	n, err := s.ports.Frameworks.Count(ctx, input.InternalType)
	if err != nil {
		return nil, CountOutput{}, err
	}
	return nil, CountOutput{Count: n}, nil
}

func (s *Server) handleCandidateCount(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CandidateCountInput,
) (*mcp.CallToolResult, CountOutput, error) {
	n, err := s.ports.Frameworks.CountCandidates(ctx, input.Application, input.Language)
	if err != nil {
		return nil, CountOutput{}, err
	}
	return nil, CountOutput{Count: n}, nil
}

func (s *Server) handleOracleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, OracleStatusOutput, error) {
	status, err := s.ports.Oracle.Status(ctx)
	if err != nil {
		return nil, OracleStatusOutput{}, err
	}
	return nil, OracleStatusOutput{
		Enabled:    status.Enabled,
		Reachable:  status.Reachable,
		LastUpdate: formatTime(status.LastUpdate),
		Watermark:  formatTime(status.Watermark),
		Pending:    status.Pending,
	}, nil
}

func (s *Server) handleOraclePull(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, OraclePullOutput, error) {
	snapshot, err := s.ports.Oracle.Sync(ctx)
	if err != nil {
		return nil, OraclePullOutput{}, err
	}
	return nil, OraclePullOutput{
		Pulled:     len(snapshot.Pulled),
		LastUpdate: formatTime(snapshot.LastUpdate),
		Pending:    snapshot.PendingCount,
	}, nil
}

// TrainedMessage is the report line of a finished training.
func TrainedMessage(elapsed time.Duration) string {
	return fmt.Sprintf("Model was trained in '%d' milliseconds.", elapsed.Milliseconds())
}

func (in FrameworkInput) toDomain() (domain.FrameworkRecord, error) {
	record := domain.FrameworkRecord{
		Name:                  in.Name,
		InternalType:          in.InternalType,
		DiscoveryDate:         in.DiscoveryDate,
		Location:              in.Location,
		Description:           in.Description,
		Category:              in.Category,
		NumberOfDetections:    in.NumberOfDetection,
		PercentageOfDetection: in.PercentageOfDetection,
		DetectionScore:        in.DetectionScore,
	}
	if in.Type != "" {
		t, err := domain.ParseFrameworkType(in.Type)
		if err != nil {
			return domain.FrameworkRecord{}, err
		}
		record.Type = t
	}
	return record, nil
}

func frameworkOutput(r domain.FrameworkRecord) FrameworkOutput {
	return FrameworkOutput{
		Name:                  r.Name,
		InternalType:          r.InternalType,
		DiscoveryDate:         r.DiscoveryDate,
		Location:              r.Location,
		Description:           r.Description,
		Type:                  r.Type.String(),
		Category:              r.Category,
		NumberOfDetection:     r.NumberOfDetections,
		PercentageOfDetection: r.PercentageOfDetection,
		DetectionScore:        r.DetectionScore,
	}
}

func frameworkList(records []domain.FrameworkRecord) FrameworkListOutput {
	out := FrameworkListOutput{
		Frameworks: make([]FrameworkOutput, len(records)),
		Count:      len(records),
	}
	for i := range records {
		out.Frameworks[i] = frameworkOutput(records[i])
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
