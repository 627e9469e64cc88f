package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "driftwood.dev/pkg/driftwood/internal/model"
	"driftwood.dev/pkg/driftwood/pkg"
)

const (
	// FormatTable renders to the terminal only; nothing is persisted.
	FormatTable = "table"
	// FormatJSON persists the analysis artifact as JSON.
	FormatJSON = "json"
	// FormatYAML persists the analysis artifact as YAML.
	FormatYAML = "yaml"

	analysisJSONFile = "analysis.json"
	analysisYAMLFile = "analysis.yaml"
	graphFilesFile   = "graph-files.gob"
	graphEdgesFile   = "graph-edges.gob"

	reportDirPerm  = 0o750
	reportFilePerm = 0o600
)

// ReportStore persists and re-reads analysis artifacts so the view and
// cascade commands can reuse a previous scan.
type ReportStore interface {
	SaveAnalysis(dir m.Path, format string, analysis m.Analysis) error
	LoadAnalysis(dir m.Path) (m.Analysis, error)
	SaveGraph(dir m.Path, graph *m.ReferenceGraph) error
	LoadGraph(dir m.Path) (*m.ReferenceGraph, error)
	HasGraph(dir m.Path) bool
}

type localReportStore struct{}

// NewReportStore constructs a ReportStore backed by the local filesystem.
func NewReportStore() ReportStore {
	return &localReportStore{}
}

// SaveAnalysis writes the analysis artifact in the requested format. The
// table format is display-only, so it falls back to YAML on disk.
func (s *localReportStore) SaveAnalysis(dir m.Path, format string, analysis m.Analysis) error {
	if err := os.MkdirAll(string(dir), reportDirPerm); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	var (
		data []byte
		name string
		err  error
	)

	switch format {
	case FormatJSON:
		name = analysisJSONFile
		data, err = json.MarshalIndent(analysis, "", "  ")
	default:
		name = analysisYAMLFile
		data, err = yaml.Marshal(analysis)
	}

	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	path := filepath.Join(string(dir), name)
	if err := os.WriteFile(path, data, reportFilePerm); err != nil {
		return fmt.Errorf("write analysis: %w", err)
	}

	return nil
}

// LoadAnalysis reads a previously saved artifact, preferring YAML.
func (s *localReportStore) LoadAnalysis(dir m.Path) (m.Analysis, error) {
	var analysis m.Analysis

	yamlPath := filepath.Join(string(dir), analysisYAMLFile)
	if data, err := os.ReadFile(yamlPath); err == nil {
		if err := yaml.Unmarshal(data, &analysis); err != nil {
			return m.Analysis{}, fmt.Errorf("decode %s: %w", yamlPath, err)
		}

		return analysis, nil
	}

	jsonPath := filepath.Join(string(dir), analysisJSONFile)

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return m.Analysis{}, fmt.Errorf("no saved analysis in %s: %w", dir, err)
	}

	if err := json.Unmarshal(data, &analysis); err != nil {
		return m.Analysis{}, fmt.Errorf("decode %s: %w", jsonPath, err)
	}

	return analysis, nil
}

// SaveGraph streams the file records and edge records of a graph into gob
// spools under dir.
func (s *localReportStore) SaveGraph(dir m.Path, graph *m.ReferenceGraph) error {
	if err := os.MkdirAll(string(dir), reportDirPerm); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	files, err := pkg.NewSpool[m.SourceFile](filepath.Join(string(dir), graphFilesFile))
	if err != nil {
		return fmt.Errorf("create file spool: %w", err)
	}

	defer func() { _ = files.Close() }()

	for _, path := range graph.SortedPaths() {
		if err := files.Append(graph.Files[path]); err != nil {
			return fmt.Errorf("spool file record: %w", err)
		}
	}

	edges, err := pkg.NewSpool[m.EdgeRecord](filepath.Join(string(dir), graphEdgesFile))
	if err != nil {
		return fmt.Errorf("create edge spool: %w", err)
	}

	defer func() { _ = edges.Close() }()

	if err := edges.AppendBatch(graph.Edges()); err != nil {
		return fmt.Errorf("spool edge records: %w", err)
	}

	return nil
}

// LoadGraph rebuilds a ReferenceGraph from the spooled snapshot.
func (s *localReportStore) LoadGraph(dir m.Path) (*m.ReferenceGraph, error) {
	files, err := pkg.OpenSpool[m.SourceFile](filepath.Join(string(dir), graphFilesFile))
	if err != nil {
		return nil, fmt.Errorf("open file spool: %w", err)
	}

	graph := m.NewReferenceGraph()

	err = files.Range(func(_ uint64, file m.SourceFile) error {
		graph.AddFile(file)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read file records: %w", err)
	}

	edges, err := pkg.OpenSpool[m.EdgeRecord](filepath.Join(string(dir), graphEdgesFile))
	if err != nil {
		return nil, fmt.Errorf("open edge spool: %w", err)
	}

	err = edges.Range(func(_ uint64, edge m.EdgeRecord) error {
		graph.AddEdge(edge.From, edge.To)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read edge records: %w", err)
	}

	return graph, nil
}

// HasGraph reports whether dir holds a graph snapshot.
func (s *localReportStore) HasGraph(dir m.Path) bool {
	_, err := os.Stat(filepath.Join(string(dir), graphFilesFile))
	return err == nil
}
