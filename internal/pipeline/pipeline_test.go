package pipeline_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/quellen-sec/scanforge/api/schemas"
	"github.com/quellen-sec/scanforge/internal/pipeline"
	"github.com/quellen-sec/scanforge/internal/report/docmodel"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testMetadata() schemas.Metadata {
	return schemas.Metadata{
		Organization: "Acme Corp",
		Date:         time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Preparer:     "J. Tester",
		Template:     schemas.TemplateSimple,
	}
}

func scanFile(hostName, ip, pluginID, severity, score string) []byte {
	return []byte(`<?xml version="1.0"?>
<NessusClientData_v2>
  <Report name="scan">
    <ReportHost name="` + hostName + `">
      <HostProperties>
        <tag name="host-ip">` + ip + `</tag>
      </HostProperties>
      <ReportItem pluginID="` + pluginID + `" pluginName="Test Finding" severity="` + severity + `" port="443">
        <description>Something is wrong.</description>
        <solution>Fix it.</solution>
        <cvss_base_score>` + score + `</cvss_base_score>
      </ReportItem>
    </ReportHost>
  </Report>
</NessusClientData_v2>`)
}

func TestGenerate_HappyPath(t *testing.T) {
	files := []pipeline.InputFile{
		{Name: "a.nessus", Content: scanFile("web01", "10.0.0.5", "19506", "4", "7.5")},
		{Name: "b.nessus", Content: scanFile("web01", "10.0.0.5", "19506", "4", "9.0")},
	}

	g := pipeline.NewGenerator(zap.NewNop())
	result, err := g.Generate(context.Background(), files, testMetadata())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Empty(t, result.FailedFiles)
	assert.Equal(t, docmodel.ContentType, result.ContentType)
	assert.Equal(t, 1, result.Hosts)
	assert.Equal(t, 1, result.Totals.Critical, "duplicate identities collapse to one finding")
	assert.Equal(t, 1, result.Totals.Sum())

	// The buffer must be a self-contained document definition.
	var doc docmodel.Document
	require.NoError(t, json.Unmarshal(result.Document, &doc))
	assert.NotEmpty(t, doc.Content)
	require.NotNil(t, doc.Info)
	assert.Equal(t, "Acme Corp Security Assessment Report", doc.Info.Title)
}

// TestGenerate_BadFileDoesNotAbortBatch feeds one unparseable file alongside a
// valid one: a report must still be produced and the failure reported.
func TestGenerate_BadFileDoesNotAbortBatch(t *testing.T) {
	files := []pipeline.InputFile{
		{Name: "broken.nessus", Content: []byte("<Report><unclosed")},
		{Name: "good.nessus", Content: scanFile("web01", "10.0.0.5", "19506", "3", "8.1")},
	}

	g := pipeline.NewGenerator(zap.NewNop())
	result, err := g.Generate(context.Background(), files, testMetadata())
	require.NoError(t, err)

	require.Len(t, result.FailedFiles, 1)
	assert.Equal(t, "broken.nessus", result.FailedFiles[0].Name)
	assert.Error(t, result.FailedFiles[0].Err)

	assert.Equal(t, 1, result.Hosts)
	assert.Equal(t, 1, result.Totals.High)
	assert.NotEmpty(t, result.Document)
}

// TestGenerate_AllFilesFail covers the degenerate case: every input fails,
// and the pipeline still produces a valid zero-host document.
func TestGenerate_AllFilesFail(t *testing.T) {
	files := []pipeline.InputFile{
		{Name: "x.nessus", Content: []byte("not xml at all")},
		{Name: "y.nessus", Content: []byte("<also><broken")},
	}

	g := pipeline.NewGenerator(zap.NewNop())
	result, err := g.Generate(context.Background(), files, testMetadata())
	require.NoError(t, err)

	assert.Len(t, result.FailedFiles, 2)
	assert.Equal(t, 0, result.Hosts)
	assert.Equal(t, schemas.Totals{}, result.Totals)
	assert.NotEmpty(t, result.Document)
}

func TestGenerate_EmptyInput(t *testing.T) {
	g := pipeline.NewGenerator(zap.NewNop())
	result, err := g.Generate(context.Background(), nil, testMetadata())
	require.NoError(t, err)

	assert.Empty(t, result.FailedFiles)
	assert.Equal(t, 0, result.Hosts)
	assert.Equal(t, 0, result.Totals.Sum())

	var doc docmodel.Document
	require.NoError(t, json.Unmarshal(result.Document, &doc))
	assert.NotEmpty(t, doc.Content)
}

// TestGenerate_ProgressMonotonic records every progress callback and checks
// the sequence is non-decreasing, within 0-100, and ends at exactly 100.
func TestGenerate_ProgressMonotonic(t *testing.T) {
	files := []pipeline.InputFile{
		{Name: "a.nessus", Content: scanFile("h1", "10.0.0.1", "1", "2", "5.0")},
		{Name: "broken.nessus", Content: []byte("<nope")},
		{Name: "c.nessus", Content: scanFile("h2", "10.0.0.2", "2", "1", "3.0")},
	}

	var updates []int
	progress := pipeline.ProgressFunc(func(percent int) {
		updates = append(updates, percent)
	})

	g := pipeline.NewGenerator(zap.NewNop(), pipeline.WithProgress(progress))
	_, err := g.Generate(context.Background(), files, testMetadata())
	require.NoError(t, err)

	// One update per file plus the aggregate, totals, and final checkpoints.
	require.Len(t, updates, len(files)+3)
	prev := 0
	for _, pct := range updates {
		assert.GreaterOrEqual(t, pct, prev, "progress must be monotonically non-decreasing")
		assert.GreaterOrEqual(t, pct, 0)
		assert.LessOrEqual(t, pct, 100)
		prev = pct
	}
	assert.Equal(t, 100, updates[len(updates)-1])
}

// TestGenerate_FirstSeenWinsAcrossFiles runs the canonical round-trip
// scenario through the whole pipeline and inspects the rendered document for
// the first file's score.
func TestGenerate_FirstSeenWinsAcrossFiles(t *testing.T) {
	files := []pipeline.InputFile{
		{Name: "a.nessus", Content: scanFile("web01", "10.0.0.5", "19506", "4", "7.5")},
		{Name: "b.nessus", Content: scanFile("web01", "10.0.0.5", "19506", "4", "9.0")},
	}

	g := pipeline.NewGenerator(zap.NewNop())
	result, err := g.Generate(context.Background(), files, testMetadata())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Totals.Critical)
	body := string(result.Document)
	assert.Contains(t, body, "7.5", "first-seen score must be the one rendered")
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := pipeline.NewGenerator(zap.NewNop())
	_, err := g.Generate(ctx, nil, testMetadata())
	assert.Error(t, err)
}
