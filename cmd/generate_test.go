// File: cmd/generate_test.go
package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quellen-sec/scanforge/api/schemas"
	"github.com/quellen-sec/scanforge/internal/config"
	"github.com/quellen-sec/scanforge/internal/report/docmodel"
)

const testExport = `<?xml version="1.0"?>
<NessusClientData_v2>
  <Report name="scan">
    <ReportHost name="web01">
      <HostProperties>
        <tag name="host-ip">10.0.0.5</tag>
      </HostProperties>
      <ReportItem pluginID="19506" pluginName="Test Finding" severity="3" port="443">
        <description>Something is wrong.</description>
        <solution>Fix it.</solution>
        <cvss_base_score>8.1</cvss_base_score>
      </ReportItem>
    </ReportHost>
  </Report>
</NessusClientData_v2>`

func TestBuildMetadata(t *testing.T) {
	base := config.Config{Report: config.ReportConfig{
		Organization: "Config Org",
		Preparer:     "Config Preparer",
		Template:     "simple",
	}}

	t.Run("flags override config", func(t *testing.T) {
		meta, err := buildMetadata(base, "Flag Org", "Flag Preparer", "2026-03-14", "executive", "logo.png")
		require.NoError(t, err)
		assert.Equal(t, "Flag Org", meta.Organization)
		assert.Equal(t, "Flag Preparer", meta.Preparer)
		assert.Equal(t, schemas.TemplateExecutive, meta.Template)
		assert.Equal(t, "logo.png", meta.LogoRef)
		assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), meta.Date)
	})

	t.Run("config fills gaps", func(t *testing.T) {
		meta, err := buildMetadata(base, "", "", "", "", "")
		require.NoError(t, err)
		assert.Equal(t, "Config Org", meta.Organization)
		assert.Equal(t, "Config Preparer", meta.Preparer)
		assert.Equal(t, schemas.TemplateSimple, meta.Template)
		assert.WithinDuration(t, time.Now(), meta.Date, time.Minute, "date defaults to today")
	})

	t.Run("missing organization", func(t *testing.T) {
		_, err := buildMetadata(config.Config{}, "", "Someone", "", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "organization name is required")
	})

	t.Run("missing preparer", func(t *testing.T) {
		_, err := buildMetadata(config.Config{}, "Acme", "", "", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "preparer name is required")
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := buildMetadata(base, "", "", "14/03/2026", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid report date")
	})

	t.Run("bad template", func(t *testing.T) {
		_, err := buildMetadata(base, "", "", "", "glossy", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown report template")
	})
}

func TestRunGenerate_WritesDocument(t *testing.T) {
	dir := t.TempDir()
	scanPath := filepath.Join(dir, "scan.nessus")
	require.NoError(t, os.WriteFile(scanPath, []byte(testExport), 0o644))
	outPath := filepath.Join(dir, "report.json")

	meta := schemas.Metadata{
		Organization: "Acme Corp",
		Date:         time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Preparer:     "J. Tester",
		Template:     schemas.TemplateSimple,
	}

	err := runGenerate(context.Background(), zap.NewNop(), []string{scanPath}, meta, outPath)
	require.NoError(t, err)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc docmodel.Document
	require.NoError(t, json.Unmarshal(content, &doc))
	assert.NotEmpty(t, doc.Content)
}

// TestRunGenerate_SkipsUnreadableFiles points one path at a file that does
// not exist; the run still succeeds on the remaining file.
func TestRunGenerate_SkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	scanPath := filepath.Join(dir, "scan.nessus")
	require.NoError(t, os.WriteFile(scanPath, []byte(testExport), 0o644))
	outPath := filepath.Join(dir, "report.json")

	meta := schemas.Metadata{
		Organization: "Acme Corp",
		Date:         time.Now(),
		Preparer:     "J. Tester",
		Template:     schemas.TemplateSimple,
	}

	missing := filepath.Join(dir, "nope.nessus")
	err := runGenerate(context.Background(), zap.NewNop(), []string{missing, scanPath}, meta, outPath)
	require.NoError(t, err)

	_, err = os.Stat(outPath)
	assert.NoError(t, err, "document must still be written")
}
