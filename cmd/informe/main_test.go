package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flanksource/informe"
	"github.com/flanksource/informe/api"
	"github.com/flanksource/informe/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportYAML = `title: Inspección técnica
identifier: INS-7
cover:
  title: Inspección técnica
  address: Calle Mayor 1
sections:
  - title: Datos generales
    items:
      - label: Superficie
        value: 120
      - label: Ascensor
        value: true
      - label: Fecha
        value: "2024-03-05"
  - title: Estructura
    columns: 2
    items:
      - label: Cimentación
        value: Zapatas
summary:
  label: Total
  value: 1500
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeReport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inspeccion.yaml")
	require.NoError(t, os.WriteFile(path, []byte(reportYAML), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "informe dev"), out)
}

func TestRenderCommand(t *testing.T) {
	path := writeReport(t)
	output := filepath.Join(t.TempDir(), "out", "informe.pdf")

	out, err := execute(t, "render", path, "-o", output, "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "2 pages")
	assert.Contains(t, out, output)

	info, err := execute(t, "info", output, "--text")
	require.NoError(t, err)
	assert.Contains(t, info, "2 pages")
	assert.Contains(t, info, "INS-7")
}

func TestRenderCommandInfersFormat(t *testing.T) {
	path := writeReport(t)
	output := filepath.Join(t.TempDir(), "informe.svg")

	_, err := execute(t, "render", path, "-o", output, "--no-cache")
	require.NoError(t, err)
	for _, p := range []string{"informe-1.svg", "informe-2.svg"} {
		assert.FileExists(t, filepath.Join(filepath.Dir(output), p))
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	path := writeReport(t)
	_, err := execute(t, "render", path, "-o", filepath.Join(t.TempDir(), "informe.docx"), "--no-cache")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestPlanCommand(t *testing.T) {
	out, err := execute(t, "plan", writeReport(t), "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "Inspección técnica: 2 pages")
	assert.Contains(t, out, "Datos generales")
	assert.Contains(t, out, "Estructura")
}

func TestRenderPlan(t *testing.T) {
	report := api.Report{
		Title: "Informe",
		Sections: []api.Section{
			{Title: "Fachada", Photos: []api.ImageRef{"a.jpg", "b.jpg", "c.gif"}},
			{Title: "Una sección con un título demasiado largo"},
		},
	}
	result := &layout.Result{
		Pages: 3,
		Rows: []layout.RowPlacement{
			{Section: "Fachada", SectionIndex: 0, Index: 0, Page: 2, Y: 40, Height: 16},
			{Section: "Fachada", SectionIndex: 0, Index: 1, Page: 2, Y: 56, Height: 240, Clamped: true},
		},
		Photos: []layout.PhotoPlacement{
			{Section: "Fachada", Ref: "a.jpg", Page: 3, Row: 0, Column: 0, Tile: layout.Rect{Y: 30}},
			{Section: "Fachada", Ref: "b.jpg", Page: 3, Row: 0, Column: 1, Tile: layout.Rect{Y: 30}},
		},
		Failures: []layout.PhotoFailure{
			{Section: "Fachada", Ref: "c.gif", Err: errors.New("unsupported image encoding")},
		},
	}

	out := renderPlan(report, result)
	assert.Contains(t, out, "Informe: 3 pages")
	assert.Contains(t, out, "clamped")
	assert.Contains(t, out, "photo 1")
	assert.Contains(t, out, "2 tiles")
	assert.Contains(t, out, "(title only)")
	assert.Contains(t, out, "Una sección con un títu")
	assert.NotContains(t, out, "demasiado largo")
	assert.Contains(t, out, "1 photos skipped")
	assert.Contains(t, out, "c.gif: unsupported image encoding")
}

func TestRenderPlanRepeatedSectionTitles(t *testing.T) {
	report := api.Report{
		Title: "Informe",
		Sections: []api.Section{
			{Title: "Estancia", Items: []api.FieldItem{{Label: "Suelo", Value: "Madera"}}, Photos: []api.ImageRef{"p.png"}},
			{Title: "Estancia", Items: []api.FieldItem{{Label: "Suelo", Value: "Baldosa"}}},
		},
	}
	result := &layout.Result{
		Pages: 2,
		Rows: []layout.RowPlacement{
			{Section: "Estancia", SectionIndex: 0, Page: 2, Y: 40, Height: 16},
			{Section: "Estancia", SectionIndex: 1, Page: 2, Y: 130, Height: 16},
		},
		Photos: []layout.PhotoPlacement{
			{Section: "Estancia", SectionIndex: 0, Ref: "p.png", Page: 2, Tile: layout.Rect{Y: 59.5}},
		},
	}

	out := renderPlan(report, result)
	assert.Equal(t, 1, strings.Count(out, "photo 1"), out)
	assert.Equal(t, 1, strings.Count(out, "1 tiles"), out)

	lines := strings.Split(out, "\n")
	photoLine := -1
	secondSection := -1
	for i, line := range lines {
		if strings.Contains(line, "photo 1") {
			photoLine = i
		}
		if strings.Contains(line, "130.0") {
			secondSection = i
		}
	}
	require.NotEqual(t, -1, photoLine)
	require.NotEqual(t, -1, secondSection)
	assert.Less(t, photoLine, secondSection, "photo row belongs to the first section")
}

func TestRenderSummary(t *testing.T) {
	doc := &informe.Document{
		Format: api.FormatPNG,
		Layout: &layout.Result{
			Pages:    2,
			Photos:   make([]layout.PhotoPlacement, 4),
			Failures: make([]layout.PhotoFailure, 1),
		},
	}
	out := renderSummary(doc, []string{"a-1.png", "a-2.png"})
	assert.Contains(t, out, "2 pages, 4 photos")
	assert.Contains(t, out, "1 skipped")
	assert.Contains(t, out, "a-1.png")
	assert.Contains(t, out, "a-2.png")
}
