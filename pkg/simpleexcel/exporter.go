package simpleexcel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Types
// =============================================================================

// DataExporter is the main entry point for exporting data.
type DataExporter struct {
	template *ReportTemplate
	// data holds data bound to specific section IDs
	data map[string]interface{}
}

// ReportTemplate represents the YAML structure.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

// SheetTemplate represents a sheet in the YAML.
type SheetTemplate struct {
	Name     string          `yaml:"name"`
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig defines a block of rows in a sheet: an optional header row,
// then one row per element of Data.
type SectionConfig struct {
	ID          string         `yaml:"id"`
	Data        interface{}    `yaml:"-"` // Data is bound at runtime
	ShowHeader  bool           `yaml:"show_header"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	Columns     []ColumnConfig `yaml:"columns"`
}

// ColumnConfig defines a column in a section.
type ColumnConfig struct {
	FieldName string  `yaml:"field_name"` // Struct field name
	Header    string  `yaml:"header"`
	Width     float64 `yaml:"width"`
}

// StyleTemplate defines basic styling.
type StyleTemplate struct {
	Font *FontTemplate `yaml:"font"`
	Fill *FillTemplate `yaml:"fill"`
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // Hex color
}

type FillTemplate struct {
	Color string `yaml:"color"` // Hex color
}

// =============================================================================
// Constructors
// =============================================================================

// NewDataExporterFromYamlConfig parses a layout template.
func NewDataExporterFromYamlConfig(config string) (*DataExporter, error) {
	var tmpl ReportTemplate
	if err := yaml.Unmarshal([]byte(config), &tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(tmpl.Sheets) == 0 {
		return nil, fmt.Errorf("decode yaml: template has no sheets")
	}

	return &DataExporter{
		template: &tmpl,
		data:     make(map[string]interface{}),
	}, nil
}

// BindSectionData binds data to a section ID of the template.
func (e *DataExporter) BindSectionData(id string, data interface{}) *DataExporter {
	e.data[id] = data
	return e
}

// =============================================================================
// Output
// =============================================================================

// BuildExcel creates the workbook in memory. The caller must Close it.
func (e *DataExporter) BuildExcel() (*excelize.File, error) {
	f := excelize.NewFile()

	for i, sheetTmpl := range e.template.Sheets {
		if err := addSheet(f, i, sheetTmpl.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("add sheet %q: %w", sheetTmpl.Name, err)
		}

		sections := make([]*SectionConfig, len(sheetTmpl.Sections))
		for j := range sheetTmpl.Sections {
			sec := sheetTmpl.Sections[j]
			if data, ok := e.data[sec.ID]; ok {
				sec.Data = data
			}
			sections[j] = &sec
		}

		if err := renderSections(f, sheetTmpl.Name, sections); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// ExportToExcel generates the Excel file on disk.
func (e *DataExporter) ExportToExcel(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// ToCSV writes the first sheet as CSV to w.
func (e *DataExporter) ToCSV(w io.Writer) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets found")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("failed to get rows: %w", err)
	}

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.WriteAll(rows); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

// =============================================================================
// Rendering Logic
// =============================================================================

// addSheet renames the default sheet for the first template sheet and
// creates the others.
func addSheet(f *excelize.File, index int, name string) error {
	if index == 0 {
		return f.SetSheetName("Sheet1", name)
	}
	if idx, _ := f.GetSheetIndex(name); idx == -1 {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	return nil
}

func renderSections(f *excelize.File, sheet string, sections []*SectionConfig) error {
	row := 1

	for _, sec := range sections {
		if sec.ShowHeader {
			styleID := 0
			if sec.HeaderStyle != nil {
				id, err := createStyle(f, sec.HeaderStyle)
				if err != nil {
					return err
				}
				styleID = id
			}

			for i, col := range sec.Columns {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
					return err
				}
				if styleID != 0 {
					if err := f.SetCellStyle(sheet, cell, cell, styleID); err != nil {
						return err
					}
				}
				if col.Width > 0 {
					colName, _ := excelize.ColumnNumberToName(i + 1)
					if err := f.SetColWidth(sheet, colName, colName, col.Width); err != nil {
						return err
					}
				}
			}
			row++
		}

		dataVal := reflect.ValueOf(sec.Data)
		if dataVal.Kind() == reflect.Slice {
			for i := 0; i < dataVal.Len(); i++ {
				item := dataVal.Index(i)
				for j, col := range sec.Columns {
					cell, _ := excelize.CoordinatesToCellName(j+1, row)
					if err := f.SetCellValue(sheet, cell, extractValue(item, col.FieldName)); err != nil {
						return fmt.Errorf("error writing row %d: %w", i+1, err)
					}
				}
				row++
			}
		}

		// blank row between sections
		row++
	}

	return nil
}

// extractValue reads fieldName from a struct element. Nil pointers and
// unknown fields render as empty cells.
func extractValue(item reflect.Value, fieldName string) interface{} {
	for item.Kind() == reflect.Ptr || item.Kind() == reflect.Interface {
		if item.IsNil() {
			return ""
		}
		item = item.Elem()
	}

	if item.Kind() != reflect.Struct {
		return ""
	}
	v := item.FieldByName(fieldName)
	if !v.IsValid() {
		return ""
	}

	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	return v.Interface()
}

func createStyle(f *excelize.File, tmpl *StyleTemplate) (int, error) {
	style := &excelize.Style{}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	return f.NewStyle(style)
}
