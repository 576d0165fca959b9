package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/basstab/pkg/render"
	"github.com/james-see/basstab/pkg/sheet"
)

// Format represents a file format
type Format string

const (
	FormatSheet    Format = "sheet"
	FormatMIDI     Format = "midi"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatUnknown  Format = "unknown"
)

// DetectFormat detects the format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		return FormatSheet
	case ".mid", ".midi":
		return FormatMIDI
	case ".txt", ".tab":
		return FormatText
	case ".md":
		return FormatMarkdown
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects readable formats from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) >= 4 && string(data[:4]) == "MThd" {
		return FormatMIDI
	}
	if _, err := sheet.Parse(data); err == nil && len(data) > 0 {
		return FormatSheet
	}
	return FormatUnknown
}

// ConvertFile converts a file from one format to another
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	inputFormat := DetectFormat(inputPath)
	if inputFormat == FormatUnknown {
		inputFormat = DetectFormatFromContent(data)
	}

	outputFormat := DetectFormat(outputPath)
	if outputFormat == FormatUnknown {
		return errors.New("cannot determine output format from filename")
	}

	outputData, err := c.Convert(data, inputFormat, outputFormat)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// Convert converts data between formats held in memory
func (c *Converter) Convert(data []byte, from, to Format) ([]byte, error) {
	var s *sheet.Sheet
	switch from {
	case FormatSheet:
		parsed, err := sheet.Parse(data)
		if err != nil {
			return nil, err
		}
		s = parsed
	case FormatMIDI:
		imported, err := c.MIDIToSheet(data)
		if err != nil {
			return nil, err
		}
		s = imported
	default:
		return nil, fmt.Errorf("unsupported input format: %s", from)
	}

	switch to {
	case FormatSheet:
		return s.Marshal()
	case FormatMIDI:
		return c.SheetToMIDI(s)
	case FormatText:
		return c.SheetToText(s)
	case FormatMarkdown:
		return c.SheetToMarkdown(s)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", to)
	}
}

// SheetToMIDI converts a sheet to a standard MIDI file
func (c *Converter) SheetToMIDI(s *sheet.Sheet) ([]byte, error) {
	t, err := s.Build()
	if err != nil {
		return nil, err
	}
	return c.midi.GenerateMIDI(t)
}

// SheetToText renders a sheet as a plain tablature grid with its header
func (c *Converter) SheetToText(s *sheet.Sheet) ([]byte, error) {
	t, err := s.Build()
	if err != nil {
		return nil, err
	}
	return []byte(render.Preview(s.Title, s.Artist, t)), nil
}

// SheetToMarkdown renders a sheet as a fenced tab block
func (c *Converter) SheetToMarkdown(s *sheet.Sheet) ([]byte, error) {
	t, err := s.Build()
	if err != nil {
		return nil, err
	}
	return []byte(render.Markdown(s.Title, s.Artist, t)), nil
}

// MIDIToSheet imports a MIDI file as a sheet
func (c *Converter) MIDIToSheet(midiData []byte) (*sheet.Sheet, error) {
	result, err := c.midi.ParseMIDI(midiData)
	if err != nil {
		return nil, err
	}
	return sheet.FromTablature(result.Name, "", result.Tablature), nil
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"sheet -> midi",
		"sheet -> text",
		"sheet -> markdown",
		"midi -> sheet",
		"midi -> text",
		"midi -> markdown",
	}
}
