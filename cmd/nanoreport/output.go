package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormatter handles formatting command results for different output formats
type OutputFormatter struct {
	format string
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter(format string) *OutputFormatter {
	return &OutputFormatter{format: format}
}

// Format formats the given data according to the specified format
func (of *OutputFormatter) Format(data interface{}) (string, error) {
	switch of.format {
	case "json":
		return of.formatJSON(data)
	case "yaml":
		return of.formatYAML(data)
	case "text", "":
		return of.formatText(data)
	default:
		return "", fmt.Errorf("unknown output format %q (available: text, json, yaml)", of.format)
	}
}

func (of *OutputFormatter) formatJSON(data interface{}) (string, error) {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (of *OutputFormatter) formatYAML(data interface{}) (string, error) {
	bytes, err := yaml.Marshal(data)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(bytes), "\n"), nil
}

// formatText uses the value's own text form when it has one
func (of *OutputFormatter) formatText(data interface{}) (string, error) {
	switch v := data.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return of.formatYAML(data)
}
