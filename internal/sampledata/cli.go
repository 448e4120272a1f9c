package sampledata

import "os"

// ShowHelp prints usage information for the sample generator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Jury Sample Generator
=====================

Writes synthetic judge and student exports in the registration form layout.

Usage:
  go run ./cmd/gen-sample [options]

Options:
  -config string
        YAML configuration (default: $JURY_CONFIG, then built-in defaults)
  -out string
        Directory for the generated files (default: the configured input_dir)
  -judges int
        Number of judges (default 40)
  -students int
        Number of students (default 60)
  -seed uint
        Random seed; the same seed gives the same files (default 2021)
  -help
        Show this help message

Examples:
  # Generate the default sample into ./input and run the assignment
  go run ./cmd/gen-sample && go run ./cmd

  # A larger event with a custom configuration
  go run ./cmd/gen-sample -config event.yaml -judges 120 -students 300 -seed 7
`)
}
