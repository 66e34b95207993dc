// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inspect

import (
	"encoding/json"
	"fmt"
	"io"
)

// CommandResult captures one external probe invocation for the report.
type CommandResult struct {
	Available bool   `json:"available"`
	ExitCode  int    `json:"exit_code"`
	Stdout    string `json:"stdout,omitempty"`
	Stderr    string `json:"stderr,omitempty"`
}

// Report aggregates everything learned about one file.
type Report struct {
	Path        string            `json:"path"`
	FileType    string            `json:"file_type,omitempty"`
	MIMEType    string            `json:"mime_type,omitempty"`
	Extension   string            `json:"extension,omitempty"`
	ZipMimetype string            `json:"inferred_from_zip,omitempty"`
	Actions     map[string]string `json:"actions,omitempty"`
	Warnings    []string          `json:"warnings,omitempty"`
	Errors      []string          `json:"errors,omitempty"`

	File     *CommandResult `json:"file,omitempty"`
	Exiftool *CommandResult `json:"exiftool,omitempty"`
	Ffprobe  *CommandResult `json:"ffprobe,omitempty"`
}

// WriteJSON emits the machine-readable form of the reports.
func WriteJSON(w io.Writer, reports []*Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// WriteText emits the human summary, one block per file.
func WriteText(w io.Writer, reports []*Report) {
	for _, r := range reports {
		fmt.Fprintf(w, "%s\n", r.Path)
		if r.FileType != "" {
			fmt.Fprintf(w, "  type: %s (%s)\n", r.FileType, r.MIMEType)
		} else {
			fmt.Fprintf(w, "  type: unknown\n")
		}
		if r.ZipMimetype != "" {
			fmt.Fprintf(w, "  zip mimetype: %s\n", r.ZipMimetype)
		}
		for action, detail := range r.Actions {
			fmt.Fprintf(w, "  %s: %s\n", action, detail)
		}
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
		for _, failure := range r.Errors {
			fmt.Fprintf(w, "  error: %s\n", failure)
		}
	}
}
