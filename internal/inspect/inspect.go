// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inspect identifies publication file types by combining external
// probe commands (file, exiftool, ffprobe) with a native EPUB container
// sniff, and normalizes files to their canonical extension.
package inspect

import (
	"archive/zip"
	"fmt"
	"mime"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/markdown-forge/pkg/types"
)

// TypeInfo holds the preferred extension and MIME type for a canonical
// publication type.
type TypeInfo struct {
	Extension string
	MIME      string
}

// typeRegistry maps canonical types to their preferred extension and MIME.
var typeRegistry = map[string]TypeInfo{
	"epub": {Extension: "epub", MIME: "application/epub+zip"},
	"pdf":  {Extension: "pdf", MIME: "application/pdf"},
	"txt":  {Extension: "txt", MIME: "text/plain"},
	"md":   {Extension: "md", MIME: "text/markdown"},
	"html": {Extension: "html", MIME: "text/html"},
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunOutput(name string, args ...string) (stdout, stderr string, exitCode int, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunOutput(name string, args ...string) (string, string, int, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := cmd.ProcessState.ExitCode()
	if err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			err = nil
		}
	}
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), code, err
}

var defaultExec executor = &osExecutor{}

// Inspector probes files and optionally renames them to the canonical
// extension.
type Inspector struct {
	exec executor
	cfg  types.InspectConfig
}

// New returns an inspector using the real command executor.
func New(cfg types.InspectConfig) *Inspector {
	return &Inspector{exec: defaultExec, cfg: cfg}
}

// runCommand executes a probe, reporting unavailable binaries instead of
// failing.
func (i *Inspector) runCommand(name string, args ...string) *CommandResult {
	if _, err := i.exec.LookPath(name); err != nil {
		return &CommandResult{Available: false, Stderr: name + " not found"}
	}
	stdout, stderr, code, err := i.exec.RunOutput(name, args...)
	if err != nil {
		return &CommandResult{Available: true, ExitCode: -1, Stderr: err.Error()}
	}
	return &CommandResult{Available: true, ExitCode: code, Stdout: stdout, Stderr: stderr}
}

// parseExiftool splits exiftool's "Key : Value" lines into a map.
func parseExiftool(stdout string) map[string]string {
	info := map[string]string{}
	for _, line := range strings.Split(stdout, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		info[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return info
}

// zipEPUBHint reads the mimetype entry of a ZIP container. EPUBs declare
// application/epub+zip there even when the extension lies.
func zipEPUBHint(path string) string {
	r, err := zip.OpenReader(path)
	if err != nil {
		return ""
	}
	defer r.Close()
	for _, f := range r.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return ""
		}
		buf := make([]byte, 128)
		n, _ := rc.Read(buf)
		rc.Close()
		return strings.TrimSpace(string(buf[:n]))
	}
	return ""
}

// canonicalTypeFromMIME translates a MIME string to a registry type.
func canonicalTypeFromMIME(mimeType string) string {
	mimeType = strings.ToLower(mimeType)
	for key, meta := range typeRegistry {
		if strings.ToLower(meta.MIME) == mimeType {
			return key
		}
	}
	switch {
	case strings.HasPrefix(mimeType, "text/markdown"):
		return "md"
	case strings.HasPrefix(mimeType, "text/"):
		return "txt"
	case mimeType == "application/zip", mimeType == "application/x-zip-compressed":
		return "zip"
	}
	return ""
}

// extensionFromMIME returns the preferred extension for a MIME type.
func extensionFromMIME(mimeType string) string {
	mimeType = strings.ToLower(mimeType)
	for _, meta := range typeRegistry {
		if strings.ToLower(meta.MIME) == mimeType {
			return meta.Extension
		}
	}
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	sort.Strings(exts)
	return strings.TrimPrefix(exts[0], ".")
}

// inferType resolves the hints in priority order: ZIP mimetype entry, the
// file command, exiftool, then a guess from the current extension.
func inferType(path, fileMIME string, exifInfo map[string]string, zipHint string) (fileType, mimeType, extension string) {
	if zipHint == typeRegistry["epub"].MIME {
		fileType, mimeType = "epub", zipHint
	}
	if fileType == "" && fileMIME != "" {
		mimeType = fileMIME
		fileType = canonicalTypeFromMIME(fileMIME)
	}
	if fileType == "" {
		exifType := strings.ToLower(strings.TrimSpace(firstOf(exifInfo, "File Type", "FileType")))
		if meta, ok := typeRegistry[exifType]; ok {
			fileType, mimeType = exifType, meta.MIME
		}
	}
	if fileType == "" {
		if exifMIME := firstOf(exifInfo, "MIME Type", "MIMEType"); exifMIME != "" {
			mimeType = exifMIME
			fileType = canonicalTypeFromMIME(exifMIME)
		}
	}
	if fileType == "" {
		if guess := mime.TypeByExtension(filepath.Ext(path)); guess != "" {
			mimeType = guess
			fileType = canonicalTypeFromMIME(guess)
		}
	}

	if meta, ok := typeRegistry[fileType]; ok {
		extension, mimeType = meta.Extension, meta.MIME
	} else if mimeType != "" {
		extension = extensionFromMIME(mimeType)
	}
	return fileType, mimeType, extension
}

func firstOf(m map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := m[k]; v != "" {
			return v
		}
	}
	return ""
}

// Inspect probes one file and aggregates the findings. With InfoOnly set
// the report describes what would change; otherwise the file is renamed to
// its canonical extension when they disagree.
func (i *Inspector) Inspect(path string) *Report {
	report := &Report{Path: path, Actions: map[string]string{}}

	report.File = i.runCommand("file", "-b", "--mime-type", path)
	fileMIME := ""
	if report.File.Available && report.File.ExitCode == 0 {
		fileMIME = report.File.Stdout
	}

	report.Exiftool = i.runCommand("exiftool", "-FileType", "-FileTypeExtension", "-MIMEType", path)
	exifInfo := map[string]string{}
	if report.Exiftool.Available {
		exifInfo = parseExiftool(report.Exiftool.Stdout)
	}

	report.Ffprobe = i.runCommand("ffprobe", "-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", path)

	report.ZipMimetype = zipEPUBHint(path)

	report.FileType, report.MIMEType, report.Extension = inferType(path, fileMIME, exifInfo, report.ZipMimetype)

	i.maybeRename(report)
	return report
}

// maybeRename moves the file to the canonical extension unless InfoOnly.
func (i *Inspector) maybeRename(report *Report) {
	if report.Extension == "" {
		return
	}
	current := strings.ToLower(strings.TrimPrefix(filepath.Ext(report.Path), "."))
	if current == strings.ToLower(report.Extension) {
		return
	}
	target := strings.TrimSuffix(report.Path, filepath.Ext(report.Path)) + "." + report.Extension
	if _, err := os.Stat(target); err == nil {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("cannot rename to %s: destination exists", filepath.Base(target)))
		return
	}
	if i.cfg.InfoOnly {
		report.Actions["rename"] = "would rename to " + filepath.Base(target)
		return
	}
	if err := os.Rename(report.Path, target); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("rename failed: %v", err))
		return
	}
	report.Actions["rename"] = "renamed to " + filepath.Base(target)
	report.Path = target
}

// Targets expands the given paths into a flat file list. Directories are
// walked one level deep, or fully with Recursive; macOS junk is skipped.
func (i *Inspector) Targets(paths []string) ([]string, error) {
	var targets []string
	for _, item := range paths {
		info, err := os.Stat(item)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", item, err)
		}
		if !info.IsDir() {
			if filepath.Base(item) != ".DS_Store" {
				targets = append(targets, item)
			}
			continue
		}
		if i.cfg.Recursive {
			err = filepath.Walk(item, func(path string, fi os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !fi.IsDir() && fi.Name() != ".DS_Store" {
					targets = append(targets, path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walking %s: %w", item, err)
			}
			continue
		}
		entries, err := os.ReadDir(item)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", item, err)
		}
		for _, e := range entries {
			if !e.IsDir() && e.Name() != ".DS_Store" {
				targets = append(targets, filepath.Join(item, e.Name()))
			}
		}
	}
	return targets, nil
}

// SourceType maps a report's canonical type onto the pipeline source kinds.
func (r *Report) SourceType() types.SourceType {
	switch r.FileType {
	case "epub":
		return types.SourceEPUB
	case "pdf":
		return types.SourcePDF
	default:
		return types.SourceUnknown
	}
}
