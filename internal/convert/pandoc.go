// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	"github.com/pdiddy/markdown-forge/internal/container"
)

// runner abstracts pandoc invocation for testing.
type runner interface {
	LookPath(file string) (string, error)
	RunOutput(name string, args ...string) ([]byte, error)
}

// osRunner is the production runner backed by os/exec.
type osRunner struct{}

func (o *osRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osRunner) RunOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

var defaultRunner runner = &osRunner{}

// pandocArgs builds the conversion arguments for a source file. GitHub
// Markdown output with ATX headings keeps the cleanup rules simple.
func pandocArgs(path string) []string {
	return []string{
		path,
		"--to", "gfm",
		"--wrap", "none",
		"--markdown-headings", "atx",
		"--standalone",
		"--extract-media", ".",
	}
}

// PandocConverter converts publications with a locally installed pandoc.
type PandocConverter struct {
	run runner
}

// NewPandocConverter verifies pandoc is on PATH before returning.
func NewPandocConverter() (*PandocConverter, error) {
	return newPandocConverter(defaultRunner)
}

func newPandocConverter(run runner) (*PandocConverter, error) {
	if _, err := run.LookPath("pandoc"); err != nil {
		return nil, fmt.Errorf("pandoc not found on PATH: %w", err)
	}
	return &PandocConverter{run: run}, nil
}

// Convert runs pandoc over the source and returns the Markdown text.
func (p *PandocConverter) Convert(path string) (string, error) {
	out, err := p.run.RunOutput("pandoc", pandocArgs(path)...)
	if err != nil {
		return "", fmt.Errorf("converting %s with pandoc: %w", path, err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("pandoc produced empty output for %s", path)
	}
	return string(out), nil
}

// ContainerConverter converts publications by piping them through a pandoc
// container image. It depends on a container.Runtime (docker or podman)
// injected at construction time.
type ContainerConverter struct {
	runtime container.Runtime
	image   string
}

// NewContainerConverter creates a converter that runs the given pandoc
// image. It verifies that the image exists locally before returning.
func NewContainerConverter(rt container.Runtime, image string) (*ContainerConverter, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pandoc image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerConverter{runtime: rt, image: image}, nil
}

// containerArgs is the pandoc invocation used inside the container; the
// source streams over stdin, so the input format is explicit.
var containerArgs = []string{"-f", "epub", "-t", "gfm", "--wrap", "none"}

// Convert pipes the source file through the pandoc container and returns
// the resulting Markdown text.
func (c *ContainerConverter) Convert(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening source %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := c.runtime.Run(c.image, containerArgs, f, &out); err != nil {
		return "", fmt.Errorf("converting %s with %s: %w", path, c.image, err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%s produced empty output for %s", c.image, path)
	}
	return out.String(), nil
}
