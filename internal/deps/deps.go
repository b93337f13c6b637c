// Package deps checks the external binaries the pipeline shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"factreel/internal/services"
)

// Requirement defines an external dependency factreel relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// PipelineRequirements lists the binaries a full scan needs.
func PipelineRequirements() []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: "ffmpeg", Description: "Audio extraction from downloaded media"},
		{Name: "Whisper", Command: "whisper", Description: "Speech-to-text transcription"},
	}
}

// FetchRequirements lists the binaries URL downloads need.
func FetchRequirements() []Requirement {
	return []Requirement{
		{Name: "yt-dlp", Command: "yt-dlp", Description: "Media download from source URLs"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Preflight verifies every required binary is present before a run touches any
// item. A missing required binary is a configuration error and aborts the run.
func Preflight(requirements []Requirement) error {
	var missing []string
	for _, status := range CheckBinaries(requirements) {
		if status.Available || status.Optional {
			continue
		}
		missing = append(missing, status.Command)
	}
	if len(missing) == 0 {
		return nil
	}
	return services.Wrap(
		services.ErrConfiguration, "deps", "preflight",
		fmt.Sprintf("required binaries missing: %s", strings.Join(missing, ", ")), nil)
}
