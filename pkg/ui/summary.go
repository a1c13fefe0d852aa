package ui

import (
	"fmt"

	"pixivsave/pkg/models"
)

// PrintSummary prints the end of run report. Failed links are always
// printed, even in quiet mode.
func PrintSummary(s *models.Summary) {
	printf(false, "\n\n%s\n", Magenta("[RUN SUMMARY]"))
	PrintInfo("Profile", s.ProfileURL)
	PrintInfo("Listing pages", fmt.Sprintf("%d", s.PagesScanned))
	PrintInfo("Artworks found", fmt.Sprintf("%d", s.LinksDiscovered))
	PrintInfo("Artworks visited", fmt.Sprintf("%d", len(s.Results)-s.Count(models.OutcomeSkipped)))
	if skipped := s.Count(models.OutcomeSkipped); skipped > 0 {
		PrintInfo("Artworks skipped", fmt.Sprintf("%d", skipped))
	}
	PrintInfo("Images written", fmt.Sprintf("%d", s.ImagesWritten))
	PrintInfo("Duration", s.Duration.Round(1e6).String())

	failed := s.FailedLinks()
	if s.ImagesFailed > 0 {
		PrintError("Images failed", s.ImagesFailed)
	}
	if len(failed) == 0 {
		PrintSuccess("\n[CAPTURE COMPLETED]")
		return
	}

	PrintError(fmt.Sprintf("%d artworks failed", len(failed)))
	for _, r := range failed {
		reason := string(r.Outcome)
		if r.Err != nil {
			reason += ": " + r.Err.Error()
		}
		printf(true, "  %s %s\n", Red("✗"), r.Link)
		printf(true, "    %s\n", Dim(reason))
	}
}
