package cli

import (
	"errors"
	"fmt"
	"io"

	"imagecollector/internal/domain"
)

// Banner is printed when the CLI starts
const Banner = "Ubuntu Image Collector: Uniting the Web!\nGather shared images with respect and community spirit"

// Farewell closes the CLI output
const Farewell = "Together we thrive, sharing the web's vibe!"

// Reporter writes the user-facing lines for each result
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Banner prints the start banner
func (r *Reporter) Banner() {
	fmt.Fprintln(r.out, Banner)
	fmt.Fprintln(r.out)
}

// Started announces a URL before it is processed
func (r *Reporter) Started(url string) {
	fmt.Fprintf(r.out, "\nProcessing URL: %s\n", url)
}

// Finished prints the lines for one result
func (r *Reporter) Finished(result domain.Result) {
	for _, line := range Lines(result) {
		fmt.Fprintln(r.out, line)
	}
}

// Summary prints the closing lines of a run
func (r *Reporter) Summary(summary domain.Summary) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, SummaryLine(summary))
	fmt.Fprintln(r.out, Farewell)
}

// Lines renders a result as report lines
func Lines(result domain.Result) []string {
	switch result.Outcome {
	case domain.OutcomeSaved:
		return []string{
			fmt.Sprintf("✓ Image captured: %s", result.Filename),
			fmt.Sprintf("✓ Stored in: %s", result.Location),
		}
	case domain.OutcomeDuplicate:
		return []string{
			fmt.Sprintf("✗ Warning: '%s' is a duplicate of existing file '%s'", result.Filename, result.DuplicateOf),
		}
	}

	switch result.ErrorKind {
	case domain.KindConnection, domain.KindInvalidURL:
		return []string{fmt.Sprintf("✗ Connection issue: %s", errorText(result.Err))}
	case domain.KindNotImage:
		return []string{fmt.Sprintf("✗ Warning: '%s' does not point to an image (Content-Type: %s)", result.URL, result.ContentType)}
	case domain.KindTooLarge:
		return []string{fmt.Sprintf("✗ Warning: '%s' file too large (%d bytes)", result.URL, result.Size)}
	default:
		return []string{fmt.Sprintf("✗ Something went wrong: %s", errorText(result.Err))}
	}
}

// SummaryLine renders the closing line of a run
func SummaryLine(summary domain.Summary) string {
	return fmt.Sprintf("Done: %d saved, %d duplicates, %d rejected, %d failed",
		summary.Saved, summary.Duplicates, summary.Rejected, summary.Failed)
}

// errorText prefers the underlying cause so users see e.g. the network
// error rather than the domain code
func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Cause()
	}
	return err.Error()
}
