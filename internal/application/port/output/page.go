package output

import (
	"context"
	"time"

	"formwalker/internal/domain/entity"
)

// PagePort is the page-session collaborator the engine works through. It has
// no network protocol of its own; everything happens via this abstraction.
type PagePort interface {
	Navigate(ctx context.Context, url string) error

	// Controls snapshots every candidate form control currently in the view,
	// data-entry and chrome alike. Clutter filtering is the classifier's job.
	Controls(ctx context.Context) ([]entity.Control, error)

	// ElementText returns the visible text of the first selector that matches,
	// without waiting for absent elements.
	ElementText(ctx context.Context, selectors []string) (string, bool)

	// Headings returns the visible heading texts of the current view, in
	// document order.
	Headings(ctx context.Context) ([]string, error)

	// DropdownOptions opens a lazily-populated dropdown, reads its visible
	// option texts and closes it again.
	DropdownOptions(ctx context.Context, selector string) ([]string, error)

	// PageText returns the visible body text, used for completion markers.
	PageText(ctx context.Context) (string, error)

	Click(ctx context.Context, selector string) error

	// WaitFor polls cond until it reports true or the timeout expires. A
	// timeout is returned as an error, never a panic.
	WaitFor(ctx context.Context, timeout time.Duration, cond func(ctx context.Context) bool) error

	Screenshot(ctx context.Context) (*entity.Screenshot, error)

	CurrentURL() string
	Title() string
	Close()
}
