package git

import (
	"context"
	"errors"
)

// Fallback consults Secondary only when Primary cannot run at all.
// Any other Primary failure is returned unchanged.
type Fallback struct {
	Primary   Repository
	Secondary Repository
}

// Toplevel implements Repository.
func (f *Fallback) Toplevel(ctx context.Context) (string, error) {
	root, err := f.Primary.Toplevel(ctx)
	if errors.Is(err, ErrToolNotFound) && f.Secondary != nil {
		return f.Secondary.Toplevel(ctx)
	}
	return root, err
}

// RemoteURL implements Repository.
func (f *Fallback) RemoteURL(ctx context.Context, dir, remote string) (string, error) {
	url, err := f.Primary.RemoteURL(ctx, dir, remote)
	if errors.Is(err, ErrToolNotFound) && f.Secondary != nil {
		return f.Secondary.RemoteURL(ctx, dir, remote)
	}
	return url, err
}
