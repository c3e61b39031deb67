package media

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Preview is an ephemeral resource used to display a selected item
type Preview struct {
	ItemID      uuid.UUID `json:"item_id"`
	Token       string    `json:"-"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
}

// PreviewProvider creates and releases preview resources. Every Create must
// be matched by exactly one Release.
type PreviewProvider interface {
	Create(item Item) (Preview, error)
	Release(p Preview)
}

// Previews keeps exactly one live preview per item of a selection
type Previews struct {
	provider PreviewProvider
	live     map[uuid.UUID]Preview
}

func NewPreviews(provider PreviewProvider) *Previews {
	return &Previews{
		provider: provider,
		live:     make(map[uuid.UUID]Preview),
	}
}

// Derive brings the live previews in line with the selection: stale ones are
// released, missing ones created, existing ones kept as they are. Calling it
// again with the same selection does nothing.
func (p *Previews) Derive(s *Selection) error {
	items := s.Items()

	present := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		present[item.ID] = struct{}{}
	}

	for id, preview := range p.live {
		if _, ok := present[id]; !ok {
			p.provider.Release(preview)
			delete(p.live, id)
		}
	}

	var errs []error
	for _, item := range items {
		if _, ok := p.live[item.ID]; ok {
			continue
		}
		preview, err := p.provider.Create(item)
		if err != nil {
			slog.Warn("Failed to create preview", "name", item.Name, "err", err)
			errs = append(errs, fmt.Errorf("preview for %s: %w", item.Name, err))
			continue
		}
		p.live[item.ID] = preview
	}

	return errors.Join(errs...)
}

// Get returns the live preview of an item
func (p *Previews) Get(itemID uuid.UUID) (Preview, bool) {
	preview, ok := p.live[itemID]
	return preview, ok
}

// For returns the previews of the selection's items in selection order,
// leaving out items whose preview could not be created.
func (p *Previews) For(s *Selection) []Preview {
	items := s.Items()
	previews := make([]Preview, 0, len(items))
	for _, item := range items {
		if preview, ok := p.live[item.ID]; ok {
			previews = append(previews, preview)
		}
	}
	return previews
}

// Live is the number of preview resources currently held
func (p *Previews) Live() int {
	return len(p.live)
}

// ReleaseAll releases every preview. Used when a draft is reset, submitted
// or discarded.
func (p *Previews) ReleaseAll() {
	for id, preview := range p.live {
		p.provider.Release(preview)
		delete(p.live, id)
	}
}
